package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base provides a shared foundation for the gorm-backed repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Transaction runs fn in a transaction bound to ctx.
func (b Base) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.DB(ctx).Transaction(fn)
}

// Window scopes a query to [offset, offset+limit) in primary key order.
func Window(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC").Offset(offset).Limit(limit)
	}
}

// PageCount runs a filtered COUNT and, when the window is not past the end,
// loads the page into dest. It returns the filtered total.
func PageCount(query *gorm.DB, model any, dest any, offset, limit int) (int, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Model(model).Count(&total).Error; err != nil {
		return 0, err
	}
	if offset < 0 || int64(offset) >= total || limit <= 0 {
		return int(total), nil
	}
	if err := query.Session(&gorm.Session{}).Model(model).Scopes(Window(offset, limit)).Find(dest).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}
