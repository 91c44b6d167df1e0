package items

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/catalog-api/internal/repo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// itemRow is the table shape; Item stays free of storage tags.
type itemRow struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string          `gorm:"column:name;size:100;not null"`
	Description *string         `gorm:"column:description;size:500"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric;not null"`
	IsAvailable bool            `gorm:"column:is_available;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt   *time.Time      `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (itemRow) TableName() string { return "items" }

func (r itemRow) toItem() Item {
	return Item{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		IsAvailable: r.IsAvailable,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func rowFromItem(item Item) itemRow {
	return itemRow{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		IsAvailable: item.IsAvailable,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// SQLRepository stores items through gorm.
type SQLRepository struct {
	repo.Base
	now func() time.Time
}

func NewSQLRepository(db *gorm.DB) *SQLRepository {
	return &SQLRepository{Base: repo.NewBase(db), now: time.Now}
}

// Models lists the tables this repository needs migrated.
func Models() []any {
	return []any{&itemRow{}}
}

func (r *SQLRepository) Create(ctx context.Context, input CreateItemInput) (Item, error) {
	row := rowFromItem(input.build(0, r.now().UTC()))
	if err := r.DB(ctx).Create(&row).Error; err != nil {
		return Item{}, err
	}
	return row.toItem(), nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (Item, error) {
	var row itemRow
	if err := r.DB(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return row.toItem(), nil
}

func (r *SQLRepository) List(ctx context.Context, filter ListFilter, offset, limit int) ([]Item, int, error) {
	query := r.DB(ctx)
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}

	var rows []itemRow
	total, err := repo.PageCount(query, &itemRow{}, &rows, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toItem())
	}
	return out, total, nil
}

func (r *SQLRepository) Update(ctx context.Context, id int64, input UpdateItemInput) (Item, error) {
	var updated Item
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		var row itemRow
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}
		item := row.toItem()
		input.Apply(&item, r.now().UTC())
		row = rowFromItem(item)
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		updated = row.toItem()
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Item{}, ErrNotFound
	}
	return updated, err
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res := r.DB(ctx).Delete(&itemRow{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&itemRow{}).Count(&n).Error
	return n, err
}
