package users

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/catalog-api/internal/repo"
	"github.com/angelmondragon/catalog-api/pkg/db"
	"gorm.io/gorm"
)

type userRow struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string     `gorm:"column:email;not null;index"`
	Username     string     `gorm:"column:username;size:50;not null;uniqueIndex"`
	FullName     *string    `gorm:"column:full_name"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt    *time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (userRow) TableName() string { return "users" }

func (r userRow) toUser() User {
	return User{
		ID:           r.ID,
		Email:        r.Email,
		Username:     r.Username,
		FullName:     r.FullName,
		PasswordHash: r.PasswordHash,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func rowFromUser(u User) userRow {
	return userRow{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// SQLRepository stores users through gorm. Only username carries a unique
// index; email duplicates are rejected on create but updates may introduce them.
type SQLRepository struct {
	repo.Base
	now func() time.Time
}

func NewSQLRepository(conn *gorm.DB) *SQLRepository {
	return &SQLRepository{Base: repo.NewBase(conn), now: time.Now}
}

func Models() []any {
	return []any{&userRow{}}
}

func (r *SQLRepository) Create(ctx context.Context, user NewUser) (User, error) {
	var created User
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		var existing []userRow
		if err := tx.Where("username = ? OR email = ?", user.Username, user.Email).
			Order("id ASC").
			Find(&existing).Error; err != nil {
			return err
		}
		for _, row := range existing {
			if err := user.conflictWith(row.toUser()); err != nil {
				return err
			}
		}

		row := rowFromUser(user.build(0, r.now().UTC()))
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		created = row.toUser()
		return nil
	})
	if db.IsUniqueViolation(err, "") {
		// A concurrent insert won the race for the username index.
		return User{}, ErrUsernameTaken
	}
	return created, err
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (User, error) {
	var row userRow
	if err := r.DB(ctx).First(&row, id).Error; err != nil {
		if db.IsNotFound(err) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return row.toUser(), nil
}

func (r *SQLRepository) List(ctx context.Context, offset, limit int) ([]User, int, error) {
	var rows []userRow
	total, err := repo.PageCount(r.DB(ctx), &userRow{}, &rows, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toUser())
	}
	return out, total, nil
}

func (r *SQLRepository) Update(ctx context.Context, id int64, changes UserChanges) (User, error) {
	var updated User
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		var row userRow
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}
		u := row.toUser()
		changes.Apply(&u, r.now().UTC())
		row = rowFromUser(u)
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		updated = row.toUser()
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	return updated, err
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res := r.DB(ctx).Delete(&userRow{}, id)
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
	err := r.DB(ctx).Model(&userRow{}).Count(&n).Error
	return n, err
}
