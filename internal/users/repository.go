package users

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/catalog-api/pkg/memstore"
)

// Repository persists users. Create fails with ErrUsernameTaken or
// ErrEmailTaken, checked against existing users in creation order.
type Repository interface {
	Create(ctx context.Context, user NewUser) (User, error)
	Get(ctx context.Context, id int64) (User, error)
	List(ctx context.Context, offset, limit int) ([]User, int, error)
	Update(ctx context.Context, id int64, changes UserChanges) (User, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type MemoryRepository struct {
	store *memstore.Store[User]
}

func NewMemoryRepository(opts ...memstore.Option[User]) *MemoryRepository {
	return &MemoryRepository{store: memstore.New(opts...)}
}

func (r *MemoryRepository) Create(_ context.Context, user NewUser) (User, error) {
	return r.store.InsertUnless(user.conflictWith, user.build)
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (User, error) {
	u, err := r.store.Get(id)
	return u, translate(err)
}

func (r *MemoryRepository) List(_ context.Context, offset, limit int) ([]User, int, error) {
	page, total := r.store.List(nil, offset, limit)
	return page, total, nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, changes UserChanges) (User, error) {
	u, err := r.store.Update(id, func(u *User, now time.Time) {
		changes.Apply(u, now)
	})
	return u, translate(err)
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	return translate(r.store.Delete(id))
}

func (r *MemoryRepository) Count(context.Context) (int64, error) {
	return int64(r.store.Len()), nil
}

func translate(err error) error {
	if errors.Is(err, memstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
