package items

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/catalog-api/pkg/memstore"
)

// Repository persists items. Implementations return ErrNotFound for unknown ids
// and list in creation order.
type Repository interface {
	Create(ctx context.Context, input CreateItemInput) (Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]Item, int, error)
	Update(ctx context.Context, id int64, input UpdateItemInput) (Item, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// MemoryRepository keeps items in a process-local memstore.
type MemoryRepository struct {
	store *memstore.Store[Item]
}

func NewMemoryRepository(opts ...memstore.Option[Item]) *MemoryRepository {
	return &MemoryRepository{store: memstore.New(opts...)}
}

func (r *MemoryRepository) Create(_ context.Context, input CreateItemInput) (Item, error) {
	return r.store.Insert(input.build), nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (Item, error) {
	item, err := r.store.Get(id)
	return item, translate(err)
}

func (r *MemoryRepository) List(_ context.Context, filter ListFilter, offset, limit int) ([]Item, int, error) {
	page, total := r.store.List(filter.match, offset, limit)
	return page, total, nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, input UpdateItemInput) (Item, error) {
	item, err := r.store.Update(id, func(item *Item, now time.Time) {
		input.Apply(item, now)
	})
	return item, translate(err)
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
