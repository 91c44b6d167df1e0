// Package memstore keeps one resource type's records in process memory.
//
// A Store owns the id -> record map, the insertion order and the id counter.
// Identifiers start at 1 and are never reused, even after deletion. All
// methods are safe for concurrent use.
package memstore

import (
	"errors"
	"sync"
	"time"

	"github.com/angelmondragon/catalog-api/pkg/pagination"
)

// ErrNotFound is returned when an identifier has no record.
var ErrNotFound = errors.New("record not found")

type Store[T any] struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]T
	order   []int64
	now     func() time.Time
}

type Option[T any] func(*Store[T])

// WithClock overrides the timestamp source.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Store[T]) {
		if now != nil {
			s.now = now
		}
	}
}

// utcNow matches the timestamps the SQL repositories write.
func utcNow() time.Time {
	return time.Now().UTC()
}

func New[T any](opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		nextID:  1,
		records: make(map[int64]T),
		now:     utcNow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert assigns the next identifier, lets build shape the record and stores it.
func (s *Store[T]) Insert(build func(id int64, now time.Time) T) T {
	rec, _ := s.InsertUnless(nil, build)
	return rec
}

// InsertUnless runs check against every stored record in insertion order
// while holding the write lock. The first non-nil result aborts the insert
// and is returned unchanged.
func (s *Store[T]) InsertUnless(check func(existing T) error, build func(id int64, now time.Time) T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if check != nil {
		for _, id := range s.order {
			if err := check(s.records[id]); err != nil {
				var zero T
				return zero, err
			}
		}
	}

	id := s.nextID
	rec := build(id, s.now())
	s.records[id] = rec
	s.order = append(s.order, id)
	s.nextID++
	return rec, nil
}

func (s *Store[T]) Get(id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return rec, nil
}

// List filters with pred (nil keeps everything) and returns the
// [offset, offset+limit) slice of the matches plus the filtered total.
func (s *Store[T]) List(pred func(T) bool, offset, limit int) ([]T, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]T, 0, len(s.order))
	for _, id := range s.order {
		rec := s.records[id]
		if pred == nil || pred(rec) {
			matched = append(matched, rec)
		}
	}

	start, end := pagination.Window(len(matched), offset, limit)
	page := make([]T, end-start)
	copy(page, matched[start:end])
	return page, len(matched)
}

// Update applies a read-modify-write to the stored record under the lock.
func (s *Store[T]) Update(id int64, apply func(rec *T, now time.Time)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	apply(&rec, s.now())
	s.records[id] = rec
	return rec, nil
}

func (s *Store[T]) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
