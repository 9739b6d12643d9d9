package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/store"
)

// Collection is an in-memory store.RecordStore for one record kind. Records
// keep their insertion order.
type Collection[T domain.Record[T]] struct {
	mu    sync.RWMutex
	items map[uuid.UUID]T
	order []uuid.UUID
	opts  options
}

// NewCollection creates an empty collection.
func NewCollection[T domain.Record[T]](opts ...Option) *Collection[T] {
	return &Collection[T]{
		items: make(map[uuid.UUID]T),
		opts:  buildOptions(opts),
	}
}

// Add implements store.RecordStore.
func (c *Collection[T]) Add(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := c.opts.suspend(ctx); err != nil {
		return zero, err
	}
	if err := rec.Validate(); err != nil {
		return zero, store.NewStoreError(string(rec.Kind()), "add", "invalid record", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stored := rec.WithID(uuid.New(), c.opts.now())
	c.items[stored.RecordID()] = stored
	c.order = append(c.order, stored.RecordID())
	return stored.Clone(), nil
}

// Get implements store.RecordStore.
func (c *Collection[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.items[id]
	if !ok {
		var zero T
		return zero, store.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

// ListFor implements store.RecordStore.
func (c *Collection[T]) ListFor(ctx context.Context, patientID uuid.UUID) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0)
	for _, id := range c.order {
		if rec := c.items[id]; rec.OwnerID() == patientID {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

// Update implements store.RecordStore.
func (c *Collection[T]) Update(ctx context.Context, id uuid.UUID, fn func(T) (T, error)) (T, error) {
	var zero T
	if err := c.opts.suspend(ctx); err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.items[id]
	if !ok {
		return zero, store.ErrRecordNotFound
	}

	next, err := fn(cur.Clone())
	if err != nil {
		return zero, err
	}
	if next.RecordID() != cur.RecordID() || next.OwnerID() != cur.OwnerID() {
		return zero, store.NewStoreError(string(cur.Kind()), "update",
			"id and owner cannot change", store.ErrInvalidEntity)
	}
	if err := next.Validate(); err != nil {
		return zero, store.NewStoreError(string(cur.Kind()), "update", "invalid record", err)
	}

	next = next.Touched(c.opts.now()).Clone()
	c.items[id] = next
	return next.Clone(), nil
}

// Remove implements store.RecordStore.
func (c *Collection[T]) Remove(ctx context.Context, id uuid.UUID) error {
	if err := c.opts.suspend(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return store.ErrRecordNotFound
	}
	delete(c.items, id)
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	return nil
}

// Len implements store.RecordStore.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
