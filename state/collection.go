// Package state holds the cached, server-confirmed list of each entity
// collection together with the outcome of the last operation on it.
package state

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"campaignhub/store"
)

// Op names a mutation for change listeners.
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes a successful operation on a collection.
type Change struct {
	Collection string
	Op         Op
	ID         string
}

// Listener is told about every successful load or mutation.
type Listener func(Change)

// Collection owns the cached list for one entity. A failed call records its
// error and leaves the list exactly as it was.
type Collection[T store.Document] struct {
	name string
	repo store.Repository[T]
	log  *logrus.Entry

	mu       sync.RWMutex
	items    []T
	loaded   bool
	lastErr  error
	listener Listener
}

func NewCollection[T store.Document](name string, repo store.Repository[T], log *logrus.Entry) *Collection[T] {
	return &Collection[T]{
		name:  name,
		repo:  repo,
		log:   log.WithField("collection", name),
		items: []T{},
	}
}

func (c *Collection[T]) Name() string { return c.name }

// Repo exposes the underlying repository for reads that bypass the cache.
func (c *Collection[T]) Repo() store.Repository[T] { return c.repo }

// OnChange registers the listener for successful operations.
func (c *Collection[T]) OnChange(l Listener) {
	c.mu.Lock()
	c.listener = l
	c.mu.Unlock()
}

// Load replaces the cache with the repository contents.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	items, err := c.repo.GetAll(ctx)
	if err != nil {
		return nil, c.fail(OpLoad, err)
	}

	c.mu.Lock()
	c.items = items
	c.loaded = true
	c.lastErr = nil
	c.mu.Unlock()

	c.notify(Change{Collection: c.name, Op: OpLoad})
	return c.Items(), nil
}

// Items returns a copy of the cached list.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Ensure loads the collection once, then serves the cache.
func (c *Collection[T]) Ensure(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return c.Items(), nil
	}
	return c.Load(ctx)
}

// Get reads one document from the repository.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	doc, err := c.repo.GetByID(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return doc, nil
}

// Create stores doc and prepends the stored copy to the cache.
func (c *Collection[T]) Create(ctx context.Context, doc T) (T, error) {
	created, err := c.repo.Create(ctx, doc)
	if err != nil {
		var zero T
		return zero, c.fail(OpCreate, err)
	}

	c.mu.Lock()
	c.items = append([]T{created}, c.items...)
	c.lastErr = nil
	c.mu.Unlock()

	c.notify(Change{Collection: c.name, Op: OpCreate, ID: created.GetID()})
	return created, nil
}

// Update stores doc and replaces its cached entry in place.
func (c *Collection[T]) Update(ctx context.Context, doc T) (T, error) {
	updated, err := c.repo.Update(ctx, doc)
	if err != nil {
		var zero T
		return zero, c.fail(OpUpdate, err)
	}

	c.mu.Lock()
	next := make([]T, len(c.items))
	copy(next, c.items)
	for i := range next {
		if next[i].GetID() == updated.GetID() {
			next[i] = updated
			break
		}
	}
	c.items = next
	c.lastErr = nil
	c.mu.Unlock()

	c.notify(Change{Collection: c.name, Op: OpUpdate, ID: updated.GetID()})
	return updated, nil
}

// Delete removes the document and drops it from the cache.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return c.fail(OpDelete, err)
	}

	c.mu.Lock()
	next := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if item.GetID() != id {
			next = append(next, item)
		}
	}
	c.items = next
	c.lastErr = nil
	c.mu.Unlock()

	c.notify(Change{Collection: c.name, Op: OpDelete, ID: id})
	return nil
}

// Err returns the error of the last failed operation, cleared by the next success.
func (c *Collection[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Collection[T]) fail(op Op, err error) error {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	c.log.WithError(err).WithField("op", op).Warn("collection operation failed")
	return err
}

func (c *Collection[T]) notify(ch Change) {
	c.mu.RLock()
	l := c.listener
	c.mu.RUnlock()
	if l != nil {
		l(ch)
	}
}

// Values dereferences a list of documents.
func Values[T any](ptrs []*T) []T {
	out := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
