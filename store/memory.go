package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"campaignhub/search"
)

// Memory keeps JSON snapshots of documents so callers never share state with
// the store.
type Memory[T Document] struct {
	mu   sync.RWMutex
	docs map[string][]byte
	now  func() time.Time
}

func NewMemory[T Document]() *Memory[T] {
	return &Memory[T]{
		docs: make(map[string][]byte),
		now:  time.Now,
	}
}

// WithClock replaces the clock used for timestamps.
func (m *Memory[T]) WithClock(now func() time.Time) *Memory[T] {
	m.now = now
	return m
}

func (m *Memory[T]) GetAll(ctx context.Context) ([]T, error) {
	return m.list(ctx, func(T) bool { return true })
}

func (m *Memory[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	m.mu.RLock()
	raw, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return zero, wrap("get", collection[T](), ErrNotFound)
	}
	return decode[T](raw)
}

func (m *Memory[T]) Create(ctx context.Context, doc T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if doc.GetID() == "" {
		doc.SetID(uuid.NewString())
	}
	doc.Touch(m.now())

	raw, err := json.Marshal(doc)
	if err != nil {
		return zero, wrap("encode", collection[T](), err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.docs[doc.GetID()]; exists {
		return zero, wrap("create", collection[T](), ErrConflict)
	}
	m.docs[doc.GetID()] = raw
	return decode[T](raw)
}

func (m *Memory[T]) Update(ctx context.Context, doc T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.docs[doc.GetID()]
	if !ok {
		return zero, wrap("update", collection[T](), ErrNotFound)
	}
	if doc.Created().IsZero() {
		old, err := decode[T](prev)
		if err != nil {
			return zero, err
		}
		doc.SetCreated(old.Created())
	}
	doc.Touch(m.now())

	raw, err := json.Marshal(doc)
	if err != nil {
		return zero, wrap("encode", collection[T](), err)
	}
	m.docs[doc.GetID()] = raw
	return decode[T](raw)
}

func (m *Memory[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return wrap("delete", collection[T](), ErrNotFound)
	}
	delete(m.docs, id)
	return nil
}

func (m *Memory[T]) Search(ctx context.Context, term string) ([]T, error) {
	return m.list(ctx, func(doc T) bool {
		fields := doc.SearchFields()
		values := make([]string, 0, len(fields))
		for _, v := range fields {
			values = append(values, v)
		}
		return search.Contains(term, values...)
	})
}

// Len returns the number of stored documents.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *Memory[T]) list(ctx context.Context, keep func(T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	out := make([]T, 0, len(m.docs))
	for _, raw := range m.docs {
		doc, err := decode[T](raw)
		if err != nil {
			m.mu.RUnlock()
			return nil, err
		}
		if keep(doc) {
			out = append(out, doc)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].Created(), out[j].Created()
		if ci.Equal(cj) {
			return out[i].GetID() < out[j].GetID()
		}
		return ci.After(cj)
	})
	return out, nil
}

func decode[T Document](raw []byte) (T, error) {
	doc := newDoc[T]()
	if err := json.Unmarshal(raw, doc); err != nil {
		var zero T
		return zero, wrap("decode", collection[T](), err)
	}
	return doc, nil
}
