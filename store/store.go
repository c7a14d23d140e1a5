// Package store persists documents in named collections behind a single
// repository interface. Memory, Postgres (GORM) and MongoDB backends are
// interchangeable.
package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrConflict = errors.New("document already exists")
)

// Document is implemented by pointer types of every stored model.
type Document interface {
	GetID() string
	SetID(id string)
	Created() time.Time
	SetCreated(at time.Time)
	// Touch stamps timestamps and re-derives computed fields before a write.
	Touch(now time.Time)
	// SearchFields maps each searchable field name to its value.
	SearchFields() map[string]string
	TableName() string
}

// Repository is the per-entity persistence contract.
type Repository[T Document] interface {
	// GetAll returns every document, newest first.
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	// Create stores doc, assigning an id when it has none.
	Create(ctx context.Context, doc T) (T, error)
	// Update overwrites an existing document. Last write wins.
	Update(ctx context.Context, doc T) (T, error)
	Delete(ctx context.Context, id string) error
	// Search returns documents whose search fields contain term, ignoring case.
	Search(ctx context.Context, term string) ([]T, error)
}

// Driver names accepted by For.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// newDoc allocates the value a T points to.
func newDoc[T Document]() T {
	var zero T
	return reflect.New(reflect.TypeOf(zero).Elem()).Interface().(T)
}

// collection is the collection name of T.
func collection[T Document]() string {
	return newDoc[T]().TableName()
}

// searchKeys lists the searchable field names of T in a stable order.
func searchKeys[T Document]() []string {
	fields := newDoc[T]().SearchFields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func wrap(op, coll string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s: %w", op, coll, err)
}
