package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gorm stores documents as rows of T's table.
type Gorm[T Document] struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGorm[T Document](db *gorm.DB) *Gorm[T] {
	return &Gorm[T]{db: db, now: time.Now}
}

func (g *Gorm[T]) GetAll(ctx context.Context) ([]T, error) {
	var docs []T
	err := g.db.WithContext(ctx).Order("created_at desc").Find(&docs).Error
	if err != nil {
		return nil, wrap("list", collection[T](), err)
	}
	return nonNil(docs), nil
}

func (g *Gorm[T]) GetByID(ctx context.Context, id string) (T, error) {
	doc := newDoc[T]()
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(doc).Error; err != nil {
		var zero T
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, wrap("get", collection[T](), ErrNotFound)
		}
		return zero, wrap("get", collection[T](), err)
	}
	return doc, nil
}

func (g *Gorm[T]) Create(ctx context.Context, doc T) (T, error) {
	if doc.GetID() == "" {
		doc.SetID(uuid.NewString())
	}
	doc.Touch(g.now())
	if err := g.db.WithContext(ctx).Create(doc).Error; err != nil {
		var zero T
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return zero, wrap("create", collection[T](), ErrConflict)
		}
		return zero, wrap("create", collection[T](), err)
	}
	return doc, nil
}

func (g *Gorm[T]) Update(ctx context.Context, doc T) (T, error) {
	var zero T
	existing, err := g.GetByID(ctx, doc.GetID())
	if err != nil {
		return zero, wrap("update", collection[T](), errors.Unwrap(err))
	}
	if doc.Created().IsZero() {
		doc.SetCreated(existing.Created())
	}
	doc.Touch(g.now())
	if err := g.db.WithContext(ctx).Save(doc).Error; err != nil {
		return zero, wrap("update", collection[T](), err)
	}
	return doc, nil
}

func (g *Gorm[T]) Delete(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(newDoc[T]())
	if res.Error != nil {
		return wrap("delete", collection[T](), res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete", collection[T](), ErrNotFound)
	}
	return nil
}

// Search runs a case-insensitive LIKE over the search columns.
func (g *Gorm[T]) Search(ctx context.Context, term string) ([]T, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return g.GetAll(ctx)
	}

	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	naming := g.db.NamingStrategy
	table := collection[T]()

	var clauses []string
	var args []interface{}
	for _, field := range searchKeys[T]() {
		clauses = append(clauses, "LOWER("+naming.ColumnName(table, field)+") LIKE ?")
		args = append(args, pattern)
	}

	var docs []T
	err := g.db.WithContext(ctx).
		Where(strings.Join(clauses, " OR "), args...).
		Order("created_at desc").
		Find(&docs).Error
	if err != nil {
		return nil, wrap("search", table, err)
	}
	return nonNil(docs), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nonNil[T any](docs []T) []T {
	if docs == nil {
		return []T{}
	}
	return docs
}
