package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo stores documents in the collection named by T's TableName, keyed by
// _id.
type Mongo[T Document] struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongo[T Document](db *mongo.Database) *Mongo[T] {
	return &Mongo[T]{
		coll: db.Collection(collection[T]()),
		now:  time.Now,
	}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

func (m *Mongo[T]) GetAll(ctx context.Context) ([]T, error) {
	return m.find(ctx, "list", bson.M{})
}

func (m *Mongo[T]) GetByID(ctx context.Context, id string) (T, error) {
	doc := newDoc[T]()
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(doc)
	if err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, wrap("get", m.coll.Name(), ErrNotFound)
		}
		return zero, wrap("get", m.coll.Name(), err)
	}
	return doc, nil
}

func (m *Mongo[T]) Create(ctx context.Context, doc T) (T, error) {
	if doc.GetID() == "" {
		doc.SetID(uuid.NewString())
	}
	doc.Touch(m.now())
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		var zero T
		if mongo.IsDuplicateKeyError(err) {
			return zero, wrap("create", m.coll.Name(), ErrConflict)
		}
		return zero, wrap("create", m.coll.Name(), err)
	}
	return doc, nil
}

func (m *Mongo[T]) Update(ctx context.Context, doc T) (T, error) {
	var zero T
	if doc.Created().IsZero() {
		existing, err := m.GetByID(ctx, doc.GetID())
		if err != nil {
			return zero, err
		}
		doc.SetCreated(existing.Created())
	}
	doc.Touch(m.now())

	res, err := m.coll.ReplaceOne(ctx, bson.M{"_id": doc.GetID()}, doc)
	if err != nil {
		return zero, wrap("update", m.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return zero, wrap("update", m.coll.Name(), ErrNotFound)
	}
	return doc, nil
}

func (m *Mongo[T]) Delete(ctx context.Context, id string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap("delete", m.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return wrap("delete", m.coll.Name(), ErrNotFound)
	}
	return nil
}

func (m *Mongo[T]) Search(ctx context.Context, term string) ([]T, error) {
	return m.find(ctx, "search", SearchFilter(term, searchKeys[T]()))
}

// SearchFilter builds a case-insensitive substring match over fields.
// An empty term matches every document.
func SearchFilter(term string, fields []string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" {
		return bson.M{}
	}
	pattern := regexp.QuoteMeta(term)
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: bson.M{"$regex": pattern, "$options": "i"}})
	}
	return bson.M{"$or": or}
}

func (m *Mongo[T]) find(ctx context.Context, op string, filter interface{}) ([]T, error) {
	cur, err := m.coll.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, wrap(op, m.coll.Name(), err)
	}
	defer cur.Close(ctx)

	docs := []T{}
	for cur.Next(ctx) {
		doc := newDoc[T]()
		if err := cur.Decode(doc); err != nil {
			return nil, wrap("decode", m.coll.Name(), err)
		}
		docs = append(docs, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, wrap(op, m.coll.Name(), err)
	}
	return docs, nil
}
