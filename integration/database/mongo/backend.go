package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultSessionID is the snapshot document id used when none is given.
const DefaultSessionID = "default"

// Collection is the subset of *mongo.Collection used by SessionBackend.
type Collection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error)
}

type snapshotDocument struct {
	ID        string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// SessionBackend keeps the session snapshot in one document.
type SessionBackend struct {
	coll Collection
	id   string
}

// NewSessionBackend returns a backend storing the snapshot in document id.
func NewSessionBackend(coll Collection, id string) *SessionBackend {
	if id == "" {
		id = DefaultSessionID
	}
	return &SessionBackend{coll: coll, id: id}
}

// Load returns the stored snapshot, or nil when the document does not exist.
func (b *SessionBackend) Load(ctx context.Context) ([]byte, error) {
	var doc snapshotDocument
	err := b.coll.FindOne(ctx, bson.D{{Key: "_id", Value: b.id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Save upserts the snapshot document.
func (b *SessionBackend) Save(ctx context.Context, data []byte) error {
	doc := snapshotDocument{ID: b.id, Data: data, UpdatedAt: time.Now().UTC()}
	_, err := b.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: b.id}}, doc, options.Replace().SetUpsert(true))
	return err
}

// Ping checks the connection when the collection is backed by a live client.
func (b *SessionBackend) Ping(ctx context.Context) error {
	coll, ok := b.coll.(*mongo.Collection)
	if !ok {
		return nil
	}
	return Healthcheck(coll.Database().Client())(ctx)
}
