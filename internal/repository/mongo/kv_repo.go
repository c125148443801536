// internal/repository/mongo/kv_repo.go
package mongo

import (
	"context"
	"errors"
	"fitnote/planner/internal/repository"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const kvCollectionName = "kv"

// kvDocument is how one key is stored. The key doubles as the document _id.
type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoKVRepository implements repository.KeyValueStore
type mongoKVRepository struct {
	collection *mongo.Collection
}

// NewMongoKVRepository creates a key-value store backed by the "kv" collection.
func NewMongoKVRepository(db *mongo.Database) repository.KeyValueStore {
	return &mongoKVRepository{
		collection: db.Collection(kvCollectionName),
	}
}

// Get returns the stored value for key.
func (r *mongoKVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.Value, nil
}

// Put replaces the whole document under key, inserting it if needed.
func (r *mongoKVRepository) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("key is required")
	}
	// Upsert: the first save of a key inserts it
	doc := kvDocument{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}
	// Check if the document was actually written
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}

// Delete removes key. A missing key is fine.
func (r *mongoKVRepository) Delete(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// EnsureKVIndexes creates the indexes for the kv collection. Call during startup.
func EnsureKVIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Lets operators find stale documents without a collection scan
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
