package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jonasreimer/schemascope/pkg/schema"
)

// Default connection parameters.
const (
	DefaultDatabase   = "schemascope"
	DefaultCollection = "snapshots"

	connectTimeout = 10 * time.Second
)

// MongoArchive stores snapshots in a MongoDB collection.
type MongoArchive struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoArchive connects to MongoDB and prepares the snapshot
// collection. Empty database or collection names fall back to the
// defaults. The connection is verified with a ping before returning.
func NewMongoArchive(ctx context.Context, uri, database, collection string) (*MongoArchive, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	col := client.Database(database).Collection(collection)
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "taken_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create snapshot index: %w", err)
	}

	return &MongoArchive{client: client, col: col}, nil
}

func (m *MongoArchive) Save(ctx context.Context, s *schema.Schema) (*Snapshot, error) {
	snap, err := New(s)
	if err != nil {
		return nil, err
	}

	latest, err := m.Latest(ctx)
	switch {
	case err == nil && latest.Hash == snap.Hash:
		return latest, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, err
	}

	if _, err := m.col.InsertOne(ctx, snap); err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

func (m *MongoArchive) Latest(ctx context.Context) (*Snapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "taken_at", Value: -1}})
	return m.findOne(ctx, bson.M{}, opts)
}

func (m *MongoArchive) Get(ctx context.Context, id string) (*Snapshot, error) {
	return m.findOne(ctx, bson.M{"_id": id}, options.FindOne())
}

func (m *MongoArchive) findOne(ctx context.Context, filter any, opts *options.FindOneOptions) (*Snapshot, error) {
	var snap Snapshot
	err := m.col.FindOne(ctx, filter, opts).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find snapshot: %w", err)
	}
	return &snap, nil
}

func (m *MongoArchive) List(ctx context.Context, limit int) ([]Snapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "taken_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"schema": 0})

	cursor, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var snaps []Snapshot
	if err := cursor.All(ctx, &snaps); err != nil {
		return nil, fmt.Errorf("decode snapshots: %w", err)
	}
	return snaps, nil
}

func (m *MongoArchive) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Archive = (*MongoArchive)(nil)
