package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flowmotion/flowmotion/pkg/scene"
)

// MongoConfig configures a MongoDB-backed scene store.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the database name. Defaults to "flowmotion".
	Database string

	// Collection is the collection name. Defaults to "scenes".
	Collection string
}

// MongoStore persists scene records in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "flowmotion"
	}
	if cfg.Collection == "" {
		cfg.Collection = "scenes"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (m *MongoStore) Save(ctx context.Context, s scene.Scene) (*Record, error) {
	hash, err := hashScene(s)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &Record{
		ID:        uuid.NewString(),
		SceneHash: hash,
		Scene:     s,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := m.collection.InsertOne(ctx, rec); err != nil {
		return nil, fmt.Errorf("insert scene: %w", err)
	}
	return rec, nil
}

func (m *MongoStore) Update(ctx context.Context, id string, s scene.Scene) (*Record, error) {
	hash, err := hashScene(s)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"scene":      s,
		"scene_hash": hash,
		"updated_at": now,
	}}

	res := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var rec Record
	if err := res.Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update scene: %w", err)
	}
	return &rec, nil
}

func (m *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find scene: %w", err)
	}
	return &rec, nil
}

func (m *MongoStore) List(ctx context.Context) ([]RecordInfo, error) {
	cursor, err := m.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer cursor.Close(ctx)

	var infos []RecordInfo
	for cursor.Next(ctx) {
		var rec Record
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode scene record: %w", err)
		}
		infos = append(infos, rec.Info())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenes: %w", err)
	}
	return infos, nil
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete scene: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
