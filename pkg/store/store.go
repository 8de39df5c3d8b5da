// Package store provides persistence for scene documents.
//
// This package defines an interface for scene storage backends, with
// implementations for different deployments:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for the API server
//
// # Architecture
//
// A stored scene is wrapped in a Record that carries an opaque id, the scene
// content hash, and timestamps. The Store interface supports:
//   - Save/Get/Delete operations
//   - Listing record metadata without scene bodies
//
// The content hash lets callers reuse cached pipeline results for a stored
// scene without re-hashing it on every request.
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemoryStore()
//
//	// Production
//	st, err := store.NewMongoStore(ctx, store.MongoConfig{
//	    URI: "mongodb://localhost:27017",
//	})
//
// Save and retrieve scenes:
//
//	rec, err := st.Save(ctx, s)
//	if err != nil {
//	    return err
//	}
//	rec, err = st.Get(ctx, rec.ID)
package store

import (
	"context"
	"errors"
	"time"

	"github.com/flowmotion/flowmotion/pkg/scene"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a scene record does not exist.
	ErrNotFound = errors.New("scene not found")
)

// Record wraps a stored scene with its storage metadata.
type Record struct {
	ID        string      `json:"id" bson:"_id"`
	SceneHash string      `json:"scene_hash" bson:"scene_hash"`
	Scene     scene.Scene `json:"scene" bson:"scene"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// RecordInfo is the metadata subset returned by List.
type RecordInfo struct {
	ID        string    `json:"id" bson:"_id"`
	SceneHash string    `json:"scene_hash" bson:"scene_hash"`
	Header    string    `json:"header,omitempty" bson:"header,omitempty"`
	NodeCount int       `json:"node_count" bson:"node_count"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Info extracts the listing metadata from a full record.
func (r *Record) Info() RecordInfo {
	return RecordInfo{
		ID:        r.ID,
		SceneHash: r.SceneHash,
		Header:    r.Scene.Header,
		NodeCount: len(r.Scene.Nodes),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Store is the interface for scene storage backends.
type Store interface {
	// Save stores a scene under a freshly generated id and returns the record.
	Save(ctx context.Context, s scene.Scene) (*Record, error)

	// Update replaces the scene stored under id.
	// Returns ErrNotFound if the record doesn't exist.
	Update(ctx context.Context, id string, s scene.Scene) (*Record, error)

	// Get retrieves a record by id.
	// Returns ErrNotFound if the record doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns metadata for all stored scenes, newest first.
	List(ctx context.Context) ([]RecordInfo, error)

	// Delete removes a record.
	// Returns ErrNotFound if the record doesn't exist.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
