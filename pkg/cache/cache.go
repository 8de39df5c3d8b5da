// Package cache provides content-addressed caching for resolved layouts and
// evaluated frame states.
//
// Scenes are immutable, so every derived artifact is cacheable forever under
// a key built from the scene's content hash. Two backends are provided: a
// file cache for CLI usage and a Redis cache for the API server. The
// [NullCache] disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. ok is false on a miss; err reports backend
	// failures only, never misses.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache is a no-op cache that never stores anything. Useful for tests
// and for --no-cache runs.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

// Get always reports a miss.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error { return nil }

// Close does nothing.
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
