package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	flowerrors "github.com/flowmotion/flowmotion/pkg/errors"
)

// RedisCache backs the cache with a Redis instance, for the API server where
// multiple replicas share one cache.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis at addr ("host:port") and verifies the
// connection with a ping.
func NewRedisCache(ctx context.Context, addr string) (Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, flowerrors.Wrap(flowerrors.ErrCodeCacheBackend, err, "connect redis %s", addr)
	}
	return &RedisCache{client: client}, nil
}

// Get retrieves a value; redis.Nil maps to a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, flowerrors.Wrap(flowerrors.ErrCodeCacheBackend, err, "redis get %s", key)
	}
	return data, true, nil
}

// Set stores a value. A ttl of zero stores the key without expiration.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return flowerrors.Wrap(flowerrors.ErrCodeCacheBackend, err, "redis set %s", key)
	}
	return nil
}

// Delete removes a value; missing keys are fine.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return flowerrors.Wrap(flowerrors.ErrCodeCacheBackend, err, "redis del %s", key)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error { return c.client.Close() }

var _ Cache = (*RedisCache)(nil)
