package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache on a Redis instance. It is the backend for
// server deployments where multiple processes share one cache.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis at the given address and verifies the
// connection with a ping.
func NewRedisCache(ctx context.Context, addr string) (Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, Retryable(errors.Join(ErrNetwork, err))
	}
	return &RedisCache{client: client}, nil
}

// Get retrieves a value. A redis.Nil reply is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Retryable(errors.Join(ErrNetwork, err))
	}
	return data, true, nil
}

// Set stores a value. A ttl of 0 stores it without expiration. Redis
// rejects negative expirations, so an already-expired entry is expressed
// by deleting the key.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		return c.Delete(ctx, key)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return Retryable(errors.Join(ErrNetwork, err))
	}
	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return Retryable(errors.Join(ErrNetwork, err))
	}
	return nil
}

// Close releases the client's connections.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
