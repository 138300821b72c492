// Package cache provides the two search.ResultCache backends the search
// service can be configured with: a Redis-backed cache for multi-instance
// deployments, and an in-process LRU for a single instance running without
// Redis. Neither type imports the search package; both satisfy its
// ResultCache interface structurally.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of *redis.Client a RedisCache depends on.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisCache is a search.ResultCache backed by a shared Redis instance,
// letting every replica of the search service serve the same cached page.
type RedisCache struct {
	client RedisClient
}

// NewRedisCache wraps an existing Redis client.
func NewRedisCache(client RedisClient) *RedisCache {
	return &RedisCache{client: client}
}

// NewRedisCacheFromAddr dials addr ("host:port") with the library's default
// options, the same minimal construction the ratelimiter persistence layer
// uses for its own go-redis client.
func NewRedisCacheFromAddr(addr string) *RedisCache {
	return NewRedisCache(redis.NewClient(&redis.Options{Addr: addr}))
}

// Get reports a miss, rather than an error, for redis.Nil — the only way a
// cache backend can distinguish "not cached" from "cached as empty bytes".
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: redis get %q: %w", key, err)
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set %q: %w", key, err)
	}
	return nil
}
