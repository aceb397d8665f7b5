package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces mirror keys in a shared Redis.
const DefaultRedisKeyPrefix = "codegen:cache:"

// RedisMirror writes entries to Redis without expiry.
type RedisMirror struct {
	client *redis.Client
	prefix string
}

// NewRedisMirror returns a mirror using client. An empty prefix selects
// DefaultRedisKeyPrefix.
func NewRedisMirror(client *redis.Client, prefix string) *RedisMirror {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisMirror{client: client, prefix: prefix}
}

// NewRedisMirrorFromURL parses a redis:// URL, checks connectivity and
// returns a mirror.
func NewRedisMirrorFromURL(ctx context.Context, url, prefix string) (*RedisMirror, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisMirror(client, prefix), nil
}

// Write sets {prefix}{key} to code.
func (r *RedisMirror) Write(ctx context.Context, key, code string) error {
	if err := r.client.Set(ctx, r.Key(key), code, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Key returns the Redis key used for a fingerprint.
func (r *RedisMirror) Key(key string) string {
	return r.prefix + key
}

// Name returns "redis".
func (r *RedisMirror) Name() string { return "redis" }

// Close releases the Redis connection pool.
func (r *RedisMirror) Close() error {
	return r.client.Close()
}
