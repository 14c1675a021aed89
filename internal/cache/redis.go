// Package cache provides the Redis-backed cache for catalog responses.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default TTLs.
const (
	// DefaultTTL bounds how stale a cached catalog response may get.
	DefaultTTL = 5 * time.Minute

	// DefaultNegativeTTL is how long an unknown library slug is remembered.
	DefaultNegativeTTL = time.Minute
)

// Options configures cache expiry.
type Options struct {
	TTL         time.Duration
	NegativeTTL time.Duration
}

// Cache provides Redis cache access methods.
type Cache struct {
	client      *redis.Client
	ttl         time.Duration
	negativeTTL time.Duration
}

// New creates a new Cache with a Redis client.
func New(ctx context.Context, redisURL string, opts Options) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewWithClient(client, opts), nil
}

// NewWithClient wraps an existing Redis client.
func NewWithClient(client *redis.Client, opts Options) *Cache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	negativeTTL := opts.NegativeTTL
	if negativeTTL <= 0 {
		negativeTTL = DefaultNegativeTTL
	}

	return &Cache{
		client:      client,
		ttl:         ttl,
		negativeTTL: negativeTTL,
	}
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
