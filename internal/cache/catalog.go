package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shelfview/shelfview/internal/model"
)

// Cache keys.
const (
	librariesKey      = "catalog:libraries"
	copiesKeyPrefix   = "catalog:copies:"
	negCacheKeySuffix = ":neg"
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// CopiesKey returns the Redis key holding the copies page for slug.
func CopiesKey(slug string) string {
	return copiesKeyPrefix + slug
}

// NegativeKey returns the Redis key marking slug as unknown upstream.
func NegativeKey(slug string) string {
	return CopiesKey(slug) + negCacheKeySuffix
}

// GetCopies retrieves the raw copies page for slug.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetCopies(ctx context.Context, slug string) (*model.CopiesPage, error) {
	var page model.CopiesPage
	if err := c.getJSON(ctx, CopiesKey(slug), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetCopies stores the raw copies page for slug and clears any negative entry.
func (c *Cache) SetCopies(ctx context.Context, slug string, page *model.CopiesPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode copies: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, CopiesKey(slug), data, c.ttl)
	pipe.Del(ctx, NegativeKey(slug))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache copies: %w", err)
	}

	return nil
}

// GetLibraries retrieves the cached library list.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetLibraries(ctx context.Context) ([]model.Library, error) {
	var libraries []model.Library
	if err := c.getJSON(ctx, librariesKey, &libraries); err != nil {
		return nil, err
	}
	return libraries, nil
}

// SetLibraries stores the library list.
func (c *Cache) SetLibraries(ctx context.Context, libraries []model.Library) error {
	data, err := json.Marshal(libraries)
	if err != nil {
		return fmt.Errorf("failed to encode libraries: %w", err)
	}

	if err := c.client.Set(ctx, librariesKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache libraries: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if slug was recently reported unknown.
func (c *Cache) IsNegativelyCached(ctx context.Context, slug string) (bool, error) {
	exists, err := c.client.Exists(ctx, NegativeKey(slug)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}

// SetNegativeCache marks slug as unknown.
func (c *Cache) SetNegativeCache(ctx context.Context, slug string) error {
	if err := c.client.SetEx(ctx, NegativeKey(slug), "", c.negativeTTL).Err(); err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}

	return nil
}

// Invalidate drops cached data for slug, or the library list when slug is empty.
// The request path never calls it; entries expire by TTL. It exists for
// operators and tests that need to evict an entry before it expires.
func (c *Cache) Invalidate(ctx context.Context, slug string) error {
	keys := []string{librariesKey}
	if slug != "" {
		keys = []string{CopiesKey(slug), NegativeKey(slug)}
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	return nil
}

func (c *Cache) getJSON(ctx context.Context, key string, out any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		// A corrupt entry is treated as absent; the next write replaces it.
		return ErrCacheMiss
	}

	return nil
}
