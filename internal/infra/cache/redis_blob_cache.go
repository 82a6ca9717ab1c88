// internal/infra/cache/redis_blob_cache.go
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBlobCache passes short-lived binary blobs (profile screenshots)
// between workflow steps without storing them in the session record.
type RedisBlobCache struct {
	client *redis.Client
}

func NewRedisBlobCache(client *redis.Client) *RedisBlobCache {
	return &RedisBlobCache{client: client}
}

func (c *RedisBlobCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("error caching blob %s: %w", key, err)
	}
	return nil
}

// Get returns (nil, nil) when the key is absent or expired.
func (c *RedisBlobCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading blob %s: %w", key, err)
	}
	return data, nil
}

func (c *RedisBlobCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting blob %s: %w", key, err)
	}
	return nil
}
