package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 5 * time.Minute

// MemoryCache is a process local Cache backed by go-cache. Used when Redis
// is disabled or unreachable, and in tests.
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{store: gocache.New(gocache.NoExpiration, memoryCleanupInterval)}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return false, nil
	}

	data, _ := v.([]byte)
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("memory cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores a JSON copy of value. ttl <= 0 means no expiry.
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memory cache encode %s: %w", key, err)
	}

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.store.Set(key, data, ttl)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.store.Delete(k)
	}
	return nil
}

// DeletePattern uses path.Match globbing, close enough to Redis MATCH for our key shapes.
func (c *MemoryCache) DeletePattern(_ context.Context, pattern string) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("memory cache pattern %q: %w", pattern, err)
	}

	for k := range c.store.Items() {
		if ok, _ := path.Match(pattern, k); ok {
			c.store.Delete(k)
		}
	}
	return nil
}

func (c *MemoryCache) Ping(context.Context) error {
	return nil
}
