package cache

import (
	"context"
	"time"

	"github.com/maypok86/otter"
)

// MemoryCache is the in-process implementation, backed by otter's
// contention-free S3-FIFO cache.
type MemoryCache struct {
	store otter.Cache[string, []byte]
}

// NewMemoryCache initializes the in-memory cache with strict limits.
// capacity caps the number of entries to prevent OOM; ttl bounds staleness
// when a definition changes under a cached result.
func NewMemoryCache(capacity int, ttl time.Duration) (*MemoryCache, error) {
	store, err := otter.MustBuilder[string, []byte](capacity).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, err
	}
	return &MemoryCache{store: store}, nil
}

// Get retrieves a value from memory. The context is unused; in-process
// lookups cannot block.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := c.store.Get(key)
	return value, ok, nil
}

// Set adds or updates an entry. The TTL configured at construction
// applies automatically.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.store.Set(key, value)
	return nil
}

// Del removes an entry.
func (c *MemoryCache) Del(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Close shuts down the cache and its background cleanup goroutines.
func (c *MemoryCache) Close() error {
	c.store.Close()
	return nil
}
