package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is the in-process fallback used when Redis is unavailable.
// Claims are only visible to this process.
type MemoryCache struct {
	// Claim checks and adds under one lock
	mu     sync.Mutex
	claims *expirable.LRU[string, struct{}]
}

// NewMemoryCache keeps up to size claims, each living for ttl. The ttl
// passed to Claim is ignored; entries share the cache-wide ttl.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		claims: expirable.NewLRU[string, struct{}](size, nil, ttl),
	}
}

func (c *MemoryCache) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.claims.Contains(key) {
		return false, nil
	}
	c.claims.Add(key, struct{}{})
	return true, nil
}

func (c *MemoryCache) Release(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.claims.Remove(key)
	return nil
}
