package cache

import (
	"context"
	"sync"
	"time"

	"github.com/i-dot-ai/lex/pkg/maps"
)

// lruEntry pairs a cached value with its absolute expiry.
type lruEntry struct {
	value   []byte
	expires time.Time
}

// LRUCache is an in-process search.ResultCache for a single search instance
// running without Redis. It bounds memory with a fixed capacity, evicting
// the least-recently-used entry on overflow, using maps.LinkedMap as the
// ordered store: Get re-inserts its key to mark it most-recently-used, and
// RemoveFirst evicts in insertion order.
type LRUCache struct {
	mu       sync.Mutex
	entries  *maps.LinkedMap[string, lruEntry]
	capacity int
}

// NewLRUCache builds an LRUCache holding at most capacity entries.
func NewLRUCache(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCache{
		entries:  maps.NewLinkedMap[string, lruEntry](capacity),
		capacity: capacity,
	}
}

func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries.Remove(key)
	if !ok {
		return nil, false, nil
	}
	if !entry.expires.IsZero() && time.Now().After(entry.expires) {
		return nil, false, nil
	}
	// Re-insert so the entry moves to the most-recently-used end.
	c.entries.Put(key, entry)
	return entry.value, true, nil
}

func (c *LRUCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if ttl != 0 {
		expires = time.Now().Add(ttl)
	}
	c.entries.Put(key, lruEntry{value: value, expires: expires})

	for c.entries.Size() > c.capacity {
		if _, _, ok := c.entries.RemoveFirst(); !ok {
			break
		}
	}
	return nil
}
