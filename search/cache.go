package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/i-dot-ai/lex/legislation"
)

// ResultCache is the read-through backend a CachedEngine memoizes search
// results against. Both cache.RedisCache and cache.LRUCache satisfy it
// structurally; this package has no import dependency on either.
type ResultCache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedEngine wraps an Engine with read-through memoization keyed by the
// normalized input of each call. Writes to the vector store never
// invalidate a cached entry — staleness is bounded only by ttl, an
// acceptable window for a corpus that changes on the order of days, not
// seconds.
type CachedEngine struct {
	engine *Engine
	cache  ResultCache
	ttl    time.Duration
}

// NewCachedEngine wraps engine with cache, memoizing every call for ttl.
func NewCachedEngine(engine *Engine, cache ResultCache, ttl time.Duration) *CachedEngine {
	return &CachedEngine{engine: engine, cache: cache, ttl: ttl}
}

// SearchSections is Engine.SearchSections with a read-through cache keyed
// by the full set of arguments.
func (c *CachedEngine) SearchSections(ctx context.Context, query string, f Filters, size, offset int, includeText bool) ([]legislation.Section, error) {
	key := cacheKey("sections", query, f, size, offset, includeText)
	if sections, ok := getCached[[]legislation.Section](ctx, c.cache, key); ok {
		return sections, nil
	}

	sections, err := c.engine.SearchSections(ctx, query, f, size, offset, includeText)
	if err != nil {
		return nil, err
	}
	setCached(ctx, c.cache, key, sections, c.ttl)
	return sections, nil
}

// SearchActs is Engine.SearchActs with a read-through cache keyed by the
// full set of arguments.
func (c *CachedEngine) SearchActs(ctx context.Context, query string, f Filters, offset, limit int) (ActResults, error) {
	key := cacheKey("acts", query, f, offset, limit)
	if results, ok := getCached[ActResults](ctx, c.cache, key); ok {
		return results, nil
	}

	results, err := c.engine.SearchActs(ctx, query, f, offset, limit)
	if err != nil {
		return ActResults{}, err
	}
	setCached(ctx, c.cache, key, results, c.ttl)
	return results, nil
}

// cacheKey derives a deterministic, bounded-length key from an operation
// name and its normalized arguments, so two calls with the same inputs
// collide regardless of struct field ordering.
func cacheKey(op string, parts ...any) string {
	raw, err := json.Marshal(parts)
	if err != nil {
		// A value that can't be marshaled can't be cached safely either;
		// fall back to a key no call will ever produce twice, so Get
		// always misses rather than serving a wrong result.
		return fmt.Sprintf("search:%s:unkeyable", op)
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("search:%s:%s", op, hex.EncodeToString(sum[:]))
}

func getCached[T any](ctx context.Context, cache ResultCache, key string) (T, bool) {
	var zero T
	raw, ok, err := cache.Get(ctx, key)
	if err != nil || !ok {
		return zero, false
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, false
	}
	return value, true
}

func setCached[T any](ctx context.Context, cache ResultCache, key string, value T, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = cache.Set(ctx, key, raw, ttl)
}
