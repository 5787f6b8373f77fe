package data

import (
	"context"
	"sync"
	"time"

	"fleet-usage/internal/model"
)

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// Cache is a small in-memory TTL cache. A nil *Cache is valid and caches nothing.
type Cache[T any] struct {
	mu    sync.RWMutex
	store map[string]cacheEntry[T]
	ttl   time.Duration
	now   func() time.Time
}

// NewCache returns nil for a non-positive ttl, which disables caching.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		return nil
	}
	return &Cache[T]{
		store: make(map[string]cacheEntry[T]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a cached value if available and not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.store[key]
	if !ok || c.now().After(entry.expiresAt) {
		return zero, false
	}
	return entry.value, true
}

func (c *Cache[T]) Set(key string, value T) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = cacheEntry[T]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// GetOrLoad returns the cached value or calls load and caches a successful result.
// Concurrent misses may each call load.
func (c *Cache[T]) GetOrLoad(key string, load func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Clear removes all entries.
func (c *Cache[T]) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]cacheEntry[T])
}

func (c *Cache[T]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Sweep removes expired entries.
func (c *Cache[T]) Sweep() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}

// Run sweeps periodically until ctx is done.
func (c *Cache[T]) Run(ctx context.Context, every time.Duration) {
	if c == nil || every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// CachedSource memoizes the asset list and plant history of another Source.
// Readings and costs always go to the underlying source.
type CachedSource struct {
	Source
	assets  *Cache[[]model.Asset]
	history *Cache[[]model.AssignmentEvent]
}

func NewCachedSource(src Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		Source:  src,
		assets:  NewCache[[]model.Asset](ttl),
		history: NewCache[[]model.AssignmentEvent](ttl),
	}
}

func (s *CachedSource) Assets(ctx context.Context) ([]model.Asset, error) {
	return s.assets.GetOrLoad("all", func() ([]model.Asset, error) {
		return s.Source.Assets(ctx)
	})
}

// AssignmentEvents caches the full history only; per-asset lookups pass through.
func (s *CachedSource) AssignmentEvents(ctx context.Context, assetIDs ...string) ([]model.AssignmentEvent, error) {
	if len(assetIDs) > 0 {
		return s.Source.AssignmentEvents(ctx, assetIDs...)
	}
	return s.history.GetOrLoad("all", func() ([]model.AssignmentEvent, error) {
		return s.Source.AssignmentEvents(ctx)
	})
}

// Invalidate drops cached assets and history, e.g. after an import.
func (s *CachedSource) Invalidate() {
	s.assets.Clear()
	s.history.Clear()
}

// Run sweeps both caches until ctx is done.
func (s *CachedSource) Run(ctx context.Context, every time.Duration) {
	go s.assets.Run(ctx, every)
	s.history.Run(ctx, every)
}
