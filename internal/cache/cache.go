package cache

import (
	"strings"
	"sync"
	"time"
)

// Cache is an injected TTL cache collaborator. Expiry is judged against the
// caller-supplied now, which keeps reads deterministic in tests and avoids
// hidden wall-clock dependencies.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

func New[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]entry[T]),
	}
}

func (c *Cache[T]) Get(key string, now time.Time) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || now.After(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (c *Cache[T]) Set(key string, value T, ttl time.Duration, now time.Time) {
	c.mu.Lock()
	c.entries[key] = entry[T]{value: value, expiresAt: now.Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Purge drops all entries expired at the given moment
func (c *Cache[T]) Purge(now time.Time) {
	c.mu.Lock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// Key joins environment-scoped key parts in a stable form
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
