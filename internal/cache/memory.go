package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   string
	expires time.Time
}

// InMemoryCache lives for one process. A zero ttl keeps entries forever.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{entries: make(map[string]entry), ttl: ttl}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return e.value, true
}

func (c *InMemoryCache) Set(_ context.Context, key, value string) error {
	e := entry{value: value}
	if c.ttl > 0 {
		e.expires = time.Now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ TranslationCache = (*InMemoryCache)(nil)
