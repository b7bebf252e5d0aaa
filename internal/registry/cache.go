package registry

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value     any
	tags      []string
	expiresAt time.Time
}

// tagCache is a small TTL cache whose entries can be dropped by tag.
type tagCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newTagCache(ttl time.Duration, now func() time.Time) *tagCache {
	return &tagCache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

func (c *tagCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *tagCache) set(key string, value any, tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{value: value, tags: tags, expiresAt: now.Add(c.ttl)}
}

func (c *tagCache) invalidate(tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if hasAnyTag(e.tags, tags) {
			delete(c.entries, key)
		}
	}
}

func hasAnyTag(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
