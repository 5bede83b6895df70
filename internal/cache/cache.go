package cache

import (
	"sync"
	"time"

	"github.com/u9200347/event-discovery/internal/events"
)

// Entry is one cached query result with its write timestamp.
type Entry struct {
	Events    []events.Event
	WrittenAt time.Time
}

// MemoryCache is a concurrency-safe in-memory TTL cache for query results.
// Expired entries are treated as absent on read and physically evicted by
// a full sweep on every write; with the expected low key cardinality the
// O(n) sweep is cheap.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration

	// now is swappable so tests can advance simulated time.
	now func() time.Time
}

// NewMemoryCache creates a MemoryCache. If ttl <= 0 it defaults to
// 30 minutes.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemoryCache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached events for key. A missing key and an expired key
// are the same thing: a miss.
func (c *MemoryCache) Get(key string) ([]events.Event, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.WrittenAt) > c.ttl {
		return nil, false
	}
	return entry.Events, true
}

// Set replaces the entry for key (entries are never patched in place) and
// sweeps out every entry older than the TTL.
func (c *MemoryCache) Set(key string, evs []events.Event) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, entry := range c.entries {
		if now.Sub(entry.WrittenAt) > c.ttl {
			delete(c.entries, k)
		}
	}

	c.entries[key] = Entry{Events: evs, WrittenAt: now}
}

// Len reports the number of physically stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// SetClock overrides the cache's time source. Intended for tests.
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
