package snapshot

import (
	"sync"
	"time"

	"server/internal/domain"
)

// Cache holds the most recent snapshot in a single slot. Writers replace the
// whole value, so readers always observe a complete snapshot. History is the
// durable store's job; the cache keeps none.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	snap     *domain.Snapshot
	storedAt time.Time
}

// NewCache creates a cache with the given freshness window.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// Get returns the cached snapshot, or nil when the slot is empty or its age
// has reached the TTL.
func (c *Cache) Get() *domain.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return nil
	}
	if c.now().Sub(c.storedAt) >= c.ttl {
		return nil
	}
	return c.snap
}

// Set overwrites the slot unconditionally and restamps the capture time.
func (c *Cache) Set(snap *domain.Snapshot) {
	if snap == nil {
		return
	}
	now := c.now()
	c.mu.Lock()
	c.snap = snap
	c.storedAt = now
	c.mu.Unlock()
}

// Age reports how old the cached value is. ok is false when the slot is empty.
func (c *Cache) Age() (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return 0, false
	}
	return c.now().Sub(c.storedAt), true
}
