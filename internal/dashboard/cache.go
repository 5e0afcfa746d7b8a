package dashboard

import (
	"sync"
	"time"
)

// cacheEntry is one cached payload.
type cacheEntry struct {
	payload   Payload
	expiresAt time.Time
}

// Cache holds dashboard payloads for a fixed TTL. A nil *Cache is valid and never hits.
type Cache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewCache returns a cache with the given TTL, or nil when ttl <= 0.
// The janitor goroutine runs every sweep interval until Close.
func NewCache(ttl, sweep time.Duration) *Cache {
	if ttl <= 0 {
		return nil
	}
	if sweep <= 0 {
		sweep = 5 * time.Minute
	}
	c := &Cache{
		store: make(map[string]*cacheEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go c.cleanup(sweep)
	return c
}

// Get retrieves a cached payload if available and not expired.
func (c *Cache) Get(key string) (Payload, bool) {
	if c == nil {
		return Payload{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists {
		return Payload{}, false
	}
	if c.now().After(entry.expiresAt) {
		return Payload{}, false
	}
	return entry.payload, true
}

// Set stores a payload.
func (c *Cache) Set(key string, payload Payload) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &cacheEntry{
		payload:   payload,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*cacheEntry)
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Close stops the janitor and waits for it to exit.
func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}

// cleanup periodically removes expired entries.
func (c *Cache) cleanup(every time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}
