package cache

import (
	"encoding/json"
	"sync"
	"time"
)

// memEntry holds a cached value with its timestamp.
type memEntry struct {
	value     string
	size      int64
	timestamp time.Time
}

// InMemoryCache is a thread-safe in-memory cache with TTL support. It is not
// size-bounded; it backs tests and single-run sessions where persistence is
// unwanted.
type InMemoryCache struct {
	mu      sync.RWMutex
	cache   map[string]memEntry
	ttl     time.Duration
	enabled bool
}

// NewInMemoryCache creates a new in-memory cache. A TTL of zero or less
// means entries never expire.
func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	if ttl < 0 {
		ttl = 0
	}
	return &InMemoryCache{
		cache:   make(map[string]memEntry),
		ttl:     ttl,
		enabled: true,
	}
}

// Get retrieves a value from the cache.
func (c *InMemoryCache) Get(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	enabled := c.enabled
	c.mu.RUnlock()

	if !enabled || !ok {
		return nil, false
	}

	if c.ttl > 0 && time.Since(entry.timestamp) > c.ttl {
		c.mu.Lock()
		delete(c.cache, key)
		c.mu.Unlock()
		return nil, false
	}

	raw, valid := decode(entry.value)
	if !valid {
		c.mu.Lock()
		delete(c.cache, key)
		c.mu.Unlock()
		return nil, false
	}

	return raw, true
}

// Set stores a value in the cache.
func (c *InMemoryCache) Set(key string, value any) error {
	data, err := encode(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return nil
	}

	c.cache[key] = memEntry{
		value:     data,
		size:      int64(len(data)),
		timestamp: time.Now(),
	}
	return nil
}

// Stats reports entry count and stored bytes. MaxSize is zero: this backend
// is unbounded.
func (c *InMemoryCache) Stats() (Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{Entries: len(c.cache), Enabled: c.enabled}
	for _, entry := range c.cache {
		stats.TotalSize += entry.size
	}
	return stats, nil
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]memEntry)
	return nil
}

// Enable turns the cache back on after a Disable.
func (c *InMemoryCache) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = true
}

// Disable makes Get and Set no-ops without touching stored data.
func (c *InMemoryCache) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = false
}
