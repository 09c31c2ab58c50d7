package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/colormatch/backend/internal/domain"
)

type entry struct {
	data    []byte
	expires time.Time
}

// MemoryCache holds catalog text in process memory. A janitor goroutine drops
// expired entries until Close is called.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryCache starts a cache swept every cleanupInterval (10m when not positive)
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}

	c := &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go c.janitor(cleanupInterval)
	return c
}

// Get implements domain.CacheRepository. The returned slice must not be modified.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expires) {
		return nil, domain.ErrCacheMiss
	}
	return e.data, nil
}

// Set implements domain.CacheRepository. data is copied.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = entry{data: slices.Clone(data), expires: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Close stops the janitor
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *MemoryCache) evictExpired() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, key)
		}
	}
}
