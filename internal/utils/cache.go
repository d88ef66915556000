package utils

import (
	"os"
	"sync"
	"time"
)

type cacheItem[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// Cache is a thread-safe cache whose entries are tied to a file and
// dropped when that file changes on disk
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]cacheItem[V]
}

// NewCache creates an empty cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{items: make(map[K]cacheItem[V])}
}

// Get returns the cached value if filePath still has the size and
// modification time it had when the value was stored
func (c *Cache[K, V]) Get(key K, filePath string) (V, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	stat, err := os.Stat(filePath)
	if err != nil || !stat.ModTime().Equal(item.modTime) || stat.Size() != item.size {
		c.Delete(key)
		return zero, false
	}
	return item.value, true
}

// Set stores value with the current state of filePath
func (c *Cache[K, V]) Set(key K, value V, filePath string) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem[V]{value: value, modTime: stat.ModTime(), size: stat.Size()}
}

// Delete removes an entry
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Size returns the number of entries
func (c *Cache[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
