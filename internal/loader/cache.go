package loader

import (
	"sync"

	"github.com/ironsheep/curve-tools-mcp/internal/geom"
)

type cacheKey struct {
	path  string
	order Order
}

// Cache provides thread-safe caching of loaded drawings to avoid re-parsing
// the same file on every tool call.
//
// Drawings are keyed by the exact path string and the grouping order they were
// loaded with. Cached drawings must be treated as read-only: every pipeline
// stage returns new values, so sharing them between callers is safe.
//
// # Example Usage
//
//	cache := loader.NewCache()
//	d, err := cache.Load("/path/to/frag0.csv", loader.OrderFirstAppearance)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/frag0.csv") // Optional: free memory
type Cache struct {
	mu       sync.RWMutex
	drawings map[cacheKey]*geom.Drawing
}

// NewCache creates an empty drawing cache.
func NewCache() *Cache {
	return &Cache{
		drawings: make(map[cacheKey]*geom.Drawing),
	}
}

// Load returns the cached drawing for path, loading it from disk on a miss.
// Load errors are not cached.
func (c *Cache) Load(path string, order Order) (*geom.Drawing, error) {
	key := cacheKey{path: path, order: order}

	c.mu.RLock()
	if d, ok := c.drawings[key]; ok {
		c.mu.RUnlock()
		return d, nil
	}
	c.mu.RUnlock()

	d, err := LoadFile(path, order)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.drawings[key] = d
	c.mu.Unlock()

	return d, nil
}

// Evict removes every cached drawing loaded from path, whatever its order.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	for k := range c.drawings {
		if k.path == path {
			delete(c.drawings, k)
		}
	}
	c.mu.Unlock()
}

// Clear removes all drawings from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.drawings = make(map[cacheKey]*geom.Drawing)
	c.mu.Unlock()
}

// Len returns the number of cached drawings.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.drawings)
}
