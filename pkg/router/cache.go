package router

import (
	"strings"
	"sync"

	"github.com/vango-dev/pageroute/pkg/reactive"
)

// PageCache holds the last location of every visited page, keyed by page
// key and ordered by first visit. Entries are never evicted.
type PageCache struct {
	// pubMu keeps snapshots published in Set order.
	pubMu sync.Mutex

	mu      sync.RWMutex
	keys    []string
	entries map[string]Location
	stream  *reactive.Subject[[]Location]
}

// NewPageCache creates an empty cache.
func NewPageCache() *PageCache {
	return &PageCache{
		entries: make(map[string]Location),
		stream:  reactive.NewSubject([]Location{}),
	}
}

// Set stores loc under key and publishes the new contents. A key seen
// before keeps its position.
func (c *PageCache) Set(key string, loc Location) {
	loc = loc.Clone()
	loc.PageKey = key

	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.mu.Lock()
	if _, ok := c.entries[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.entries[key] = loc
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.stream.Next(snapshot)
}

// Get returns the entry stored under key.
func (c *PageCache) Get(key string) (Location, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	loc, ok := c.entries[key]
	if !ok {
		return Location{}, false
	}
	return loc.Clone(), true
}

// Len returns the number of cached pages.
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys)
}

// Keys returns the page keys in first-visit order.
func (c *PageCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.keys...)
}

// ToArray returns a copy of the cached locations in first-visit order.
func (c *PageCache) ToArray() []Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Stream returns the subject publishing ToArray after every Set.
func (c *PageCache) Stream() *reactive.Subject[[]Location] {
	return c.stream
}

func (c *PageCache) snapshotLocked() []Location {
	out := make([]Location, 0, len(c.keys))
	for _, key := range c.keys {
		out = append(out, c.entries[key].Clone())
	}
	return out
}

// PageKey returns the cache key of a location: its path, or for the
// webview route the path joined with the embedded source URL, so every
// embedded page gets its own entry. Repeated src values are joined with
// commas; a missing src leaves the key ending in "_".
func PageKey(loc Location) string {
	if loc.Name == WebviewName {
		return loc.Path + "_" + strings.Join(loc.Query[WebviewSourceParam], ",")
	}
	return loc.Path
}
