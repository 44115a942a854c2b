package metastore

import "sync"

// Cache holds the last-known parsed document per storage root path. It is a
// replace-on-write cache with caller-driven invalidation; there is no TTL or
// eviction. The map is safe for concurrent use, but corrections to the same
// root are not serialized against each other (last writer wins).
type Cache struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{docs: make(map[string]*Document)}
}

// Get returns the cached document for rootPath, if one is populated.
func (c *Cache) Get(rootPath string) (*Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[rootPath]
	return doc, ok
}

// Set stores or overwrites the cached document for rootPath.
func (c *Cache) Set(rootPath string, doc *Document) {
	c.mu.Lock()
	c.docs[rootPath] = doc
	c.mu.Unlock()
}

// Invalidate clears any cached document for rootPath.
func (c *Cache) Invalidate(rootPath string) {
	c.mu.Lock()
	delete(c.docs, rootPath)
	c.mu.Unlock()
}
