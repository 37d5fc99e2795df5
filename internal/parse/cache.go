package parse

import (
	"crypto/sha256"
	"sync"

	"github.com/edgecst/edgecst/internal/ast"
	"github.com/tidwall/tinylru"
)

const DEFAULT_DOCUMENT_CACHE_SIZE = 256

// A DocumentCache caches successfully parsed documents by the SHA-256 of their source,
// the least recently used entries are evicted first. Cached documents are shared and
// must not be mutated.
type DocumentCache struct {
	lock sync.RWMutex //only held exclusively when all entries are invalidated.
	lru  tinylru.LRU
	size int
}

func NewDocumentCache(size int) *DocumentCache {
	if size <= 0 {
		size = DEFAULT_DOCUMENT_CACHE_SIZE
	}
	c := &DocumentCache{size: size}
	c.lru.Resize(size)
	return c
}

func (c *DocumentCache) Get(src string) (*ast.Document, bool) {
	hash := sha256.Sum256([]byte(src))

	c.lock.RLock()
	defer c.lock.RUnlock()

	v, ok := c.lru.Get(hash)
	if !ok {
		return nil, false
	}
	return v.(*ast.Document), true
}

func (c *DocumentCache) Put(src string, doc *ast.Document) {
	hash := sha256.Sum256([]byte(src))

	c.lock.RLock()
	defer c.lock.RUnlock()

	c.lru.Set(hash, doc)
}

func (c *DocumentCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lru.Len()
}

func (c *DocumentCache) InvalidateAllEntries() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.lru = tinylru.LRU{}
	c.lru.Resize(c.size)
}

// Parse returns the cached document for src or parses it, errors are not cached.
func (c *DocumentCache) Parse(src string, opts ...ParserOptions) (doc *ast.Document, cached bool, err error) {
	if doc, ok := c.Get(src); ok {
		return doc, true, nil
	}

	doc, err = Parse(src, opts...)
	if err != nil {
		return nil, false, err
	}
	c.Put(src, doc)
	return doc, false, nil
}
