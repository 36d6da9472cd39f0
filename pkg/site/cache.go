package site

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/metrics"
)

// cachedPage is a rendered 200 response and the bundle it was rendered
// from.
type cachedPage struct {
	bundle      *bundle.Bundle
	contentType string
	body        []byte
}

// PageCache keeps rendered HTML keyed by path and query.
type PageCache struct {
	lru     *lru.Cache[string, cachedPage]
	metrics *metrics.Metrics
}

// NewPageCache creates a cache holding up to size pages.
func NewPageCache(size int, m *metrics.Metrics) (*PageCache, error) {
	c, err := lru.New[string, cachedPage](size)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}
	return &PageCache{lru: c, metrics: m}, nil
}

// get returns the page cached under key if it was rendered from b. An
// entry from another bundle is dropped: a render that straddled a reload
// can land after the purge.
func (c *PageCache) get(key string, b *bundle.Bundle) (cachedPage, bool) {
	p, ok := c.lru.Get(key)
	if ok && p.bundle != b {
		c.lru.Remove(key)
		ok = false
	}
	c.metrics.PageCacheLookup(ok)
	return p, ok
}

func (c *PageCache) add(key string, p cachedPage) {
	c.lru.Add(key, p)
}

// Len returns the number of cached pages.
func (c *PageCache) Len() int {
	return c.lru.Len()
}

// Purge drops every page.
func (c *PageCache) Purge() {
	c.lru.Purge()
}
