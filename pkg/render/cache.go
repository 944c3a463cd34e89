package render

import (
	"container/list"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/aretw0/folio/pkg/core"
)

// DefaultCacheSize is used when NewCache is given a non-positive size.
const DefaultCacheSize = 64

// Cache memoizes rendered HTML keyed by a digest of the render inputs.
// Entries are evicted least-recently-used first.
type Cache struct {
	mu      sync.Mutex
	size    int
	order   *list.List
	entries map[uint64]*list.Element

	hits   uint64
	misses uint64
}

type cacheEntry struct {
	key  uint64
	html string
}

// NewCache returns a cache holding at most size entries.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{
		size:    size,
		order:   list.New(),
		entries: make(map[uint64]*list.Element),
	}
}

// Key digests everything that influences a render: a view tag (e.g. "note"
// or "pdf:3/7"), the source text and the annotations in order.
func Key(view, source string, annotations []core.Annotation) uint64 {
	h := xxhash.New()
	write := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}
	write(view)
	write(source)
	for _, a := range annotations {
		write(a.ID)
		write(string(a.Type))
		write(a.Color)
		write(a.Text)
		write(strconv.Itoa(a.Page))
	}
	return h.Sum64()
}

// Get returns the cached HTML for key.
func (c *Cache) Get(key uint64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return "", false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).html, true
}

// Put stores html under key.
func (c *Cache) Put(key uint64, html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).html = html
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, html: html})
	for c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
