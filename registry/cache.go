package registry

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// Cache maps expression text to its normalized form. It is unbounded; the
// set of distinct expressions is small and fixed per build. The zero value
// is ready to use, and a Cache is safe for concurrent use.
type Cache struct {
	m sync.Map // uint64 -> cacheEntry
}

type cacheEntry struct {
	src, text string
}

// NewCache returns an empty cache.
func NewCache() *Cache { return &Cache{} }

// Get returns the normalized text cached for src.
func (c *Cache) Get(src string) (string, bool) {
	v, ok := c.m.Load(xxh3.HashString(src))
	if !ok {
		return "", false
	}

	// A hash collision is a miss; the later Put overwrites.
	if e := v.(cacheEntry); e.src == src {
		return e.text, true
	}

	return "", false
}

// Put records the normalized text of src.
func (c *Cache) Put(src, text string) {
	c.m.Store(xxh3.HashString(src), cacheEntry{src: src, text: text})
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int {
	n := 0

	c.m.Range(func(any, any) bool {
		n++

		return true
	})

	return n
}
