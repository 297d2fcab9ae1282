// Package textnorm turns rich document titles into plain text and memoizes
// the result in a bounded least-recently-used table.
package textnorm

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of titles kept before the oldest is evicted.
const DefaultSize = 1000

// Cache memoizes Extract results. Each engine owns its own Cache so eviction
// order is never shared between instances. Safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, string]
}

// NewCache creates a cache bounded to size entries. A non-positive size
// falls back to DefaultSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}

	// lru.New only fails for size <= 0
	entries, _ := lru.New[string, string](size)
	return &Cache{entries: entries}
}

// Normalize returns the plain text for raw. Titles without a markup
// delimiter are returned unchanged but still cached. A hit moves the entry
// to the most recently used position; inserting past capacity evicts the
// single oldest entry first.
//
// Extracted text is also cached as its own plain form, so decoded entities
// such as "&lt;" are not parsed as markup when the text is normalized again.
func (c *Cache) Normalize(raw string) string {
	if text, ok := c.entries.Get(raw); ok {
		return text
	}

	text := raw
	if strings.ContainsRune(raw, '<') {
		text = Extract(raw)
		if text != raw {
			c.entries.Add(text, text)
		}
	}

	c.entries.Add(raw, text)
	return text
}

// Contains reports whether raw is cached without touching its recency.
func (c *Cache) Contains(raw string) bool {
	return c.entries.Contains(raw)
}

// Len returns the number of cached titles.
func (c *Cache) Len() int {
	return c.entries.Len()
}
