// Package regexcache is the process-global, thread-safe LRU cache
// MATCHES and replace() compile patterns through (§4.4, §5). Patterns
// that fail to compile are cached too, as a nil *regexp.Regexp, so a
// syntactically invalid pattern doesn't re-attempt compilation on
// every evaluation.
package regexcache

import (
	"container/list"
	"regexp"
	"sync"
)

// DefaultCapacity is the recommended bound from §5.
const DefaultCapacity = 256

type entry struct {
	pattern string
	re      *regexp.Regexp
}

// Cache is a bounded least-recently-used cache of compiled patterns.
// The zero value is not usable; construct with New.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	index    map[string]*list.Element
}

// New builds a Cache holding at most capacity patterns. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Compile returns the compiled pattern, compiling and caching it on a
// miss. ok is false when pattern failed to compile; callers treat that
// as Empty rather than an error (§4.4 regex invariant).
func (c *Cache) Compile(pattern string) (re *regexp.Regexp, ok bool) {
	c.mu.Lock()
	if el, found := c.index[pattern]; found {
		c.order.MoveToFront(el)
		e := el.Value.(*entry)
		c.mu.Unlock()
		return e.re, e.re != nil
	}
	c.mu.Unlock()

	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, found := c.index[pattern]; found {
		c.order.MoveToFront(el)
		return re, err == nil
	}
	el := c.order.PushFront(&entry{pattern: pattern, re: re})
	c.index[pattern] = el
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.index, oldest.Value.(*entry).pattern)
		}
	}
	return re, err == nil
}

// Len reports the current number of cached entries, for tests.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
