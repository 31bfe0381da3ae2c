package geoserver

import (
	"context"
	"fmt"
	"sync"

	"github.com/urbansignal/heatlens/internal/domain"
	"github.com/urbansignal/heatlens/internal/observability"
)

// CachedMembership wraps a MembershipSource with an in-memory LRU cache.
// Counts of zero are cached too: the boundary layer is authoritative, so
// "outside" is as stable an answer as "inside".
type CachedMembership struct {
	inner   domain.MembershipSource
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedMembership creates a cache decorator around a membership source.
func NewCachedMembership(inner domain.MembershipSource, maxEntries int, metrics *observability.Metrics) *CachedMembership {
	return &CachedMembership{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedMembership) CountIntersecting(ctx context.Context, layer string, lat, lon float64) (int, error) {
	key := fmt.Sprintf("%s|%.6f,%.6f", layer, lat, lon)
	if count, ok := c.cache.get(key); ok {
		c.metrics.MembershipCache.WithLabelValues("hit").Inc()
		return count, nil
	}
	c.metrics.MembershipCache.WithLabelValues("miss").Inc()

	count, err := c.inner.CountIntersecting(ctx, layer, lat, lon)
	if err != nil {
		return count, err
	}
	c.cache.put(key, count)
	return count, nil
}

// lruCache is a simple thread-safe LRU cache for membership counts.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value int
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
