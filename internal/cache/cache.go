// Package cache provides the small in-memory caches the serving layer
// puts in front of gateway fetches: a single-value snapshot holder for
// whole collections and a keyed cache for per-merchant lookups. Both
// expire by TTL; nothing is persisted.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Snapshot caches one fetched collection so repeated view requests
// within the TTL reuse a single gateway fetch.
type Snapshot[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	val       T
	fetchedAt time.Time
}

func NewSnapshot[T any](ttl time.Duration) *Snapshot[T] {
	return &Snapshot[T]{ttl: ttl}
}

// Get returns the cached value and whether it is still fresh.
func (s *Snapshot[T]) Get() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if s.fetchedAt.IsZero() || time.Since(s.fetchedAt) >= s.ttl {
		return zero, false
	}
	return s.val, true
}

// Set stores a freshly fetched value.
func (s *Snapshot[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.val = v
	s.fetchedAt = time.Now()
}

// Invalidate drops the cached value.
func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchedAt = time.Time{}
}

// Keyed is a TTL cache with least-recently-used eviction, used for
// per-merchant detail lookups.
type Keyed[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	entries map[string]*list.Element
	order   *list.List // front = most recently used
}

type keyedEntry[T any] struct {
	key       string
	val       T
	expiresAt time.Time
}

func NewKeyed[T any](maxSize int, ttl time.Duration) *Keyed[T] {
	return &Keyed[T]{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (c *Keyed[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*keyedEntry[T])
	if time.Now().After(e.expiresAt) {
		c.remove(elem)
		return zero, false
	}
	c.order.MoveToFront(elem)
	return e.val, true
}

func (c *Keyed[T]) Set(key string, val T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &keyedEntry[T]{key: key, val: val, expiresAt: time.Now().Add(c.ttl)}
	if elem, ok := c.entries[key]; ok {
		elem.Value = e
		c.order.MoveToFront(elem)
		return
	}
	c.entries[key] = c.order.PushFront(e)
	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

func (c *Keyed[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.remove(elem)
	}
}

func (c *Keyed[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// CleanExpired drops every expired entry and reports how many went.
func (c *Keyed[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var stale []*list.Element
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*keyedEntry[T]).expiresAt) {
			stale = append(stale, elem)
		}
	}
	for _, elem := range stale {
		c.remove(elem)
	}
	return len(stale)
}

func (c *Keyed[T]) remove(elem *list.Element) {
	e := elem.Value.(*keyedEntry[T])
	delete(c.entries, e.key)
	c.order.Remove(elem)
}
