package cache

import (
	"sync"
	"time"
)

// Cache is a small TTL map. Entries expire ttl after they were stored, or after
// they were last read when the cache was built with Sliding.
type Cache[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	sliding bool
	now     func() time.Time
	m       map[string]entry[V]
}

type entry[V any] struct {
	val V
	exp time.Time
}

type Option func(*options)

type options struct {
	sliding bool
	now     func() time.Time
}

// Sliding pushes an entry's expiry forward on every Get.
func Sliding() Option {
	return func(o *options) { o.sliding = true }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func New[V any](ttl time.Duration, opts ...Option) *Cache[V] {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[V]{
		ttl:     ttl,
		sliding: o.sliding,
		now:     o.now,
		m:       make(map[string]entry[V]),
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	now := c.now()

	if !c.sliding {
		c.mu.RLock()
		e, ok := c.m[key]
		c.mu.RUnlock()
		if ok && !now.After(e.exp) {
			return e.val, true
		}
		if ok {
			c.deleteExpired(key, now)
		}
		var zero V
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok || now.After(e.exp) {
		delete(c.m, key)
		var zero V
		return zero, false
	}

	e.exp = now.Add(c.ttl)
	c.m[key] = e

	return e.val, true
}

func (c *Cache[V]) Set(key string, val V) {
	c.mu.Lock()
	c.m[key] = entry[V]{val: val, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// GetOrLoad returns the cached value or stores what load returns. A failed load
// is not cached. Concurrent loads for the same key are not collapsed.
func (c *Cache[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, v)

	return v, nil
}

// deleteExpired removes key only if it is still expired at now, so a value
// stored after the caller's read survives.
func (c *Cache[V]) deleteExpired(key string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.m[key]; ok && now.After(e.exp) {
		delete(c.m, key)
	}
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.m = make(map[string]entry[V])
	c.mu.Unlock()
}

// Purge drops every expired entry and returns how many were removed.
func (c *Cache[V]) Purge() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.m {
		if now.After(e.exp) {
			delete(c.m, k)
			n++
		}
	}

	return n
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.m)
}
