package cache

import (
	"sync"
	"time"
)

// entry stores a cached value and its absolute expiration timestamp.
type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// SimpleCache is a lightweight map-backed cache with optional concurrency safety.
// It supports per-item TTL with lazy expiry: an expired entry is dropped when it is
// read, or when PurgeExpired runs. There is no background janitor and no size bound.
type SimpleCache[K comparable, V any] struct {
	// If muPtr is nil, the cache is NOT goroutine-safe.
	// If muPtr is non-nil, it guards all operations.
	muPtr *sync.RWMutex

	items map[K]entry[V]
	now   func() time.Time

	// onExpire runs with the write lock held whenever an entry is dropped because
	// it expired (lazy read or purge). Explicit Delete and Clear do not call it.
	onExpire func(key K)
}

// Options controls construction of a SimpleCache.
type Options struct {
	// ConcurrencySafe controls whether operations are guarded by a RWMutex.
	// If false, the cache is not safe for concurrent use and may be faster in single-threaded contexts.
	ConcurrencySafe bool

	// Clock returns the current time. Defaults to time.Now; tests pass a fake clock.
	Clock func() time.Time
}

// NewSimpleCache constructs a new SimpleCache with the given options.
func NewSimpleCache[K comparable, V any](opts Options) *SimpleCache[K, V] {
	var mu *sync.RWMutex
	if opts.ConcurrencySafe {
		mu = &sync.RWMutex{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &SimpleCache[K, V]{
		muPtr: mu,
		items: make(map[K]entry[V]),
		now:   clock,
	}
}

func (c *SimpleCache[K, V]) lockR() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.RLock()
	return c.muPtr.RUnlock
}

func (c *SimpleCache[K, V]) lockW() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.Lock()
	return c.muPtr.Unlock
}

// Get implements Cache.Get.
func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	unlock := c.lockR()
	e, ok := c.items[key]
	unlock()

	var zero V
	if !ok {
		return zero, false
	}
	if e.expired(c.now()) {
		c.expire(key)
		return zero, false
	}
	return e.value, true
}

// expire drops key if it is still expired once the write lock is held;
// a concurrent Set may have replaced it in between.
func (c *SimpleCache[K, V]) expire(key K) {
	unlock := c.lockW()
	defer unlock()
	e, ok := c.items[key]
	if !ok || !e.expired(c.now()) {
		return
	}
	delete(c.items, key)
	if c.onExpire != nil {
		c.onExpire(key)
	}
}

// Set implements Cache.Set.
func (c *SimpleCache[K, V]) Set(key K, value V, ttl time.Duration) {
	unlock := c.lockW()
	defer unlock()

	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.items[key] = entry[V]{
		value:     value,
		expiresAt: exp,
	}
}

// Delete implements Cache.Delete.
func (c *SimpleCache[K, V]) Delete(key K) {
	unlock := c.lockW()
	defer unlock()
	delete(c.items, key)
}

// Has implements Cache.Has.
func (c *SimpleCache[K, V]) Has(key K) bool {
	_, ok := c.Get(key)
	return ok
}

// Len implements Cache.Len. It counts only non-expired entries.
func (c *SimpleCache[K, V]) Len() int {
	unlock := c.lockR()
	defer unlock()
	nowTs := c.now()
	count := 0
	for _, e := range c.items {
		if !e.expired(nowTs) {
			count++
		}
	}
	return count
}

// Keys returns a snapshot of the non-expired keys, in no particular order.
func (c *SimpleCache[K, V]) Keys() []K {
	unlock := c.lockR()
	defer unlock()
	nowTs := c.now()
	keys := make([]K, 0, len(c.items))
	for k, e := range c.items {
		if !e.expired(nowTs) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Clear implements Cache.Clear.
func (c *SimpleCache[K, V]) Clear() {
	unlock := c.lockW()
	defer unlock()
	c.items = make(map[K]entry[V])
}

// PurgeExpired implements Cache.PurgeExpired.
func (c *SimpleCache[K, V]) PurgeExpired() int {
	unlock := c.lockW()
	defer unlock()
	if len(c.items) == 0 {
		return 0
	}
	nowTs := c.now()
	removed := 0
	for k, e := range c.items {
		if e.expired(nowTs) {
			delete(c.items, k)
			if c.onExpire != nil {
				c.onExpire(k)
			}
			removed++
		}
	}
	return removed
}

// Counts reports stored entries split into live and expired-but-resident ones.
func (c *SimpleCache[K, V]) Counts() (live, expired int) {
	unlock := c.lockR()
	defer unlock()
	nowTs := c.now()
	for _, e := range c.items {
		if e.expired(nowTs) {
			expired++
		} else {
			live++
		}
	}
	return live, expired
}

// Ensure SimpleCache implements Cache at compile time.
var _ Cache[any, any] = (*SimpleCache[any, any])(nil)
