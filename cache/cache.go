package cache

import (
	"cmp"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/IvanBrykalov/rankcache/internal/util"
)

// cache is the LRU engine: recency list, key index and ranking index,
// all guarded by mu. Structural operations take mu exclusively, including
// Get, which reorders the recency list.
type cache[K cmp.Ordered, V any] struct {
	// ---- guarded by mu ----
	mu       sync.RWMutex
	index    map[K]handle
	list     *recency[K, V]
	rank     *ranking[K, V]
	cap      int
	listener func(V)

	compare func(a, b V) int
	opt     Options[K, V]
	closed  atomic.Bool

	// ---- hit counter, written under mu, read lock-free ----
	_    util.CacheLinePad
	hits util.PaddedAtomicInt64
}

// New constructs a cache with the provided Options.
// Returns ErrInvalidCapacity for a non-positive capacity and ErrNoCompare
// when no Compare function is given.
func New[K cmp.Ordered, V any](opt Options[K, V]) (Cache[K, V], error) {
	if opt.Capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, opt.Capacity)
	}
	if opt.Compare == nil {
		return nil, ErrNoCompare
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}

	return &cache[K, V]{
		index:    make(map[K]handle, opt.Capacity),
		list:     newRecency[K, V](opt.Capacity),
		rank:     newRanking[K, V](opt.Compare),
		cap:      opt.Capacity,
		listener: opt.OnChange,
		compare:  opt.Compare,
		opt:      opt,
	}, nil
}

// ---- Cache[K,V] implementation ----

// Put inserts or updates k→v and promotes it to MRU.
func (c *cache[K, V]) Put(k K, v V) bool {
	if c.closed.Load() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.index[k]; ok {
		old := c.list.at(h).val
		if c.compare(old, v) != 0 {
			c.notifyLocked(v)
			c.rank.remove(k, old)
			c.rank.insert(k, v)
		}
		c.list.updateAndMoveToFront(h, v)
		return true
	}

	if c.list.size() >= c.cap {
		c.evictLocked()
	}
	c.notifyLocked(v)
	c.rank.insert(k, v)
	c.index[k] = c.list.pushFront(k, v)
	c.checkSizeLocked()
	return true
}

// Get returns the value for k and promotes it to MRU.
func (c *cache[K, V]) Get(k K) (V, bool) {
	var zero V
	if c.closed.Load() {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.index[k]
	if !ok {
		c.opt.Metrics.Miss()
		return zero, false
	}
	c.hits.Add(1)
	c.opt.Metrics.Hit()
	c.list.moveToFront(h)
	return c.list.at(h).val, true
}

// Remove deletes k from all three indices.
func (c *cache[K, V]) Remove(k K) bool {
	if c.closed.Load() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.index[k]
	if !ok {
		return false
	}
	_, v := c.list.remove(h)
	delete(c.index, k)
	c.rank.remove(k, v)
	c.checkSizeLocked()
	return true
}

// Len returns the number of resident entries.
func (c *cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list.size()
}

// IsEmpty reports whether the cache holds no entries.
func (c *cache[K, V]) IsEmpty() bool { return c.Len() == 0 }

// Clear empties the key index, ranking index and recency list in one step.
func (c *cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.index)
	c.rank.clear()
	c.list.clear()
	c.opt.Metrics.Size(0)
}

// Hits returns the number of successful Gets since construction.
func (c *cache[K, V]) Hits() int64 { return c.hits.Snapshot() }

// SetListener replaces the change listener; last writer wins.
func (c *cache[K, V]) SetListener(fn func(v V)) {
	c.mu.Lock()
	c.listener = fn
	c.mu.Unlock()
}

// TopK walks the ranking index and resolves each key to its live value.
// The read lock excludes every mutation, so evicted keys never show up.
func (c *cache[K, V]) TopK(k int) []V {
	if k <= 0 || c.closed.Load() {
		return []V{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]V, 0, min(k, c.list.size()))
	c.rank.top(k, func(key K) {
		h, ok := c.index[key]
		if !ok {
			panic(fmt.Sprintf("cache: ranked key %v missing from key index", key))
		}
		out = append(out, c.list.at(h).val)
	})
	return out
}

// Close marks the cache as closed. Future operations are ignored.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// -------------------- internals (mu held) --------------------

// evictLocked drops the LRU entry from all three indices.
// Only called on a full cache, so an empty list is an engine bug.
func (c *cache[K, V]) evictLocked() {
	k, v, ok := c.list.removeTail()
	if !ok {
		panic("cache: eviction requested on an empty recency list")
	}
	delete(c.index, k)
	c.rank.remove(k, v)
	c.opt.Metrics.Evict()
	if cb := c.opt.OnEvict; cb != nil {
		cb(k, v)
	}
}

// notifyLocked delivers v to the listener, if one is set.
func (c *cache[K, V]) notifyLocked(v V) {
	c.opt.Metrics.Change()
	if fn := c.listener; fn != nil {
		fn(v)
	}
}

// checkSizeLocked asserts the three indices agree and publishes the size.
func (c *cache[K, V]) checkSizeLocked() {
	n := c.list.size()
	if n != len(c.index) || n != c.rank.len() || n > c.cap {
		panic(fmt.Sprintf("cache: index mismatch: list=%d keys=%d ranked=%d cap=%d",
			n, len(c.index), c.rank.len(), c.cap))
	}
	c.opt.Metrics.Size(n)
}
