// Package cache provides a fixed-capacity, concurrent, in-memory LRU cache
// that also keeps its entries ranked by a caller-defined value, so the
// largest K values can be read at any time.
//
// Design
//
//   - Storage: a map[K]handle for lookups and an MRU↔LRU doubly linked list
//     kept in a slot arena. Links are slot indices and freed slots are
//     recycled through a free list. All list operations are O(1).
//
//   - Ranking: a B-tree ordered by (value descending, key ascending). The key
//     tie-break keeps entries with equal values distinct. TopK(k) costs
//     O(k + log n).
//
//   - Concurrency: one RWMutex covers the list, the key map and the ranking
//     tree. Put, Get, Remove and Clear take it exclusively (Get reorders the
//     list). Len and TopK only read and take the shared side. Operations are
//     linearizable.
//
//   - Change listener: a single slot (Options.OnChange / SetListener) is
//     called synchronously under the lock on every insert and on every update
//     whose value differs according to Options.Compare. A pure recency
//     refresh does not notify. The listener must not call back into the cache.
//
//   - Hit counter: incremented on each successful Get, read without locking,
//     never reset (Clear keeps it).
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Change/Size signals.
//     By default NoopMetrics is used; see package metrics/prom.
//
// Basic usage
//
//	c, err := cache.New[int64, int](cache.Options[int64, int]{
//	    Capacity: 1024,
//	    Compare:  cmp.Compare[int],
//	})
//	if err != nil {
//	    return err
//	}
//	c.Put(1, 10)
//	if v, ok := c.Get(1); ok {
//	    _ = v
//	}
//	top := c.TopK(3) // largest values first
//
// Errors
//
// New returns ErrInvalidCapacity or ErrNoCompare for bad Options. A broken
// internal invariant (for example a key present in one index but not in
// another) panics: it can only come from a bug in this package.
package cache
