package cache

import "cmp"

// Cache is a fixed-capacity LRU cache with a value-ranked index.
// All methods are safe for concurrent use by multiple goroutines.
//
// Put, Get, Remove and Clear are serialized under one exclusive lock that
// covers the recency list, the key index and the ranking index together,
// so every call observes a fully consistent state.
type Cache[K cmp.Ordered, V any] interface {
	// Put inserts or updates k→v and promotes k to MRU.
	// Inserting a new key into a full cache evicts the LRU entry first.
	// The listener fires on insert and when the ranking value changes,
	// never on a pure recency refresh.
	// Returns false only after Close.
	Put(k K, v V) bool

	// Get returns the value for k and promotes it to MRU.
	// A hit increments the hit counter; a miss does not.
	Get(k K) (V, bool)

	// Remove deletes k if present and returns true on success.
	// Removal is not an eviction and does not notify the listener.
	Remove(k K) bool

	// Len returns the number of resident entries.
	Len() int

	// IsEmpty reports whether Len() == 0.
	IsEmpty() bool

	// Clear drops every entry atomically. The hit counter is kept.
	Clear()

	// Hits returns the number of successful Gets. It does not block writers.
	Hits() int64

	// SetListener replaces the single change listener (nil disables it).
	// The listener runs synchronously under the cache lock: it must be
	// fast and must not call back into the cache.
	SetListener(fn func(v V))

	// TopK returns up to k live values ordered by ranking value descending,
	// ties broken by ascending key. It does not affect recency.
	TopK(k int) []V

	// Close marks the cache closed; later calls are no-ops or misses.
	Close() error
}
