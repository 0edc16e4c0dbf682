package cache

import "errors"

var (
	// ErrInvalidCapacity is returned by New when Options.Capacity <= 0.
	ErrInvalidCapacity = errors.New("cache: capacity must be > 0")
	// ErrNoCompare is returned by New when Options.Compare is nil.
	ErrNoCompare = errors.New("cache: Compare is required")
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
// Hooks are called under the cache lock; keep them cheap.
type Metrics interface {
	Hit()
	Miss()
	Evict()
	// Change is signalled once per listener notification
	// (insert or value-changing update).
	Change()
	Size(entries int)
}

// Options configures the cache. Zero values are safe except for the
// required fields; defaults are applied in New():
//   - nil Metrics => NoopMetrics
type Options[K comparable, V any] struct {
	// Capacity is the entry count limit. Required, must be > 0.
	Capacity int

	// Compare orders values by their ranking value (negative if a < b,
	// zero if equal, positive if a > b). Required.
	// It is also the change detector: Put notifies only when
	// Compare(old, new) != 0.
	Compare func(a, b V) int

	// OnChange is the initial listener; SetListener replaces it.
	OnChange func(v V)

	// OnEvict is called for every capacity eviction under the cache lock.
	OnEvict func(k K, v V)

	Metrics Metrics
}
