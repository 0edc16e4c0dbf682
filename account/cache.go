package account

import (
	"fmt"

	"github.com/IvanBrykalov/rankcache/cache"
)

// DefaultTopK is the size of the Top3 ranking.
const DefaultTopK = 3

// Options configures a Cache.
type Options struct {
	// Capacity is the maximum number of cached accounts. Required, > 0.
	Capacity int

	// Metrics receives cache signals (nil => cache.NoopMetrics).
	Metrics cache.Metrics

	// OnEvict is called under the cache lock for each LRU eviction.
	OnEvict func(a Account)
}

// Cache caches accounts by ID with LRU eviction and a live balance ranking.
// It is safe for concurrent use.
type Cache struct {
	c cache.Cache[int64, Account]
}

// NewCache constructs an account cache.
func NewCache(opt Options) (*Cache, error) {
	co := cache.Options[int64, Account]{
		Capacity: opt.Capacity,
		Compare:  CompareBalance,
		Metrics:  opt.Metrics,
	}
	if fn := opt.OnEvict; fn != nil {
		co.OnEvict = func(_ int64, a Account) { fn(a) }
	}
	c, err := cache.New(co)
	if err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	return &Cache{c: c}, nil
}

// GetByID returns the cached account and counts a hit when present.
func (ac *Cache) GetByID(id int64) (Account, bool) { return ac.c.Get(id) }

// SubscribeForUpdates registers the single update listener, replacing any
// previous one. It is called for every new account and every balance
// change, synchronously and under the cache lock: it must not call back
// into the Cache.
func (ac *Cache) SubscribeForUpdates(fn func(a Account)) { ac.c.SetListener(fn) }

// TopK returns up to k cached accounts with the highest balances, highest
// first; equal balances are ordered by ascending ID.
func (ac *Cache) TopK(k int) []Account { return ac.c.TopK(k) }

// Top3 is TopK(DefaultTopK).
func (ac *Cache) Top3() []Account { return ac.c.TopK(DefaultTopK) }

// HitCount returns the number of successful GetByID calls.
func (ac *Cache) HitCount() int64 { return ac.c.Hits() }

// Put caches a, replacing any cached account with the same ID.
func (ac *Cache) Put(a Account) { ac.c.Put(a.ID, a) }

// Remove drops the account with the given ID.
func (ac *Cache) Remove(id int64) bool { return ac.c.Remove(id) }

// Len returns the number of cached accounts.
func (ac *Cache) Len() int { return ac.c.Len() }

// Clear drops every cached account. HitCount is kept.
func (ac *Cache) Clear() { ac.c.Clear() }

// Close releases the cache; later calls are ignored.
func (ac *Cache) Close() error { return ac.c.Close() }
