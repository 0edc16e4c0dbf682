package account

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/IvanBrykalov/rankcache/cache"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func acct(id, balance int64) Account { return New(id, decimal.NewFromInt(balance)) }

func newAccountCache(t *testing.T, capacity int) *Cache {
	t.Helper()
	ac, err := NewCache(Options{Capacity: capacity})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(func() { _ = ac.Close() })
	return ac
}

func accountIDs(as []Account) []int64 {
	out := make([]int64, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewCache_InvalidCapacity(t *testing.T) {
	t.Parallel()

	if _, err := NewCache(Options{Capacity: 0}); !errors.Is(err, cache.ErrInvalidCapacity) {
		t.Fatalf("want ErrInvalidCapacity, got %v", err)
	}
}

// Eviction, recency refresh and ranking over a mixed sequence of accounts.
func TestCache_TopAccountsScenario(t *testing.T) {
	t.Parallel()

	var updates []Account
	ac := newAccountCache(t, 5)
	ac.SubscribeForUpdates(func(a Account) { updates = append(updates, a) })

	ac.Put(acct(1, 10))
	ac.Put(acct(2, 20))
	ac.Put(acct(5, 515))
	ac.Put(acct(6, 556))
	ac.Put(acct(7, 570))
	if got := ac.HitCount(); got != 0 {
		t.Fatalf("HitCount want 0, got %d", got)
	}
	if got := accountIDs(ac.Top3()); !sameIDs(got, []int64{7, 6, 5}) {
		t.Fatalf("Top3 want [7 6 5], got %v", got)
	}

	ac.Put(acct(3, 30)) // evicts 1
	if _, ok := ac.GetByID(2); !ok {
		t.Fatal("2 must be cached")
	}
	ac.Put(acct(4, 40)) // evicts 5, the LRU after 2 was read
	if got := accountIDs(ac.Top3()); !sameIDs(got, []int64{7, 6, 4}) {
		t.Fatalf("Top3 want [7 6 4], got %v", got)
	}

	ac.Put(acct(5, 5))  // evicts 6
	ac.Put(acct(8, 60)) // evicts 7
	if got := accountIDs(ac.Top3()); !sameIDs(got, []int64{8, 4, 3}) {
		t.Fatalf("Top3 want [8 4 3], got %v", got)
	}
	if got := ac.HitCount(); got != 1 {
		t.Fatalf("HitCount want 1, got %d", got)
	}
	if len(updates) != 9 {
		t.Fatalf("every insert must notify: want 9 updates, got %d", len(updates))
	}
}

// A numerically equal balance in another representation is not a change.
func TestCache_BalanceChangeDetection(t *testing.T) {
	t.Parallel()

	var updates []Account
	ac := newAccountCache(t, 4)
	ac.SubscribeForUpdates(func(a Account) { updates = append(updates, a) })

	ac.Put(New(1, decimal.RequireFromString("1.0")))
	ac.Put(New(1, decimal.RequireFromString("1.00")))
	if len(updates) != 1 {
		t.Fatalf("equal balance must not notify: got %d updates", len(updates))
	}

	ac.Put(New(1, decimal.RequireFromString("1.01")))
	if len(updates) != 2 || !updates[1].Balance.Equal(decimal.RequireFromString("1.01")) {
		t.Fatalf("changed balance must notify once with the new record: %v", updates)
	}
	got, ok := ac.GetByID(1)
	if !ok || got.Balance.String() != "1.01" {
		t.Fatalf("GetByID want balance 1.01, got %v ok=%v", got, ok)
	}
}

func TestCache_TopKBounds(t *testing.T) {
	t.Parallel()

	ac := newAccountCache(t, 8)
	ac.Put(acct(1, 5))
	ac.Put(acct(2, 5))

	if got := accountIDs(ac.TopK(10)); !sameIDs(got, []int64{1, 2}) {
		t.Fatalf("TopK(10) want [1 2], got %v", got)
	}
	if got := ac.Top3(); len(got) != 2 {
		t.Fatalf("Top3 on two accounts must return 2, got %d", len(got))
	}
}

func TestCache_RemoveAndClear(t *testing.T) {
	t.Parallel()

	ac := newAccountCache(t, 4)
	ac.Put(acct(1, 100))
	ac.Put(acct(2, 200))
	ac.GetByID(1)

	if !ac.Remove(2) {
		t.Fatal("Remove 2 must succeed")
	}
	if got := accountIDs(ac.Top3()); !sameIDs(got, []int64{1}) {
		t.Fatalf("Top3 want [1], got %v", got)
	}

	ac.Clear()
	if ac.Len() != 0 {
		t.Fatalf("Len after Clear want 0, got %d", ac.Len())
	}
	if _, ok := ac.GetByID(1); ok {
		t.Fatal("1 must be gone after Clear")
	}
	if got := ac.HitCount(); got != 1 {
		t.Fatalf("Clear must keep HitCount: want 1, got %d", got)
	}
}

func TestCache_OnEvict(t *testing.T) {
	t.Parallel()

	var evicted []int64
	ac, err := NewCache(Options{
		Capacity: 1,
		OnEvict:  func(a Account) { evicted = append(evicted, a.ID) },
	})
	if err != nil {
		t.Fatal(err)
	}
	ac.Put(acct(1, 1))
	ac.Put(acct(2, 2))

	if !sameIDs(evicted, []int64{1}) {
		t.Fatalf("evicted want [1], got %v", evicted)
	}
}

// Concurrent puts of distinct accounts into an exactly-sized cache lose nothing.
func TestCache_ConcurrentPutsNoDataLoss(t *testing.T) {
	t.Parallel()

	const size = 20_000
	ac := newAccountCache(t, size)

	var (
		mu       sync.Mutex
		notified int
	)
	ac.SubscribeForUpdates(func(Account) {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := int64(0); i < size; i++ {
		i := i
		g.Go(func() error {
			ac.Put(acct(i, i))
			return nil
		})
	}
	_ = g.Wait()

	if ac.Len() != size {
		t.Fatalf("Len want %d, got %d", size, ac.Len())
	}
	for i := int64(0); i < size; i++ {
		a, ok := ac.GetByID(i)
		if !ok || !a.Balance.Equal(decimal.NewFromInt(i)) {
			t.Fatalf("account %d: got %v ok=%v", i, a, ok)
		}
	}
	if notified != size {
		t.Fatalf("want %d notifications, got %d", size, notified)
	}
	if got := accountIDs(ac.Top3()); !sameIDs(got, []int64{size - 1, size - 2, size - 3}) {
		t.Fatalf("Top3 want the three largest IDs, got %v", got)
	}
}
