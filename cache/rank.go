package cache

import (
	"cmp"
	"fmt"

	"github.com/google/btree"
)

// rankDegree is the B-tree fan-out; 32 keeps nodes within a few cache lines.
const rankDegree = 32

// rankItem is one (value, key) pair of the ranking index.
type rankItem[K cmp.Ordered, V any] struct {
	val V
	key K
}

// ranking is an ordered set of (value, key) pairs, value descending then
// key ascending. The key tie-break keeps equal values distinct.
// It holds copies of the values; the recency list stays the owner.
type ranking[K cmp.Ordered, V any] struct {
	t *btree.BTreeG[rankItem[K, V]]
}

func newRanking[K cmp.Ordered, V any](compare func(a, b V) int) *ranking[K, V] {
	less := func(a, b rankItem[K, V]) bool {
		if c := compare(a.val, b.val); c != 0 {
			return c > 0
		}
		return a.key < b.key
	}
	return &ranking[K, V]{t: btree.NewG[rankItem[K, V]](rankDegree, less)}
}

// insert adds (v, k). A duplicate pair means the engine lost track of a key.
func (r *ranking[K, V]) insert(k K, v V) {
	if _, dup := r.t.ReplaceOrInsert(rankItem[K, V]{val: v, key: k}); dup {
		panic(fmt.Sprintf("cache: ranking index already holds key %v", k))
	}
}

// remove deletes exactly (v, k); v must be the value k was inserted with.
func (r *ranking[K, V]) remove(k K, v V) {
	if _, ok := r.t.Delete(rankItem[K, V]{val: v, key: k}); !ok {
		panic(fmt.Sprintf("cache: ranking index has no entry for key %v", k))
	}
}

// top calls fn for up to n keys in ranking order. O(n + log N).
func (r *ranking[K, V]) top(n int, fn func(k K)) {
	if n <= 0 {
		return
	}
	r.t.Ascend(func(it rankItem[K, V]) bool {
		fn(it.key)
		n--
		return n > 0
	})
}

func (r *ranking[K, V]) len() int { return r.t.Len() }

func (r *ranking[K, V]) clear() { r.t.Clear(false) }
