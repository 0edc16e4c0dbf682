package cache

import "fmt"

// handle addresses a node slot inside the recency arena. Handles are stable
// for the lifetime of the node; once the node is removed the slot may be
// reused, so the engine must drop the handle from the key index first.
type handle int32

// nilHandle terminates the list in both directions.
const nilHandle handle = -1

// node is an arena slot: the record plus its list links.
// Links are slot indices, not pointers: head is MRU, tail is LRU.
type node[K comparable, V any] struct {
	key K
	val V

	prev handle
	next handle

	// live is false for slots sitting on the free list.
	live bool
}

// recency is the MRU↔LRU list backed by a slot arena with a free list.
// It owns every node; the key index and the ranking index only hold
// handles or copies. All operations are O(1). Not safe for concurrent use.
type recency[K comparable, V any] struct {
	nodes []node[K, V]
	free  []handle
	head  handle // MRU
	tail  handle // LRU
	len   int
}

func newRecency[K comparable, V any](capacity int) *recency[K, V] {
	return &recency[K, V]{
		nodes: make([]node[K, V], 0, capacity),
		head:  nilHandle,
		tail:  nilHandle,
	}
}

// at returns the live node behind h. A stale handle is an engine bug.
func (l *recency[K, V]) at(h handle) *node[K, V] {
	if h < 0 || int(h) >= len(l.nodes) || !l.nodes[h].live {
		panic(fmt.Sprintf("cache: stale recency handle %d", h))
	}
	return &l.nodes[h]
}

// pushFront stores k→v in a fresh slot at MRU and returns its handle.
func (l *recency[K, V]) pushFront(k K, v V) handle {
	var h handle
	if n := len(l.free); n > 0 {
		h = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		l.nodes = append(l.nodes, node[K, V]{})
		h = handle(len(l.nodes) - 1)
	}
	l.nodes[h] = node[K, V]{key: k, val: v, prev: nilHandle, next: nilHandle, live: true}
	l.linkFront(h)
	l.len++
	return h
}

// moveToFront promotes h to MRU.
func (l *recency[K, V]) moveToFront(h handle) {
	l.at(h)
	if h == l.head {
		return
	}
	l.unlink(h)
	l.linkFront(h)
}

// updateAndMoveToFront replaces the payload of h and promotes it to MRU.
// The handle stays the same.
func (l *recency[K, V]) updateAndMoveToFront(h handle, v V) handle {
	l.at(h).val = v
	l.moveToFront(h)
	return h
}

// remove detaches h and returns its slot to the free list.
func (l *recency[K, V]) remove(h handle) (K, V) {
	n := l.at(h)
	k, v := n.key, n.val
	l.unlink(h)
	*n = node[K, V]{prev: nilHandle, next: nilHandle}
	l.free = append(l.free, h)
	l.len--
	return k, v
}

// removeTail drops the LRU node. ok is false on an empty list.
func (l *recency[K, V]) removeTail() (k K, v V, ok bool) {
	if l.tail == nilHandle {
		return k, v, false
	}
	k, v = l.remove(l.tail)
	return k, v, true
}

// clear drops every node. The backing array is kept for reuse.
func (l *recency[K, V]) clear() {
	clear(l.nodes)
	l.nodes = l.nodes[:0]
	l.free = l.free[:0]
	l.head, l.tail = nilHandle, nilHandle
	l.len = 0
}

func (l *recency[K, V]) size() int { return l.len }

// linkFront inserts an unlinked slot at MRU.
func (l *recency[K, V]) linkFront(h handle) {
	n := &l.nodes[h]
	n.prev = nilHandle
	n.next = l.head
	if l.head != nilHandle {
		l.nodes[l.head].prev = h
	}
	l.head = h
	if l.tail == nilHandle {
		l.tail = h
	}
}

// unlink detaches h from its neighbours without freeing the slot.
func (l *recency[K, V]) unlink(h handle) {
	n := &l.nodes[h]
	if n.prev != nilHandle {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nilHandle {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nilHandle, nilHandle
}
