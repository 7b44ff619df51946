package alloc

import "errors"

// ErrLimit is returned by Heap.Create once Limit live values exist.
var ErrLimit = errors.New("alloc: heap limit reached")

// Heap is a trivial Go-heap backed Allocator. It counts live values so tests
// can verify that every created value is destroyed exactly once.
type Heap[V any] struct {
	// Limit caps the number of live values (0 = unlimited).
	Limit int

	live    map[*V]uint64
	next    uint64
	created int
	freed   int
}

// NewHeap returns an unlimited heap allocator.
func NewHeap[V any]() *Heap[V] { return &Heap[V]{} }

// Create copies v onto the heap.
func (h *Heap[V]) Create(v V) (Handle[V], error) {
	if h.Limit > 0 && len(h.live) >= h.Limit {
		return Handle[V]{}, ErrLimit
	}
	if h.live == nil {
		h.live = make(map[*V]uint64)
	}
	p := new(V)
	*p = v
	h.next++
	h.live[p] = h.next
	h.created++
	return NewHandle(p, 0, h.next), nil
}

// Destroy tears the value down and forgets it. Unknown or stale handles are ignored.
func (h *Heap[V]) Destroy(hd Handle[V]) {
	gen, ok := h.live[hd.ptr]
	if !ok || gen != hd.gen {
		return
	}
	teardown(hd.ptr)
	delete(h.live, hd.ptr)
	h.freed++
}

// Live returns the number of created-but-not-destroyed values.
func (h *Heap[V]) Live() int { return len(h.live) }

// Created returns the total number of successful Create calls.
func (h *Heap[V]) Created() int { return h.created }

// Destroyed returns the total number of effective Destroy calls.
func (h *Heap[V]) Destroyed() int { return h.freed }

var _ Allocator[int] = (*Heap[int])(nil)
