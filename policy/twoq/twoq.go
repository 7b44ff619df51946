// Package twoq implements the 2Q eviction policy.
package twoq

import (
	"container/list"

	"github.com/IvanBrykalov/poolcache/policy"
)

// twoQ implements the 2Q eviction policy.
//
// Resident queues:
//   - A1in (younger queue): its own list + index by Node; admits first-time entries
//   - Am   (mature queue): nodes not present in inIdx; ordering is driven by cache hooks
//
// Ghost A1out: keys only (no values), tracks recently evicted A1in keys to give them
// a second chance (bypass A1in on re-admission).
type twoQ[K comparable, V any] struct {
	h policy.Hooks[K, V]

	capIn    int // A1in capacity
	capGhost int // A1out (ghost) capacity

	// A1in: MRU at Front() -> LRU at Back()
	inList *list.List
	inIdx  map[policy.Node[K, V]]*list.Element // element.Value is policy.Node[K,V]

	// A1out (ghosts): keys only, MRU at Front() -> LRU at Back()
	ghostList *list.List
	ghostIdx  map[K]*list.Element // key -> element in ghostList (element.Value is K)
}

// New constructs a 2Q policy factory.
// Common choices: capIn ≈ 25% of capacity; capGhost ≈ 50–100% of capacity.
func New[K comparable, V any](capIn, capGhost int) policy.Policy[K, V] {
	if capIn < 1 {
		capIn = 1
	}
	if capGhost < 1 {
		capGhost = 1
	}
	return twoQPolicy[K, V]{capIn: capIn, capGhost: capGhost}
}

type twoQPolicy[K comparable, V any] struct {
	capIn    int
	capGhost int
}

func (p twoQPolicy[K, V]) New(h policy.Hooks[K, V]) policy.Evictor[K, V] {
	return &twoQ[K, V]{
		h:         h,
		capIn:     p.capIn,
		capGhost:  p.capGhost,
		inList:    list.New(),
		inIdx:     make(map[policy.Node[K, V]]*list.Element),
		ghostList: list.New(),
		ghostIdx:  make(map[K]*list.Element),
	}
}

// OnAdd admission rules:
//   - If key is present in ghosts (A1out), bypass A1in and admit directly to Am.
//     Also remove the ghost entry.
//   - Otherwise admit into A1in (and the front of the cache queue).
func (q *twoQ[K, V]) OnAdd(n policy.Node[K, V]) {
	k := n.Key()
	if ge, ok := q.ghostIdx[k]; ok {
		q.ghostList.Remove(ge)
		delete(q.ghostIdx, k)
		q.h.PushFront(n)
		return
	}
	q.h.PushFront(n)
	q.inIdx[n] = q.inList.PushFront(n)
}

// OnGet: if the node was in A1in, remove it from A1in (promotion to Am),
// then move it to the front of the cache queue.
func (q *twoQ[K, V]) OnGet(n policy.Node[K, V]) {
	if el, ok := q.inIdx[n]; ok {
		q.inList.Remove(el)
		delete(q.inIdx, n)
	}
	n.SetReferenced(true)
	q.h.MoveToFront(n)
}

// Victim prefers the LRU of A1in once A1in is full, so scans of one-shot keys
// never push out the mature queue; otherwise it is the back of the cache queue.
func (q *twoQ[K, V]) Victim() policy.Node[K, V] {
	if q.inList.Len() >= q.capIn {
		if el := q.inList.Back(); el != nil {
			return el.Value.(policy.Node[K, V])
		}
	}
	return q.h.Back()
}

// OnRemove:
//   - If the node was in A1in, add its key to ghosts (A1out), respecting capGhost.
//   - Removals from Am do NOT populate ghosts.
func (q *twoQ[K, V]) OnRemove(n policy.Node[K, V]) {
	el, ok := q.inIdx[n]
	if !ok {
		return
	}
	q.inList.Remove(el)
	delete(q.inIdx, n)

	k := n.Key()
	if old := q.ghostIdx[k]; old != nil {
		q.ghostList.Remove(old)
	}
	q.ghostIdx[k] = q.ghostList.PushFront(k)

	// Enforce ghost capacity (drop LRU ghosts).
	for q.ghostList.Len() > q.capGhost {
		tail := q.ghostList.Back()
		if tail == nil {
			break
		}
		delete(q.ghostIdx, tail.Value.(K))
		q.ghostList.Remove(tail)
	}
}
