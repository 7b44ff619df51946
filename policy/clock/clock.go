// Package clock implements the second-chance (CLOCK) eviction policy.
//
// A hit only sets the entry's referenced flag; the queue is not reordered.
// When the cache is full, the back of the queue is inspected: a referenced
// entry is moved to the front with its flag cleared (its second chance) and
// the scan continues; the first unreferenced back entry is the victim.
//
// Per entry: created (unreferenced) -> referenced on any hit -> unreferenced
// after surviving a scan -> evicted when found unreferenced at the back.
package clock

import "github.com/IvanBrykalov/poolcache/policy"

type clock[K comparable, V any] struct {
	h policy.Hooks[K, V]
}

type clockPolicy[K comparable, V any] struct{}

// New returns a Policy factory that constructs CLOCK instances.
func New[K comparable, V any]() policy.Policy[K, V] { return clockPolicy[K, V]{} }

func (clockPolicy[K, V]) New(h policy.Hooks[K, V]) policy.Evictor[K, V] {
	return &clock[K, V]{h: h}
}

// OnAdd places the new entry at the front, unreferenced.
func (p *clock[K, V]) OnAdd(n policy.Node[K, V]) {
	n.SetReferenced(false)
	p.h.PushFront(n)
}

// OnGet marks the entry referenced. Position is unchanged.
func (p *clock[K, V]) OnGet(n policy.Node[K, V]) { n.SetReferenced(true) }

// Victim rotates referenced back entries to the front, clearing their flag,
// and returns the first unreferenced back entry. Every rotation clears one
// flag, so the scan ends within Len()+1 inspections.
func (p *clock[K, V]) Victim() policy.Node[K, V] {
	for {
		n := p.h.Back()
		if n == nil || !n.Referenced() {
			return n
		}
		p.h.MoveToFront(n)
		n.SetReferenced(false)
	}
}

// OnRemove is a no-op: CLOCK keeps no state outside the queue.
func (p *clock[K, V]) OnRemove(policy.Node[K, V]) {}
