// Package lru implements the LRU eviction policy.
package lru

import "github.com/IvanBrykalov/poolcache/policy"

// lru is a classic "move-to-front" Least-Recently-Used policy.
// It delegates list manipulation to policy.Hooks provided by the cache.
type lru[K comparable, V any] struct {
	h policy.Hooks[K, V]
}

type lruPolicy[K comparable, V any] struct{}

// New returns a Policy factory that constructs LRU instances.
func New[K comparable, V any]() policy.Policy[K, V] { return lruPolicy[K, V]{} }

// New implements policy.Policy by binding cache hooks.
func (lruPolicy[K, V]) New(h policy.Hooks[K, V]) policy.Evictor[K, V] {
	return &lru[K, V]{h: h}
}

// OnAdd places the new entry at MRU.
func (p *lru[K, V]) OnAdd(n policy.Node[K, V]) { p.h.PushFront(n) }

// OnGet promotes the entry to MRU and marks it referenced.
func (p *lru[K, V]) OnGet(n policy.Node[K, V]) {
	n.SetReferenced(true)
	p.h.MoveToFront(n)
}

// Victim is the LRU entry.
func (p *lru[K, V]) Victim() policy.Node[K, V] { return p.h.Back() }

// OnRemove is a no-op for pure LRU (nothing to clean up in policy state).
func (p *lru[K, V]) OnRemove(_ policy.Node[K, V]) {}
