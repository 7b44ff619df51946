package cache

import "github.com/IvanBrykalov/poolcache/alloc"

// node is an intrusive doubly linked list element owned by the cache.
// It stores the allocator handle of the value alongside list links and the
// second-chance flag.
type node[K comparable, V any] struct {
	key K
	h   alloc.Handle[V]

	// Intrusive list links: head is the front, tail the next eviction candidate.
	prev *node[K, V]
	next *node[K, V]

	// Set on hit, cleared when the entry survives an eviction scan.
	ref bool
}

// Key returns the key the node was created for (part of policy.Node).
func (n *node[K, V]) Key() K { return n.key }

// Value returns the allocator-owned value (part of policy.Node).
func (n *node[K, V]) Value() *V { return n.h.Value() }

func (n *node[K, V]) Referenced() bool     { return n.ref }
func (n *node[K, V]) SetReferenced(r bool) { n.ref = r }
