// Package policy defines the contract between the cache queue and an
// eviction policy.
package policy

// Node is the minimal contract a cache entry must satisfy for a policy.
// It exposes the key the entry was created for, a pointer to the value and
// the entry's "recently referenced" flag.
type Node[K comparable, V any] interface {
	Key() K
	Value() *V
	Referenced() bool
	SetReferenced(bool)
}

// Hooks expose O(1) list operations that a policy can use to manipulate
// the cache queue (front = newest, back = next eviction candidate).
// Implementations are provided by the cache.
//
// Important: hooks manage only the list; the cache owns element lifetime.
type Hooks[K comparable, V any] interface {
	// MoveToFront repositions the node at the front.
	MoveToFront(Node[K, V])
	// PushFront inserts the node at the front (used on admission).
	PushFront(Node[K, V])
	// Remove detaches the node from the list.
	Remove(Node[K, V])
	// Back returns the current back node (or nil if empty).
	Back() Node[K, V]
	// Len returns the number of resident nodes.
	Len() int
}

// Evictor is a policy instance bound to one cache's hooks.
//
// Semantics:
//   - OnAdd places a newly created node (typically PushFront).
//   - OnGet records a hit. It may or may not reorder the queue.
//   - Victim picks the node to evict when the cache is full. It may reorder
//     the queue while searching; it must return a resident node whenever
//     Len() > 0. The cache then destroys the victim and calls OnRemove.
//   - OnRemove is a notification to update policy-internal state.
//     The cache performs the actual unlinking.
type Evictor[K comparable, V any] interface {
	OnAdd(Node[K, V])
	OnGet(Node[K, V])
	Victim() Node[K, V]
	OnRemove(Node[K, V])
}

// Policy is a factory that creates an Evictor bound to a cache's hooks.
type Policy[K comparable, V any] interface {
	New(Hooks[K, V]) Evictor[K, V]
}
