package cache

import "github.com/IvanBrykalov/poolcache/policy"

// queue is the cache's intrusive doubly linked list (head=front, tail=back).
// The policy reorders it through queueHooks; the cache owns the nodes.
type queue[K comparable, V any] struct {
	head *node[K, V] // newest
	tail *node[K, V] // next eviction candidate
	len  int
}

// insertFront inserts n at the front in O(1).
func (q *queue[K, V]) insertFront(n *node[K, V]) {
	n.prev = nil
	n.next = q.head
	if q.head != nil {
		q.head.prev = n
	}
	q.head = n
	if q.tail == nil {
		q.tail = n
	}
	q.len++
}

// moveToFront repositions n at the front in O(1).
func (q *queue[K, V]) moveToFront(n *node[K, V]) {
	if n == q.head {
		return
	}
	// detach
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if q.tail == n {
		q.tail = n.prev
	}
	// insert at head
	n.prev = nil
	n.next = q.head
	if q.head != nil {
		q.head.prev = n
	}
	q.head = n
	if q.tail == nil {
		q.tail = n
	}
}

// removeNode unlinks n in O(1).
func (q *queue[K, V]) removeNode(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if q.head == n {
		q.head = n.next
	}
	if q.tail == n {
		q.tail = n.prev
	}
	n.prev, n.next = nil, nil
	q.len--
}

// back returns the current back node in O(1).
func (q *queue[K, V]) back() *node[K, V] { return q.tail }

// -------------------- policy hooks --------------------

// queueHooks adapts the queue's list operations to policy.Hooks.
type queueHooks[K comparable, V any] struct{ q *queue[K, V] }

func (h queueHooks[K, V]) MoveToFront(x policy.Node[K, V]) { h.q.moveToFront(x.(*node[K, V])) }
func (h queueHooks[K, V]) PushFront(x policy.Node[K, V])   { h.q.insertFront(x.(*node[K, V])) }
func (h queueHooks[K, V]) Remove(x policy.Node[K, V])      { h.q.removeNode(x.(*node[K, V])) }
func (h queueHooks[K, V]) Len() int                        { return h.q.len }

// Back returns nil (not a typed nil pointer) on an empty queue.
func (h queueHooks[K, V]) Back() policy.Node[K, V] {
	if t := h.q.back(); t != nil {
		return t
	}
	return nil
}
