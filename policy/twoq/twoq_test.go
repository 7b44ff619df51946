package twoq

import (
	"testing"

	"github.com/IvanBrykalov/poolcache/policy"
)

// --- test doubles (same shape as in LRU tests) ---

type testNode[K comparable, V any] struct {
	k   K
	v   V
	ref bool
}

func (n *testNode[K, V]) Key() K               { return n.k }
func (n *testNode[K, V]) Value() *V            { return &n.v }
func (n *testNode[K, V]) Referenced() bool     { return n.ref }
func (n *testNode[K, V]) SetReferenced(r bool) { n.ref = r }

type mockHooks[K comparable, V any] struct {
	pushFrontCnt   int
	moveToFrontCnt int

	lastPush policy.Node[K, V]
	lastMove policy.Node[K, V]
	backVal  policy.Node[K, V]
}

func (h *mockHooks[K, V]) MoveToFront(n policy.Node[K, V]) { h.moveToFrontCnt++; h.lastMove = n }
func (h *mockHooks[K, V]) PushFront(n policy.Node[K, V])   { h.pushFrontCnt++; h.lastPush = n }
func (h *mockHooks[K, V]) Remove(policy.Node[K, V])        {}
func (h *mockHooks[K, V]) Back() policy.Node[K, V]         { return h.backVal }
func (h *mockHooks[K, V]) Len() int                        { return 0 }

// --- tests ---

// OnAdd of a first-time key should admit into A1in.
func TestTwoQ_AddGoesToA1in(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string, int]{}
	p := New[string, int](2, 4).New(h).(*twoQ[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	p.OnAdd(n1)

	if p.inList.Len() != 1 {
		t.Fatalf("A1in must have 1 element, got %d", p.inList.Len())
	}
	if _, ok := p.inIdx[n1]; !ok {
		t.Fatalf("n1 must be present in A1in index")
	}
	if h.pushFrontCnt != 1 {
		t.Fatalf("OnAdd must push to the cache queue")
	}
}

// Once A1in is full, Victim should return its LRU candidate.
func TestTwoQ_FullA1inVictimIsItsLRU(t *testing.T) {
	t.Parallel()

	mature := &testNode[string, int]{k: "m"}
	h := &mockHooks[string, int]{backVal: mature}
	p := New[string, int](2, 4).New(h).(*twoQ[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	n2 := &testNode[string, int]{k: "b", v: 2}

	p.OnAdd(n1) // A1in: [n1]
	if v := p.Victim(); v != mature {
		t.Fatalf("A1in not full: victim must be the queue back, got %v", v)
	}
	p.OnAdd(n2) // A1in: [n2, n1] (cap reached)
	if v := p.Victim(); v != n1 {
		t.Fatalf("expected victim n1 (LRU of A1in), got %v", v)
	}
}

// Removing a node from A1in should place its key into ghosts (A1out).
func TestTwoQ_OnRemoveFromA1inGoesToGhost(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string, int]{}
	p := New[string, int](2, 2).New(h).(*twoQ[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	p.OnAdd(n1)
	p.OnRemove(n1)
	if _, ok := p.inIdx[n1]; ok {
		t.Fatal("n1 must be removed from A1in")
	}
	if _, ok := p.ghostIdx["a"]; !ok {
		t.Fatal("key 'a' must be in ghost (A1out)")
	}
}

// Ghost capacity is enforced by dropping the oldest ghost.
func TestTwoQ_GhostCapacity(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string, int]{}
	p := New[string, int](4, 1).New(h).(*twoQ[string, int])

	for _, k := range []string{"a", "b"} {
		n := &testNode[string, int]{k: k}
		p.OnAdd(n)
		p.OnRemove(n)
	}
	if _, ok := p.ghostIdx["a"]; ok {
		t.Fatal("oldest ghost must be dropped")
	}
	if _, ok := p.ghostIdx["b"]; !ok {
		t.Fatal("newest ghost must be kept")
	}
}

// Re-admitting a key that is in ghosts should bypass A1in and go to Am.
func TestTwoQ_AddFromGhostGoesToAm(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string, int]{}
	p := New[string, int](1, 2).New(h).(*twoQ[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	p.OnAdd(n1)
	p.OnRemove(n1)

	n2 := &testNode[string, int]{k: "a", v: 2}
	p.OnAdd(n2)
	if _, ok := p.inIdx[n2]; ok {
		t.Fatalf("n2 must NOT be in A1in (should go to Am)")
	}
	if _, ok := p.ghostIdx["a"]; ok {
		t.Fatalf("ghost must be consumed on re-admission")
	}
}

// A Get on an A1in node should promote it to Am and MoveToFront.
func TestTwoQ_GetPromotesFromA1inToAm(t *testing.T) {
	t.Parallel()

	h := &mockHooks[string, int]{}
	p := New[string, int](2, 2).New(h).(*twoQ[string, int])

	n1 := &testNode[string, int]{k: "a", v: 1}
	p.OnAdd(n1)
	p.OnGet(n1)
	if _, ok := p.inIdx[n1]; ok {
		t.Fatal("n1 must be promoted out of A1in after Get")
	}
	if h.moveToFrontCnt != 1 || !n1.ref {
		t.Fatalf("OnGet must call MoveToFront once and mark the node")
	}
}
