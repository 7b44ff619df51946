package pool

import (
	"unsafe"

	"github.com/IvanBrykalov/poolcache/alloc"
)

// Typed adapts an Allocator to alloc.Allocator[V].
//
// Create reserves sizeOf(v) bytes in the arena and then materializes the
// value; Destroy runs the value's teardown and releases the block. Values
// themselves live on the Go heap: the garbage collector does not scan []byte
// arenas, so the arena accounts for capacity and placement only.
type Typed[V any] struct {
	pool   *Allocator
	sizeOf func(V) int
}

// NewTyped binds a typed adapter to p. A nil sizeOf charges unsafe.Sizeof(V) per value.
func NewTyped[V any](p *Allocator, sizeOf func(V) int) *Typed[V] {
	if sizeOf == nil {
		size := SizeOf[V]()
		sizeOf = func(V) int { return size }
	}
	return &Typed[V]{pool: p, sizeOf: sizeOf}
}

// SizeOf returns unsafe.Sizeof of the zero V.
func SizeOf[V any]() int {
	var zero V
	return int(unsafe.Sizeof(zero))
}

// Create allocates backing bytes for v. On ErrOutOfMemory nothing is allocated.
func (t *Typed[V]) Create(v V) (alloc.Handle[V], error) {
	b, err := t.pool.Allocate(t.sizeOf(v))
	if err != nil {
		return alloc.Handle[V]{}, err
	}
	p := new(V)
	*p = v
	return alloc.NewHandle(p, b.off, b.gen), nil
}

// Destroy tears the value down and frees its block. Stale handles are ignored.
func (t *Typed[V]) Destroy(h alloc.Handle[V]) {
	if !h.Valid() || !t.pool.owns(h.Offset(), h.Generation()) {
		return
	}
	alloc.Teardown(h)
	t.pool.release(h.Offset(), h.Generation())
}

// Pool returns the underlying allocator.
func (t *Typed[V]) Pool() *Allocator { return t.pool }

var _ alloc.Allocator[int] = (*Typed[int])(nil)
