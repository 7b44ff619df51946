// Package alloc defines the capability a cache needs from an allocator:
// materialize a value and later release it, exactly once.
package alloc

// Allocator materializes values of type V and releases them.
//
// Create returns a Handle owning the new value; Destroy runs the value's
// teardown (see Destroyer) and releases the backing storage. Destroying a
// handle twice, or a handle from another allocator, must be a no-op.
//
// Implementations are not required to be safe for concurrent use.
type Allocator[V any] interface {
	Create(v V) (Handle[V], error)
	Destroy(h Handle[V])
}

// Destroyer is implemented by values that need teardown before their storage is released.
type Destroyer interface {
	Destroy()
}

// Handle is an owned value plus the bookkeeping its allocator needs to release it.
// The zero Handle owns nothing.
type Handle[V any] struct {
	ptr    *V
	offset int
	gen    uint64
}

// NewHandle builds a Handle. Allocators use offset and gen to locate the
// backing storage on Destroy without scanning.
func NewHandle[V any](ptr *V, offset int, gen uint64) Handle[V] {
	return Handle[V]{ptr: ptr, offset: offset, gen: gen}
}

// Value returns the owned value (nil for the zero Handle).
func (h Handle[V]) Value() *V { return h.ptr }

// Offset returns the allocator-defined location of the backing storage.
func (h Handle[V]) Offset() int { return h.offset }

// Generation returns the allocator-defined generation stamp.
func (h Handle[V]) Generation() uint64 { return h.gen }

// Valid reports whether the handle owns a value.
func (h Handle[V]) Valid() bool { return h.ptr != nil }

// teardown runs Destroy on values that implement Destroyer.
func teardown[V any](p *V) {
	if d, ok := any(p).(Destroyer); ok {
		d.Destroy()
		return
	}
	if d, ok := any(*p).(Destroyer); ok {
		d.Destroy()
	}
}

// Teardown runs the value's Destroyer hook, if any. Allocators call it before
// releasing storage.
func Teardown[V any](h Handle[V]) {
	if h.ptr != nil {
		teardown(h.ptr)
	}
}
