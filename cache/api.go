package cache

import (
	"io"
	"iter"
)

// Keyed is implemented by cached values: a value reports whether it is the
// one stored for key k. The cache finds entries by scanning with Equal.
type Keyed[K any] interface {
	Equal(k K) bool
}

// Cache is a bounded, single-threaded key → value store.
// Methods are NOT safe for concurrent use; callers serialize access.
//
// Get is O(Len()) (linear scan); eviction work is O(Len()) in the worst case
// of a full second-chance rotation.
type Cache[K comparable, V Keyed[K]] interface {
	// Get returns the value stored for k, creating it through the allocator
	// on a miss (and evicting one entry first if the cache is full).
	// The returned pointer stays valid until the entry is evicted or the
	// cache is closed.
	Get(k K) (*V, error)

	// Contains reports whether k is resident without recording a hit.
	Contains(k K) bool

	// Len returns the number of resident entries.
	Len() int

	// Empty reports whether Len() == 0.
	Empty() bool

	// Cap returns the configured capacity.
	Cap() int

	// All iterates entries front to back, yielding the value and its
	// referenced flag. The cache must not be mutated during iteration.
	All() iter.Seq2[*V, bool]

	// WriteTo prints the cache contents, one entry per line.
	WriteTo(w io.Writer) (int64, error)

	// String returns what WriteTo prints.
	String() string

	// Close destroys every remaining entry through the allocator.
	// Later Gets return ErrClosed. Close is idempotent and returns nil.
	Close() error
}
