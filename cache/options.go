package cache

import (
	"github.com/charmbracelet/log"

	"github.com/IvanBrykalov/poolcache/alloc"
	"github.com/IvanBrykalov/poolcache/policy"
)

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictPolicy: chosen as victim by the active eviction policy.
	EvictPolicy EvictReason = iota
	// EvictClose: destroyed during cache teardown.
	EvictClose
)

func (r EvictReason) String() string {
	if r == EvictClose {
		return "close"
	}
	return "policy"
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// Options configures the cache behavior. Zero values are safe except for
// Capacity and New; defaults are applied in New():
//   - nil Allocator => alloc.Heap
//   - nil Policy    => second-chance (CLOCK)
//   - nil Metrics   => NoopMetrics
//   - nil Logger    => discard
type Options[K comparable, V any] struct {
	// Capacity is the entry count limit (must be > 0).
	Capacity int

	// New builds the value for a missing key. The result must be Equal to k.
	New func(k K) V

	// Allocator materializes and destroys values.
	Allocator alloc.Allocator[V]

	// Policy is a pluggable eviction policy; nil => CLOCK.
	Policy policy.Policy[K, V]

	// OnEvict is called before a removed value is destroyed.
	OnEvict func(k K, v *V, reason EvictReason)
	Metrics Metrics
	Logger  *log.Logger
}
