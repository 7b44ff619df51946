package cache

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/IvanBrykalov/poolcache/alloc"
	"github.com/IvanBrykalov/poolcache/policy"
	"github.com/IvanBrykalov/poolcache/policy/clock"
)

var (
	// ErrInvalidCapacity is returned by New when Capacity <= 0.
	ErrInvalidCapacity = errors.New("cache: capacity must be > 0")
	// ErrNoConstructor is returned by New when Options.New is nil.
	ErrNoConstructor = errors.New("cache: no value constructor provided")
	// ErrClosed is returned by Get after Close.
	ErrClosed = errors.New("cache: closed")
	// ErrKeyMismatch is returned by Get when the constructed value is not Equal to its key.
	ErrKeyMismatch = errors.New("cache: constructed value does not match its key")
)

// cache is a bounded key → value store backed by an injected allocator.
// Lookups scan the queue; residency never exceeds Capacity.
type cache[K comparable, V Keyed[K]] struct {
	q      queue[K, V]
	pol    policy.Evictor[K, V]
	alloc  alloc.Allocator[V]
	opt    Options[K, V]
	closed bool
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Allocator -> alloc.Heap
//   - nil Policy    -> second-chance (CLOCK)
//   - nil Metrics   -> NoopMetrics
//   - nil Logger    -> discard
func New[K comparable, V Keyed[K]](opt Options[K, V]) (Cache[K, V], error) {
	if opt.Capacity <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidCapacity, opt.Capacity)
	}
	if opt.New == nil {
		return nil, ErrNoConstructor
	}
	if opt.Allocator == nil {
		opt.Allocator = alloc.NewHeap[V]()
	}
	if opt.Policy == nil {
		opt.Policy = clock.New[K, V]()
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard)
	}

	c := &cache[K, V]{alloc: opt.Allocator, opt: opt}
	c.pol = opt.Policy.New(queueHooks[K, V]{q: &c.q})
	return c, nil
}

// ---- Cache[K,V] implementation ----

// Get returns the value for k. On a hit the policy records the reference;
// on a miss the value is created first, then one entry is evicted if the
// cache is full, then the new entry is admitted at the front. A failed
// create leaves the cache untouched.
func (c *cache[K, V]) Get(k K) (*V, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if n := c.find(k); n != nil {
		c.pol.OnGet(n)
		c.opt.Metrics.Hit()
		return n.Value(), nil
	}
	c.opt.Metrics.Miss()

	h, err := c.alloc.Create(c.opt.New(k))
	if err != nil {
		c.opt.Logger.Debug("create failed", "key", k, "err", err)
		return nil, fmt.Errorf("cache: create %v: %w", k, err)
	}
	if !(*h.Value()).Equal(k) {
		c.alloc.Destroy(h)
		return nil, fmt.Errorf("%w: %v", ErrKeyMismatch, k)
	}

	if c.q.len >= c.opt.Capacity {
		c.evict()
	}
	n := &node[K, V]{key: k, h: h}
	c.pol.OnAdd(n)
	c.opt.Metrics.Size(c.q.len)
	return n.Value(), nil
}

// Contains reports residency without touching the referenced flag.
func (c *cache[K, V]) Contains(k K) bool { return c.find(k) != nil }

func (c *cache[K, V]) Len() int    { return c.q.len }
func (c *cache[K, V]) Empty() bool { return c.q.len == 0 }
func (c *cache[K, V]) Cap() int    { return c.opt.Capacity }

// All iterates front to back.
func (c *cache[K, V]) All() iter.Seq2[*V, bool] {
	return func(yield func(*V, bool) bool) {
		for n := c.q.head; n != nil; n = n.next {
			if !yield(n.Value(), n.ref) {
				return
			}
		}
	}
}

// WriteTo prints one value per line front to back ("*" marks referenced
// entries), then a size summary.
// An empty cache prints "<empty>".
func (c *cache[K, V]) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	if c.q.len == 0 {
		b.WriteString("<empty>\n")
	} else {
		for n := c.q.head; n != nil; n = n.next {
			fmt.Fprintf(&b, "%v", *n.Value())
			if n.ref {
				b.WriteString(" *")
			}
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "(%s of %s entries)\n",
			humanize.Comma(int64(c.q.len)), humanize.Comma(int64(c.opt.Capacity)))
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func (c *cache[K, V]) String() string {
	var b strings.Builder
	_, _ = c.WriteTo(&b)
	return b.String()
}

// Close destroys all remaining entries (back to front) and marks the cache closed.
func (c *cache[K, V]) Close() error {
	if c.closed {
		return nil
	}
	for n := c.q.back(); n != nil; n = c.q.back() {
		c.drop(n, EvictClose)
	}
	c.closed = true
	c.opt.Metrics.Size(0)
	return nil
}

// -------------------- internals --------------------

// find scans front to back for the entry whose value is Equal to k.
func (c *cache[K, V]) find(k K) *node[K, V] {
	for n := c.q.head; n != nil; n = n.next {
		if (*n.Value()).Equal(k) {
			return n
		}
	}
	return nil
}

// evict asks the policy for a victim and destroys it.
func (c *cache[K, V]) evict() {
	v := c.pol.Victim()
	if v == nil {
		return
	}
	c.drop(v.(*node[K, V]), EvictPolicy)
}

// drop unlinks n, reports it and returns its value to the allocator.
func (c *cache[K, V]) drop(n *node[K, V], reason EvictReason) {
	c.pol.OnRemove(n)
	c.q.removeNode(n)
	c.opt.Metrics.Evict(reason)
	if cb := c.opt.OnEvict; cb != nil {
		cb(n.key, n.Value(), reason)
	}
	c.opt.Logger.Debug("evicted", "key", n.key, "reason", reason)
	c.alloc.Destroy(n.h)
}
