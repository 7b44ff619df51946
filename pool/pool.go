// Package pool owns a fixed byte arena and hands out power-of-two blocks of
// it, using a buddy.Tree as the availability index.
//
// Blocks carry their offset and a generation stamp, so Deallocate is an O(1)
// lookup and a stale Block (already freed, its offset since reused) is
// ignored instead of releasing somebody else's memory.
//
// An Allocator is not safe for concurrent use.
package pool

import (
	"fmt"
	"unsafe"

	"github.com/IvanBrykalov/poolcache/buddy"
)

var (
	// ErrOutOfMemory is matched (errors.Is) by every allocation failure.
	ErrOutOfMemory = buddy.ErrOutOfMemory
	// ErrInvalidPowers is returned by New for an unusable power pair.
	ErrInvalidPowers = buddy.ErrInvalidPowers
	// ErrCorrupt is returned by Check when the tree and the live blocks disagree.
	ErrCorrupt = buddy.ErrCorrupt
)

// Block is an outstanding allocation. The zero Block owns nothing.
type Block struct {
	off  int
	size int
	gen  uint64
}

// Offset returns the byte offset of the block in the arena.
func (b Block) Offset() int { return b.off }

// Size returns the block size (the request rounded up to a power of two).
func (b Block) Size() int { return b.size }

// IsZero reports whether b is the zero Block.
func (b Block) IsZero() bool { return b.size == 0 }

type liveBlock struct {
	size int
	gen  uint64
}

// Allocator is a buddy allocator over a single arena of 2^MaxPower bytes.
type Allocator struct {
	arena []byte
	tree  *buddy.Tree
	live  map[int]liveBlock // offset -> outstanding block
	gen   uint64
	used  int
	fails uint64
	opt   Options
}

// New allocates the arena and an empty tree.
func New(opt Options) (*Allocator, error) {
	tree, err := buddy.New(opt.MinPower, opt.MaxPower)
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	opt.defaults()
	return &Allocator{
		arena: make([]byte, tree.ArenaSize()),
		tree:  tree,
		live:  make(map[int]liveBlock),
		opt:   opt,
	}, nil
}

// Allocate reserves a block of at least n bytes.
func (a *Allocator) Allocate(n int) (Block, error) {
	off, err := a.tree.Allocate(n)
	if err != nil {
		a.fails++
		a.opt.Metrics.Fail()
		a.opt.Logger.Debug("allocation failed", "size", n, "used", a.used, "arena", len(a.arena), "err", err)
		return Block{}, err
	}
	size := a.tree.BlockSize(off)
	a.gen++
	a.live[off] = liveBlock{size: size, gen: a.gen}
	a.used += size
	a.opt.Metrics.Alloc(size)
	return Block{off: off, size: size, gen: a.gen}, nil
}

// Deallocate releases b. Zero, foreign or stale blocks are a no-op.
func (a *Allocator) Deallocate(b Block) {
	if b.IsZero() {
		return
	}
	a.release(b.off, b.gen)
}

// DeallocateOffset releases the block starting at off. Offsets outside the
// arena or not currently allocated are a no-op.
//
// Unlike Deallocate it cannot detect a stale offset that has since been
// handed out again; prefer Deallocate when a Block is at hand.
func (a *Allocator) DeallocateOffset(off int) {
	if lb, ok := a.live[off]; ok {
		a.release(off, lb.gen)
	}
}

// DeallocateBytes releases the block whose memory starts at p[0].
// Slices that do not point into the arena are a no-op.
func (a *Allocator) DeallocateBytes(p []byte) {
	if len(p) == 0 && cap(p) == 0 {
		return
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.arena)))
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(p)))
	if ptr < base || ptr >= base+uintptr(len(a.arena)) {
		return
	}
	a.DeallocateOffset(int(ptr - base))
}

// Bytes returns the arena memory of b, len == cap == b.Size().
// It returns nil for a block that is not live.
func (a *Allocator) Bytes(b Block) []byte {
	if b.IsZero() || !a.owns(b.off, b.gen) {
		return nil
	}
	end := b.off + b.size
	return a.arena[b.off:end:end]
}

// ArenaSize returns the arena length in bytes.
func (a *Allocator) ArenaSize() int { return len(a.arena) }

// Check validates the underlying tree and that it agrees with the live blocks.
func (a *Allocator) Check() error {
	if err := a.tree.Check(); err != nil {
		return err
	}
	if free, want := a.tree.FreeBytes(), len(a.arena)-a.used; free != want {
		return fmt.Errorf("%w: tree has %d free bytes, live blocks leave %d", ErrCorrupt, free, want)
	}
	return nil
}

// Dump returns the level-by-level status dump of the tree.
func (a *Allocator) Dump() string { return a.tree.String() }

// Stats returns a point-in-time snapshot of arena usage.
func (a *Allocator) Stats() Stats {
	return Stats{
		ArenaBytes: len(a.arena),
		MinBlock:   1 << a.tree.MinPower(),
		UsedBytes:  a.used,
		LiveBlocks: len(a.live),
		Failures:   a.fails,
	}
}

// -------------------- internals --------------------

func (a *Allocator) owns(off int, gen uint64) bool {
	lb, ok := a.live[off]
	return ok && lb.gen == gen
}

// release frees the live block at off if its generation matches.
func (a *Allocator) release(off int, gen uint64) bool {
	lb, ok := a.live[off]
	if !ok || lb.gen != gen {
		return false
	}
	if !a.tree.Deallocate(off) {
		// The tree and the live map disagree; keep the map authoritative for callers.
		a.opt.Logger.Warn("block missing from tree", "offset", off, "size", lb.size)
	}
	delete(a.live, off)
	a.used -= lb.size
	a.opt.Metrics.Free(lb.size)
	return true
}
