package buddy

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/IvanBrykalov/poolcache/internal/util"
)

const (
	// MaxPower bounds the arena to 2^MaxPower bytes.
	MaxPower = 40
	// MaxDepth bounds the tree to 2^(MaxDepth+1) status entries.
	MaxDepth = 24
)

// Tree tracks which blocks of a 2^maxP byte arena are in use.
type Tree struct {
	minP  int
	maxP  int
	nodes []Status // index 0 unused; root at 1
}

// New creates a Tree for an arena of 2^maxP bytes with blocks no smaller than 2^minP.
func New(minP, maxP int) (*Tree, error) {
	switch {
	case minP < 0 || maxP < 0:
		return nil, fmt.Errorf("%w: negative power (min=%d max=%d)", ErrInvalidPowers, minP, maxP)
	case minP > maxP:
		return nil, fmt.Errorf("%w: min power %d > max power %d", ErrInvalidPowers, minP, maxP)
	case maxP > MaxPower:
		return nil, fmt.Errorf("%w: max power %d > %d", ErrInvalidPowers, maxP, MaxPower)
	case maxP-minP > MaxDepth:
		return nil, fmt.Errorf("%w: depth %d > %d", ErrInvalidPowers, maxP-minP, MaxDepth)
	}
	return &Tree{
		minP:  minP,
		maxP:  maxP,
		nodes: make([]Status, 1<<(maxP-minP+1)),
	}, nil
}

// MinPower returns log2 of the minimum block size.
func (t *Tree) MinPower() int { return t.minP }

// MaxPower returns log2 of the arena size.
func (t *Tree) MaxPower() int { return t.maxP }

// ArenaSize returns the number of bytes the tree covers.
func (t *Tree) ArenaSize() int { return 1 << t.maxP }

// Len returns the number of nodes (the highest valid index is Len()).
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Allocate reserves a block of at least n bytes and returns its offset.
// The tree is left unchanged on failure.
func (t *Tree) Allocate(n int) (int, error) {
	level, ok := t.levelFor(n)
	if !ok {
		return 0, &OutOfMemoryError{Requested: n, Arena: t.ArenaSize()}
	}
	i, ok := t.search(level)
	if !ok {
		return 0, &OutOfMemoryError{Requested: n, Block: 1 << (t.maxP - level), Arena: t.ArenaSize()}
	}
	t.nodes[i] = Filled
	for p := i / 2; p > 0; p /= 2 {
		t.nodes[p] = Separated
	}
	return t.offsetOf(i), nil
}

// Deallocate releases the block starting at offset and coalesces free buddies.
// It reports whether a block was released; unknown offsets are a no-op.
func (t *Tree) Deallocate(offset int) bool {
	i := t.find(offset)
	if i == 0 {
		return false
	}
	t.nodes[i] = Empty
	for p := i / 2; p > 0; p /= 2 {
		if t.nodes[p] != Separated || t.nodes[2*p] != Empty || t.nodes[2*p+1] != Empty {
			break
		}
		t.nodes[p] = Empty
	}
	return true
}

// BlockSize returns the size of the live block starting at offset, or 0.
func (t *Tree) BlockSize(offset int) int {
	if i := t.find(offset); i != 0 {
		return t.sizeOf(i)
	}
	return 0
}

// UsedBytes sums the sizes of all Filled nodes.
func (t *Tree) UsedBytes() int {
	used := 0
	for i := 1; i < len(t.nodes); i++ {
		if t.nodes[i] == Filled {
			used += t.sizeOf(i)
		}
	}
	return used
}

// FreeBytes returns the arena bytes not covered by a live block.
func (t *Tree) FreeBytes() int { return t.ArenaSize() - t.UsedBytes() }

// Check validates the tree invariants.
func (t *Tree) Check() error { return Validate(t.nodes) }

// String dumps the statuses level by level, one line per level.
// Intended for small trees.
func (t *Tree) String() string {
	var b strings.Builder
	for level := 0; level <= t.maxP-t.minP; level++ {
		fmt.Fprintf(&b, "%2d [%d]", level, 1<<(t.maxP-level))
		for i := 1 << level; i < 2<<level; i++ {
			b.WriteByte(' ')
			b.WriteString(t.nodes[i].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// -------------------- internals --------------------

// levelFor maps a request size to the tree level holding blocks of that size.
func (t *Tree) levelFor(n int) (int, bool) {
	p := t.minP
	if n > 1 {
		if need := int(util.CeilLog2(uint64(n))); need > p {
			p = need
		}
	}
	if p > t.maxP {
		return 0, false
	}
	return t.maxP - p, true
}

// search picks the Empty node at level whose ancestors hold no Filled node,
// preferring the one below the deepest Separated ancestor, then the lowest offset.
func (t *Tree) search(level int) (int, bool) {
	switch t.nodes[1] {
	case Empty:
		return 1 << level, true
	case Filled:
		return 0, false
	}
	best, bestDepth := 0, -1
	var walk func(i, depth int)
	walk = func(i, depth int) {
		for c := 2 * i; c <= 2*i+1; c++ {
			switch t.nodes[c] {
			case Empty:
				// Strictly deeper wins: among ancestors at equal depth the
				// first visited, i.e. the lowest offset, is kept.
				if depth > bestDepth {
					// Leftmost descendant of c at the target level.
					best, bestDepth = c<<(level-depth-1), depth
				}
			case Separated:
				if depth+1 < level {
					walk(c, depth+1)
				}
			}
		}
	}
	if level > 0 {
		walk(1, 0)
	}
	return best, best != 0
}

// find descends from the root to the Filled node starting at offset (0 if none).
func (t *Tree) find(offset int) int {
	if offset < 0 || offset >= t.ArenaSize() {
		return 0
	}
	i := 1
	for i < len(t.nodes) {
		if t.offsetOf(i) == offset {
			switch t.nodes[i] {
			case Filled:
				return i
			case Empty:
				return 0
			}
			// Separated: the block starting here lives in the left subtree.
			i *= 2
			continue
		}
		if t.nodes[i] != Separated {
			return 0
		}
		i *= 2
		if t.offsetOf(i+1) <= offset {
			i++
		}
	}
	return 0
}

func levelOf(i int) int { return bits.Len(uint(i)) - 1 }

func (t *Tree) sizeOf(i int) int { return 1 << (t.maxP - levelOf(i)) }

func (t *Tree) offsetOf(i int) int {
	l := levelOf(i)
	return (i - 1<<l) << (t.maxP - l)
}
