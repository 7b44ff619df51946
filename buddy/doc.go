// Package buddy implements the availability index of a power-of-two buddy
// allocator as an implicit complete binary tree.
//
// Layout
//
// The tree is stored in a slice indexed from 1. The root (index 1) covers the
// whole arena of 2^maxP bytes; node i has children 2i and 2i+1 and parent i/2.
// A node at level L covers 2^(maxP-L) bytes starting at offset
// (i - 2^L) * 2^(maxP-L). Leaves sit at level maxP-minP and cover the minimum
// block of 2^minP bytes.
//
// Every node carries one of three statuses:
//
//   - Empty: the whole subtree is unused.
//   - Separated: the node is split and at least one child is non-Empty.
//   - Filled: the node itself is an outstanding allocation; its subtree is Empty.
//
// No free lists are kept. Allocate walks the Separated part of the tree to
// find the Empty node of the requested size that reuses the deepest already
// split region; Deallocate clears a Filled node and coalesces Empty buddies
// back into their parents.
//
// A Tree is not safe for concurrent use. Callers serialize access.
package buddy
