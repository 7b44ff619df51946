// Package util contains internal helpers: power-of-two math for the allocator
// packages and padded per-worker counters for the benchmark.
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import "math/bits"

// NextPow2 returns the smallest power of two >= x.
// Special cases:
//   - x == 0  -> 1
//   - if the exact next power would overflow 64 bits, the result is clamped to 1<<63
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	p := CeilLog2(x)
	if p >= 64 {
		return 1 << 63
	}
	return 1 << p
}

// CeilLog2 returns the smallest p such that 1<<p >= x (0 for x <= 1).
func CeilLog2(x uint64) uint {
	if x <= 1 {
		return 0
	}
	return uint(bits.Len64(x - 1))
}
