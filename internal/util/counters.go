package util

import (
	"runtime"
	"sync/atomic"
	"unsafe"
)

// CacheLineSize is a reasonable default for most modern CPUs.
const CacheLineSize = 64

// PaddedAtomicUint64 is an atomic uint64 padded to exactly one cache line,
// so counters owned by different goroutines never share a line.
type PaddedAtomicUint64 struct {
	atomic.Uint64
	_ [CacheLineSize - 8]byte
}

var _ [CacheLineSize - int(unsafe.Sizeof(PaddedAtomicUint64{}))]byte

// Counters holds one padded counter per worker. Worker i only touches
// c[i]; readers may Sum at any time.
type Counters []PaddedAtomicUint64

// NewCounters returns n zeroed counters.
func NewCounters(n int) Counters { return make(Counters, n) }

// Sum adds all counters. The result is a snapshot, not a consistent cut.
func (c Counters) Sum() uint64 {
	var s uint64
	for i := range c {
		s += c[i].Load()
	}
	return s
}

// DefaultWorkers picks a worker count from GOMAXPROCS, clamped to [1..256].
func DefaultWorkers() int {
	return min(max(runtime.GOMAXPROCS(0), 1), 256)
}
