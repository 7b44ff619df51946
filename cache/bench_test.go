package cache

import (
	"math/rand"
	"testing"

	"github.com/IvanBrykalov/poolcache/pool"
)

// benchmarkGet drives a skewed key stream against a warm cache.
// Lookups are linear, so capacities stay small.
func benchmarkGet(b *testing.B, c Cache[int, record], keys int) {
	b.Cleanup(func() { _ = c.Close() })

	r := rand.New(rand.NewSource(1))
	z := rand.NewZipf(r, 1.1, 1, uint64(keys-1))
	stream := make([]int, 1<<12)
	for i := range stream {
		stream[i] = int(z.Uint64())
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Get(stream[i&(len(stream)-1)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCache_Heap(b *testing.B) {
	c, err := New(Options[int, record]{Capacity: 64, New: newRecord})
	if err != nil {
		b.Fatal(err)
	}
	benchmarkGet(b, c, 256)
}

func BenchmarkCache_Pooled(b *testing.B) {
	c, _, err := NewPooled(Options[int, record]{Capacity: 64, New: newRecord}, pool.Options{})
	if err != nil {
		b.Fatal(err)
	}
	benchmarkGet(b, c, 256)
}
