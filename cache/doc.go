// Package cache provides a small, generic, bounded cache whose values are
// materialized by an injected allocator and evicted by a pluggable policy
// (second-chance / CLOCK by default).
//
// Design
//
//   - Storage: entries live in an intrusive doubly linked list (front =
//     newest, back = next eviction candidate). There is no index: lookups
//     scan the list and ask each value whether it is Equal to the key, so the
//     cache suits small capacities.
//
//   - Allocation: Options.Allocator creates values on a miss and destroys them
//     on eviction and Close. alloc.Heap is the default; pool.Typed reserves
//     each value in a buddy arena (see NewPooled).
//
//   - Miss path: the value is created first. If creation fails the error is
//     returned and nothing changes. Otherwise, when the cache is full, the
//     policy names a victim which is destroyed, and the new entry is admitted
//     at the front.
//
//   - Policies: CLOCK marks entries on hit and gives marked entries a second
//     chance at eviction time. LRU and 2Q are available in the policy package.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; metrics/prom exports them to Prometheus.
//
//   - Callbacks: Options.OnEvict(k, v, reason) runs before the value is
//     destroyed (reason is EvictPolicy or EvictClose).
//
// Basic usage
//
//	type user struct{ id int; name string }
//	func (u user) Equal(id int) bool { return u.id == id }
//
//	c, err := cache.New(cache.Options[int, user]{
//	    Capacity: 64,
//	    New:      func(id int) user { return user{id: id} },
//	})
//	if err != nil { ... }
//	defer c.Close()
//	u, _ := c.Get(7) // created on first use
//
// Backed by a buddy arena
//
//	c, arena, err := cache.NewPooled(cache.Options[int, user]{
//	    Capacity: 64,
//	    New:      func(id int) user { return user{id: id} },
//	}, pool.Options{})
//	fmt.Println(arena.Stats())
//
// Thread-safety & complexity
//
// A Cache is NOT safe for concurrent use. Get and Contains are O(Len());
// a CLOCK eviction may rotate every entry once before finding a victim.
package cache
