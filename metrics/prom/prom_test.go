package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/poolcache/cache"
	"github.com/IvanBrykalov/poolcache/pool"
)

type key int

func (k key) Equal(o int) bool { return int(k) == o }

func TestAdapters_WiredIntoPooledCache(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	cm := New(reg, "poolcache", "test", nil)
	pm := NewPool(reg, "poolcache", "arena", prometheus.Labels{"cache": "test"})

	c, arena, err := cache.NewPooled(cache.Options[int, key]{
		Capacity: 2,
		New:      func(k int) key { return key(k) },
		Metrics:  cm,
	}, pool.Options{Metrics: pm})
	require.NoError(t, err)

	for _, k := range []int{1, 2, 1, 3} {
		_, err := c.Get(k)
		require.NoError(t, err)
	}

	assert.InDelta(t, 1, testutil.ToFloat64(cm.hits), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(cm.misses), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(cm.evicts.WithLabelValues("policy")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(cm.sizeEnt), 0)

	block := float64(arena.Stats().MinBlock)
	assert.InDelta(t, 3*block, testutil.ToFloat64(pm.allocs), 0)
	assert.InDelta(t, 2*block, testutil.ToFloat64(pm.inUse), 0)

	require.NoError(t, c.Close())
	assert.InDelta(t, 2, testutil.ToFloat64(cm.evicts.WithLabelValues("close")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(pm.inUse), 0)
	assert.InDelta(t, 3*block, testutil.ToFloat64(pm.frees), 0)
	assert.Zero(t, testutil.ToFloat64(pm.fails))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}
