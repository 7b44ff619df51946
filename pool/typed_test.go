package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/poolcache/alloc"
)

type record struct {
	id       int
	released *int
}

func (r *record) Destroy() { *r.released++ }

func TestTyped_CreateDestroy(t *testing.T) {
	t.Parallel()

	p := newPool(t, 3, 8)
	released := 0
	typed := NewTyped[record](p, nil)

	h, err := typed.Create(record{id: 7, released: &released})
	require.NoError(t, err)
	require.True(t, h.Valid())
	assert.Equal(t, 7, h.Value().id)
	assert.Equal(t, 1, p.Stats().LiveBlocks)
	assert.Equal(t, BlockPower(SizeOf[record]()), BlockPower(p.Stats().UsedBytes))

	typed.Destroy(h)
	assert.Equal(t, 1, released)
	assert.Equal(t, 0, p.Stats().LiveBlocks)

	typed.Destroy(h)
	typed.Destroy(alloc.Handle[record]{})
	assert.Equal(t, 1, released, "destroy is effective once")
}

func TestTyped_OutOfMemoryLeavesPoolUntouched(t *testing.T) {
	t.Parallel()

	p := newPool(t, 4, 5) // room for two 16-byte values
	typed := NewTyped[string](p, func(string) int { return 16 })

	_, err := typed.Create("a")
	require.NoError(t, err)
	_, err = typed.Create("b")
	require.NoError(t, err)

	before := p.Stats()
	_, err = typed.Create("c")
	require.ErrorIs(t, err, ErrOutOfMemory)
	after := p.Stats()
	assert.Equal(t, before.UsedBytes, after.UsedBytes)
	assert.Equal(t, before.LiveBlocks, after.LiveBlocks)
}

func TestTyped_SizeFunc(t *testing.T) {
	t.Parallel()

	p := newPool(t, 2, 10)
	typed := NewTyped[string](p, func(s string) int { return len(s) })

	h, err := typed.Create("hello, arena")
	require.NoError(t, err)
	assert.Equal(t, 16, p.Stats().UsedBytes)
	assert.Same(t, p, typed.Pool())

	typed.Destroy(h)
	assert.Equal(t, 0, p.Stats().UsedBytes)
}
