package cache

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/poolcache/pool"
)

// record is a fixed-size value; its arena block is 32 bytes.
type record struct {
	id      int
	payload [3]int64
}

func (r record) Equal(id int) bool { return r.id == id }

func newRecord(id int) record { return record{id: id, payload: [3]int64{int64(id)}} }

func TestNewPooled_ArenaTracksResidency(t *testing.T) {
	t.Parallel()

	c, arena, err := NewPooled(Options[int, record]{Capacity: 9, New: newRecord}, pool.Options{})
	require.NoError(t, err)

	st := arena.Stats()
	assert.Equal(t, 32, st.MinBlock)
	assert.GreaterOrEqual(t, st.ArenaBytes, 10*32, "room for capacity+1 values")

	for i := range 200 {
		v, err := c.Get(i % 23)
		require.NoError(t, err)
		require.Equal(t, i%23, v.id)
		require.Equal(t, int64(i%23), v.payload[0])
		require.Equal(t, c.Len(), arena.Stats().LiveBlocks)
		require.NoError(t, arena.Check())
	}
	assert.Equal(t, 9, c.Len())
	assert.Equal(t, 9*32, arena.Stats().UsedBytes)

	require.NoError(t, c.Close())
	assert.Zero(t, arena.Stats().UsedBytes)
	assert.Zero(t, arena.Stats().Failures)
}

// An arena exactly as large as the capacity cannot create before evicting:
// the miss on a full cache fails and leaves everything in place.
func TestNewPooled_ArenaTooSmall(t *testing.T) {
	t.Parallel()

	c, arena, err := NewPooled(
		Options[int, record]{Capacity: 2, New: newRecord},
		pool.Options{MinPower: 5, MaxPower: 6},
	)
	require.NoError(t, err)

	_, err = c.Get(1)
	require.NoError(t, err)
	_, err = c.Get(2)
	require.NoError(t, err)

	_, err = c.Get(3)
	require.ErrorIs(t, err, pool.ErrOutOfMemory)
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Contains(1))
	assert.True(t, c.Contains(2))
	assert.Equal(t, uint64(1), arena.Stats().Failures)
}

// An explicit block power smaller than the value must not shrink the arena
// below capacity+1 values.
func TestNewPooled_SmallMinPower(t *testing.T) {
	t.Parallel()

	c, arena, err := NewPooled(Options[int, record]{Capacity: 4, New: newRecord}, pool.Options{MinPower: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, 2, arena.Stats().MinBlock)
	assert.GreaterOrEqual(t, arena.Stats().ArenaBytes, 5*32)

	for i := range 12 {
		_, err := c.Get(i)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, c.Len())
	assert.Zero(t, arena.Stats().Failures)
}

func TestNewPooled_Validation(t *testing.T) {
	t.Parallel()

	_, _, err := NewPooled(Options[int, record]{New: newRecord}, pool.Options{})
	require.ErrorIs(t, err, ErrInvalidCapacity)

	_, _, err = NewPooled(Options[int, record]{Capacity: 1, New: newRecord}, pool.Options{MinPower: 8, MaxPower: 4})
	require.ErrorIs(t, err, pool.ErrInvalidPowers)

	_, _, err = NewPooled(Options[int, record]{Capacity: 1}, pool.Options{})
	require.ErrorIs(t, err, ErrNoConstructor)
}

type label string

func (l label) Equal(k string) bool { return string(l) == k }

func TestNewPooled_StringValues(t *testing.T) {
	t.Parallel()

	c, arena, err := NewPooled(Options[string, label]{
		Capacity: 4,
		New:      func(k string) label { return label(k) },
	}, pool.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	for i := range 10 {
		_, err := c.Get(strconv.Itoa(i))
		require.NoError(t, err)
	}
	assert.Equal(t, 4, arena.Stats().LiveBlocks)
}
