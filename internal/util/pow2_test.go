package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCeilLog2(t *testing.T) {
	t.Parallel()

	cases := map[uint64]uint{0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 16: 4, 17: 5, 1 << 40: 40}
	for in, want := range cases {
		assert.Equal(t, want, CeilLog2(in), "CeilLog2(%d)", in)
	}
}

func TestNextPow2(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(1), NextPow2(0))
	assert.Equal(t, uint64(1), NextPow2(1))
	assert.Equal(t, uint64(8), NextPow2(5))
	assert.Equal(t, uint64(64), NextPow2(64))
	assert.Equal(t, uint64(1)<<63, NextPow2(1<<63+1))
}
