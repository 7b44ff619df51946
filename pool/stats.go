package pool

import (
	"fmt"

	"github.com/IvanBrykalov/poolcache/internal/util"
	"github.com/dustin/go-humanize"
)

// Stats is a snapshot of arena usage.
type Stats struct {
	ArenaBytes int
	MinBlock   int
	UsedBytes  int
	LiveBlocks int
	Failures   uint64
}

// FreeBytes returns the bytes not covered by a live block.
func (s Stats) FreeBytes() int { return s.ArenaBytes - s.UsedBytes }

func (s Stats) String() string {
	return fmt.Sprintf("%s of %s used in %d blocks (min block %s, %d failed allocations)",
		humanize.IBytes(uint64(s.UsedBytes)), humanize.IBytes(uint64(s.ArenaBytes)),
		s.LiveBlocks, humanize.IBytes(uint64(s.MinBlock)), s.Failures)
}

// ArenaPower returns the smallest arena power able to hold count blocks of size bytes.
func ArenaPower(count, size int) int {
	if count < 1 {
		count = 1
	}
	block := util.NextPow2(uint64(max(size, 1)))
	return int(util.CeilLog2(uint64(count) * block))
}

// BlockPower returns log2 of the block that holds size bytes.
func BlockPower(size int) int {
	return int(util.CeilLog2(uint64(max(size, 1))))
}
