package cache

import (
	"fmt"

	"github.com/IvanBrykalov/poolcache/pool"
)

// NewPooled builds a cache whose values are reserved in a buddy arena.
// The arena is sized to hold Capacity+1 values of SizeOf[V]() bytes, since
// a miss creates the new value before evicting the victim.
//
// popt.MaxPower == 0 derives the arena size; popt.MinPower == 0 derives the
// block size. opt.Allocator is overwritten.
func NewPooled[K comparable, V Keyed[K]](opt Options[K, V], popt pool.Options) (Cache[K, V], *pool.Allocator, error) {
	if opt.Capacity <= 0 {
		return nil, nil, fmt.Errorf("%w (got %d)", ErrInvalidCapacity, opt.Capacity)
	}
	size := pool.SizeOf[V]()
	if popt.MinPower == 0 {
		popt.MinPower = pool.BlockPower(size)
	}
	if popt.MaxPower == 0 {
		popt.MaxPower = pool.ArenaPower(opt.Capacity+1, max(1<<popt.MinPower, size))
	}
	if popt.Logger == nil {
		popt.Logger = opt.Logger
	}
	p, err := pool.New(popt)
	if err != nil {
		return nil, nil, fmt.Errorf("cache: arena: %w", err)
	}
	opt.Allocator = pool.NewTyped[V](p, nil)
	c, err := New(opt)
	if err != nil {
		return nil, nil, err
	}
	return c, p, nil
}
