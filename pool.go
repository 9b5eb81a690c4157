package factor

import (
	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
)

// Pools define a slice of in depth pools: one goroutine pool per recursion depth.
//
// A factorization tree of depth d and fan-out 2 may hold up to 2^d live splits; scoping each
// depth to its own pool keeps that growth bounded. Parents wait on their children from their
// own depth's slot, so a child never competes with its parent for the same pool.
type Pools struct {
	pools []*ants.Pool
}

// Release releases all the pools inside the pools.
func (p *Pools) Release() {
	for _, p := range p.pools {
		if p == nil {
			continue
		}
		p.Release()
	}
}

// NewPoolsWithOptions builds a depth pools with the size in parameters. If there is no size,
// no pools will be created and every split will run in its parent routine.
//
// Moreover, a size of 0 means that the splits submitted at this depth will run in their parent
// routine (or alike).
func NewPoolsWithOptions(poolSizes []int, opts ...ants.Option) (*Pools, error) {
	var err error
	result := &Pools{
		pools: lo.FilterMap(poolSizes, func(size, _ int) (pool *ants.Pool, ok bool) {
			if err != nil {
				return nil, false
			}
			if size != 0 { // if size == 0, it will yield a nil pool, which is OK : related splits will be run in parent routine
				pool, err = ants.NewPool(size, opts...)
			}
			return pool, err == nil
		}),
	}
	if err != nil {
		result.Release() // release eventually created pools
		return nil, err
	}
	return result, nil
}

// NewPools builds a depth pools with the size in parameters. If there is no size, no pools will
// be created and every split will run in its parent routine.
func NewPools(poolSizes ...int) (*Pools, error) {
	return NewPoolsWithOptions(poolSizes)
}

// submit schedules f on the current depth's pool and passes the next depth's pools to it. If
// the remaining pools are empty, f runs in the caller's routine and submit returns once it
// completes.
//
// An error is returned only when the head pool refuses the task (released pool); in that case
// f was never run.
func (p *Pools) submit(f func(*Pools)) error {
	if p == nil || len(p.pools) == 0 {
		f(p) // If there is no more available pools or no pool at all, just do it in current routine
		return nil
	}
	currentPool := p.pools[0]
	childrenPools := &Pools{pools: p.pools[1:]}
	if currentPool == nil {
		f(childrenPools) // If the current pool is nil, run in the current routine
		return nil
	}
	return currentPool.Submit(func() { f(childrenPools) })
}
