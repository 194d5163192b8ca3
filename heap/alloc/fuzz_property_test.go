package alloc

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

type liveBlock struct {
	size int
	tag  byte
}

// Test_Fuzz_RandomOps_GuardInvariants runs random alloc/free/realloc/calloc
// sequences, checking heap invariants after every step and payload contents
// periodically.
func Test_Fuzz_RandomOps_GuardInvariants(t *testing.T) {
	for _, seed := range []uint64{1, 42, 2024} {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			runRandomOps(t, seed, 2000)
		})
	}
}

func runRandomOps(t *testing.T, seed uint64, steps int) {
	a := newTestAllocator(t, 16<<20, 0)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	live := make(map[Ptr]liveBlock)
	var ptrs []Ptr
	tag := byte(0)

	take := func() (Ptr, int) {
		i := rng.IntN(len(ptrs))
		return ptrs[i], i
	}
	drop := func(i int) {
		ptrs[i] = ptrs[len(ptrs)-1]
		ptrs = ptrs[:len(ptrs)-1]
	}

	for step := range steps {
		op := rng.IntN(10)
		switch {
		case op < 4 || len(ptrs) == 0: // alloc
			size := rng.IntN(3000)
			if rng.IntN(20) == 0 {
				size = 10000 + rng.IntN(30000)
			}
			p, err := a.Alloc(uint64(size))
			require.NoError(t, err, "step %d: Alloc(%d)", step, size)
			require.Zero(t, uint64(p)%format.Alignment)
			require.NotContains(t, live, p, "step %d: live payload handed out twice", step)
			tag++
			fill(a.Bytes(p)[:size], tag)
			live[p] = liveBlock{size: size, tag: tag}
			ptrs = append(ptrs, p)

		case op < 7: // free
			p, i := take()
			requirePattern(t, a.Bytes(p), live[p].size, live[p].tag)
			a.Free(p)
			delete(live, p)
			drop(i)

		case op < 9: // realloc
			p, i := take()
			old := live[p]
			size := rng.IntN(4000) + 1
			q, err := a.Realloc(p, uint64(size))
			require.NoError(t, err, "step %d: Realloc(%d)", step, size)
			requirePattern(t, a.Bytes(q), min(old.size, size), old.tag)
			delete(live, p)
			drop(i)
			tag++
			fill(a.Bytes(q)[:size], tag)
			live[q] = liveBlock{size: size, tag: tag}
			ptrs = append(ptrs, q)

		default: // calloc
			count, elem := uint64(rng.IntN(64)), uint64(rng.IntN(64))
			p, err := a.Calloc(count, elem)
			require.NoError(t, err)
			for _, v := range a.Bytes(p)[:count*elem] {
				require.Zero(t, v, "step %d: calloc memory not zeroed", step)
			}
			live[p] = liveBlock{size: 0, tag: 0}
			ptrs = append(ptrs, p)
		}

		require.NoError(t, a.Check(), "step %d", step)
		if step%100 == 0 {
			for p, blk := range live {
				requirePattern(t, a.Bytes(p), blk.size, blk.tag)
			}
		}
	}

	for _, p := range ptrs {
		a.Free(p)
	}
	assertInvariants(t, a)
	require.Less(t, a.HeapSize(), int64(format.MinShrinkRelease),
		"with everything freed only a sub-threshold run may remain")
}
