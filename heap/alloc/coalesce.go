package alloc

import "github.com/joshuapare/heapkit/internal/format"

// coalesce merges the free, indexed chunk c with whichever physical
// neighbors are free. Absorbed neighbors leave the index; the survivor stays
// in it. Returns the offset of the merged chunk.
func (a *WorstFitAllocator) coalesce(c int64) int64 {
	if n := a.next(c); n != format.NoChunk && !a.used(n) {
		a.free.remove(n)
		a.absorb(c, n)
		a.stats.CoalesceForward++
	}

	if p := a.prev(c); p != format.NoChunk && !a.used(p) {
		a.free.remove(c)
		a.absorb(p, c)
		a.stats.CoalesceBackward++
		c = p
	}
	return c
}

// absorb folds chunk n into its physical predecessor c. The header of n
// becomes interior bytes of c.
func (a *WorstFitAllocator) absorb(c, n int64) {
	wasTail := n == a.tail
	size := a.size(c) + a.size(n)
	format.PutChunkSize(a.mem(), c, size, a.used(c))

	if wasTail {
		a.tail = c
		return
	}
	a.fixNextTag(c)
}
