package alloc

import "github.com/joshuapare/heapkit/internal/format"

// worstFit scans the whole free index and returns the largest chunk of at
// least need bytes, or NoChunk. Ties go to the first chunk seen. The chosen
// chunk is removed from the index and marked used.
func (a *WorstFitAllocator) worstFit(need int64) int64 {
	best := int64(format.NoChunk)
	bestSize := int64(0)

	a.free.each(func(c int64) bool {
		if size := a.size(c); size >= need && size > bestSize {
			best, bestSize = c, size
		}
		return true
	})
	if best == format.NoChunk {
		return format.NoChunk
	}

	a.free.remove(best)
	a.setUsed(best, true)
	return best
}
