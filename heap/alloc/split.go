package alloc

import "github.com/joshuapare/heapkit/internal/format"

// carve shrinks chunk c to need bytes when the leftover can stand as a chunk
// of its own. The remainder is written as a free chunk but NOT linked into
// the free index; the caller decides where it goes. Returns NoChunk when the
// leftover is below MinChunkSize and c keeps its size.
func (a *WorstFitAllocator) carve(c, need int64) int64 {
	size := a.size(c)
	rest := size - need
	if rest < format.MinChunkSize {
		return format.NoChunk
	}

	b := a.mem()
	format.PutChunkSize(b, c, need, a.used(c))

	r := c + need
	format.PutChunk(b, r, rest, need, false)
	if c == a.tail {
		a.tail = r
	} else {
		format.PutPrevSize(b, r+rest, rest)
	}

	a.stats.SplitCount++
	if a.config.DebugTracing {
		a.log.Debug("split", "chunk", c, "need", need, "remainder", rest)
	}
	return r
}

// fit hands out the used chunk c for a request of need bytes, splitting off
// and indexing the remainder if it is viable.
//
// The remainder never has a free successor: c came either from the free
// index (so its successor was used) or from fresh growth at the tail.
func (a *WorstFitAllocator) fit(c, need int64) Ptr {
	if r := a.carve(c, need); r != format.NoChunk {
		a.free.insert(r)
	}
	a.setUsed(c, true)
	a.stats.BytesAllocated += a.size(c)
	return payloadOf(c)
}
