package alloc

import (
	"github.com/joshuapare/heapkit/heap/region"
	"github.com/joshuapare/heapkit/internal/format"
)

// Chunk accessors. Every chunk is addressed by the offset of its header from
// the region base; these helpers are the only place that converts between
// offsets, payload handles and header fields.

func (a *WorstFitAllocator) mem() []byte { return a.r.Bytes() }

func (a *WorstFitAllocator) size(c int64) int64 { return format.ChunkSize(a.mem(), c) }

func (a *WorstFitAllocator) used(c int64) bool { return format.ChunkUsed(a.mem(), c) }

func (a *WorstFitAllocator) setUsed(c int64, used bool) { format.SetChunkUsed(a.mem(), c, used) }

// next returns the physical successor of c, NoChunk for the tail.
func (a *WorstFitAllocator) next(c int64) int64 {
	if c == a.tail {
		return format.NoChunk
	}
	return c + a.size(c)
}

// prev returns the physical predecessor of c via its boundary tag, NoChunk for the head.
func (a *WorstFitAllocator) prev(c int64) int64 {
	if c == a.head {
		return format.NoChunk
	}
	return c - format.PrevSize(a.mem(), c)
}

// fixNextTag repairs the boundary tag of the chunk following c, if any.
func (a *WorstFitAllocator) fixNextTag(c int64) {
	if n := a.next(c); n != format.NoChunk {
		format.PutPrevSize(a.mem(), n, a.size(c))
	}
}

func payloadOf(c int64) Ptr { return Ptr(format.PayloadOffset(c)) }

func chunkOf(p Ptr) int64 { return format.ChunkOffset(int64(p)) }

// headerLinks stores free-index links in the chunk headers of a region.
type headerLinks struct {
	r *region.Region
}

func (h headerLinks) nextFree(c int64) int64    { return format.NextFree(h.r.Bytes(), c) }
func (h headerLinks) setNextFree(c, next int64) { format.PutNextFree(h.r.Bytes(), c, next) }
func (h headerLinks) prevFree(c int64) int64    { return format.PrevFree(h.r.Bytes(), c) }
func (h headerLinks) setPrevFree(c, prev int64) { format.PutPrevFree(h.r.Bytes(), c, prev) }
