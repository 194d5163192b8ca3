package alloc

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/internal/format"
)

// Walk calls fn for every chunk from head to tail until fn returns false.
// The chain is read through the size fields, so a corrupted header ends the
// walk early rather than panicking.
func (a *WorstFitAllocator) Walk(fn func(ChunkInfo) bool) {
	b := a.mem()
	for off := int64(0); off < int64(len(b)); {
		ch, err := format.DecodeChunk(b, off)
		if err != nil {
			return
		}
		if !fn(infoOf(ch)) {
			return
		}
		off += ch.Size
	}
}

// FreeChunks returns the free index in iteration order.
func (a *WorstFitAllocator) FreeChunks() []ChunkInfo {
	out := make([]ChunkInfo, 0, a.free.len())
	b := a.mem()
	a.free.each(func(c int64) bool {
		ch, err := format.DecodeChunk(b, c)
		if err != nil {
			return false
		}
		out = append(out, infoOf(ch))
		return true
	})
	return out
}

func infoOf(ch format.Chunk) ChunkInfo {
	return ChunkInfo{
		Offset:   ch.Offset,
		Size:     ch.Size,
		PrevSize: ch.PrevSize,
		Used:     ch.Used,
		Payload:  payloadOf(ch.Offset),
	}
}

// Check verifies the heap invariants:
//   - chunks tile the region exactly, head at 0 and tail ending at the region end
//   - every size is aligned and at least MinChunkSize
//   - every prev_size matches the preceding chunk (0 for the first)
//   - no two physically adjacent chunks are both free
//   - a chunk is in the free index if and only if it is free
//
// The returned error wraps ErrCorrupt.
func (a *WorstFitAllocator) Check() error {
	b := a.mem()
	size := int64(len(b))

	if size == 0 {
		if a.head != format.NoChunk || a.tail != format.NoChunk {
			return fmt.Errorf("%w: empty region with head=%d tail=%d", ErrCorrupt, a.head, a.tail)
		}
		if a.free.len() != 0 {
			return fmt.Errorf("%w: empty region with %d indexed chunks", ErrCorrupt, a.free.len())
		}
		return nil
	}
	if a.head != 0 {
		return fmt.Errorf("%w: head at %d", ErrCorrupt, a.head)
	}

	free := make(map[int64]bool)
	var (
		off, prevSize int64
		last          = int64(format.NoChunk)
		prevFree      bool
	)
	for off < size {
		ch, err := format.DecodeChunk(b, off)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if ch.PrevSize != prevSize {
			return fmt.Errorf("%w: chunk %d prev_size %d, want %d", ErrCorrupt, off, ch.PrevSize, prevSize)
		}
		if !ch.Used {
			if prevFree {
				return fmt.Errorf("%w: adjacent free chunks at %d and %d", ErrCorrupt, last, off)
			}
			free[off] = true
		}
		prevFree = !ch.Used
		prevSize = ch.Size
		last = off
		off += ch.Size
	}
	if last != a.tail {
		return fmt.Errorf("%w: tail at %d, last chunk at %d", ErrCorrupt, a.tail, last)
	}

	indexed := 0
	var bad error
	a.free.each(func(c int64) bool {
		indexed++
		if !free[c] {
			bad = fmt.Errorf("%w: indexed chunk %d is not free or is indexed twice", ErrCorrupt, c)
			return false
		}
		// A repeated entry finds its key already gone, which also stops cycles.
		delete(free, c)
		return true
	})
	if bad != nil {
		return bad
	}
	if len(free) != 0 || indexed != a.free.len() {
		return fmt.Errorf("%w: %d free chunks missing from the index (indexed %d, counted %d)",
			ErrCorrupt, len(free), indexed, a.free.len())
	}
	return nil
}

// DumpFreeList writes the free index, one chunk per line.
func (a *WorstFitAllocator) DumpFreeList(w io.Writer) {
	p := message.NewPrinter(language.English)
	chunks := a.FreeChunks()
	p.Fprintf(w, "free index: %d chunks\n", len(chunks))
	for i, c := range chunks {
		p.Fprintf(w, "  [%d] chunk=%#x size=%d payload=%#x\n", i, c.Offset, c.Size, uint64(c.Payload))
	}
}

// DumpChunks writes the physical chunk chain, one chunk per line.
func (a *WorstFitAllocator) DumpChunks(w io.Writer) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "heap: %d bytes\n", a.HeapSize())
	a.Walk(func(c ChunkInfo) bool {
		state := "free"
		if c.Used {
			state = "used"
		}
		p.Fprintf(w, "  chunk=%#x size=%d prev=%d %s\n", c.Offset, c.Size, c.PrevSize, state)
		return true
	})
}
