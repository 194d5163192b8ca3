package alloc

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap/region"
)

// Stats holds allocator counters.
type Stats struct {
	AllocCalls     int   // Total Alloc() calls, including those made by Realloc and Calloc
	AllocFastPath  int   // Allocations served from the free index
	AllocSlowPath  int   // Allocations that required growth
	AllocFails     int   // Allocations that returned an error
	FreeCalls      int   // Free() calls that released a chunk
	ReallocCalls   int   // Realloc() calls on a live payload with a non-zero size
	ReallocInPlace int   // Reallocs served without moving
	ReallocMoves   int   // Reallocs that copied to a new chunk
	BytesAllocated int64 // Total chunk bytes handed out (including headers)
	BytesFreed     int64 // Total chunk bytes returned

	SplitCount       int // Chunk splits
	CoalesceForward  int // Merges with the following chunk
	CoalesceBackward int // Merges with the preceding chunk

	GrowCalls   int   // Chunks minted by region growth
	GrowBytes   int64 // Bytes added by growth
	ShrinkCalls int   // Tail runs released
	ShrinkBytes int64 // Bytes released by retraction
	ShrinkFails int   // Retractions refused by the region

	// Snapshot at the time Stats() was called.
	HeapSize   int64
	FreeChunks int
	FreeBytes  int64

	Region region.Stats
}

// Stats returns the current counters plus a snapshot of the heap.
func (a *WorstFitAllocator) Stats() Stats {
	s := a.stats
	s.HeapSize = a.r.Size()
	s.FreeChunks = a.free.len()
	a.free.each(func(c int64) bool {
		s.FreeBytes += a.size(c)
		return true
	})
	s.Region = a.r.Stats()
	return s
}

// PrintStats writes a human-readable summary of Stats to w.
func (a *WorstFitAllocator) PrintStats(w io.Writer) {
	s := a.Stats()
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "=== Allocator Statistics ===\n")
	p.Fprintf(w, "Heap size:        %d bytes\n", s.HeapSize)
	p.Fprintf(w, "Free chunks:      %d (%d bytes)\n", s.FreeChunks, s.FreeBytes)
	p.Fprintf(w, "Alloc calls:      %d (fast %d, slow %d, failed %d)\n",
		s.AllocCalls, s.AllocFastPath, s.AllocSlowPath, s.AllocFails)
	p.Fprintf(w, "Free calls:       %d\n", s.FreeCalls)
	p.Fprintf(w, "Realloc calls:    %d (in place %d, moved %d)\n",
		s.ReallocCalls, s.ReallocInPlace, s.ReallocMoves)
	p.Fprintf(w, "Bytes allocated:  %d\n", s.BytesAllocated)
	p.Fprintf(w, "Bytes freed:      %d\n", s.BytesFreed)
	p.Fprintf(w, "Splits:           %d\n", s.SplitCount)
	p.Fprintf(w, "Coalesce:         %d forward, %d backward\n", s.CoalesceForward, s.CoalesceBackward)
	p.Fprintf(w, "Grow:             %d calls, %d bytes\n", s.GrowCalls, s.GrowBytes)
	p.Fprintf(w, "Shrink:           %d calls, %d bytes, %d refused\n", s.ShrinkCalls, s.ShrinkBytes, s.ShrinkFails)
}
