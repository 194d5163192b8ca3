package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// growChunk extends the region by at least need bytes and mints one used
// chunk over the new space. The chunk is not in the free index. On failure
// nothing changes.
func (a *WorstFitAllocator) growChunk(need int64) (int64, error) {
	if a.onGrow != nil {
		a.onGrow(need)
	}

	off, n, err := a.r.Grow(need)
	if err != nil {
		return format.NoChunk, fmt.Errorf("%w: %w", ErrNoSpace, err)
	}

	prevSize := int64(0)
	if a.tail != format.NoChunk {
		prevSize = a.size(a.tail)
	}
	format.PutChunk(a.mem(), off, n, prevSize, true)

	if a.head == format.NoChunk {
		a.head = off
	}
	a.tail = off

	a.stats.GrowCalls++
	a.stats.GrowBytes += n
	if a.config.DebugTracing {
		a.log.Debug("grow", "chunk", off, "bytes", n, "heap", a.r.Size())
	}
	return off, nil
}

// trimTail applies the shrink policy: when the tail is free and the trailing
// free run is at least ShrinkThreshold bytes, the run is unindexed and the
// region is retracted by its length. A refused retraction puts the run back.
func (a *WorstFitAllocator) trimTail() {
	t := a.tail
	if t == format.NoChunk || a.used(t) {
		return
	}

	// Coalescing leaves at most one free chunk at the tail, but the walk
	// does not depend on it.
	start, run := t, int64(0)
	for c := t; c != format.NoChunk && !a.used(c); c = a.prev(c) {
		start = c
		run += a.size(c)
	}
	if run < a.config.ShrinkThreshold {
		return
	}

	var released []int64
	for c := start; c != format.NoChunk; c = a.next(c) {
		released = append(released, c)
	}
	before := a.prev(start)

	for _, c := range released {
		a.free.remove(c)
	}
	if err := a.r.Shrink(run); err != nil {
		for _, c := range released {
			a.free.insert(c)
		}
		a.stats.ShrinkFails++
		if a.config.DebugTracing {
			a.log.Warn("shrink refused", "bytes", run, "heap", a.r.Size(), "err", err)
		}
		return
	}

	a.tail = before
	if before == format.NoChunk {
		a.head = format.NoChunk
	}

	a.stats.ShrinkCalls++
	a.stats.ShrinkBytes += run
	if a.config.DebugTracing {
		a.log.Debug("shrink", "bytes", run, "heap", a.r.Size())
	}
}
