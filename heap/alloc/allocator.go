package alloc

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joshuapare/heapkit/heap/region"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// doubleFreeExitCode is the status the process exits with on a detected
// double free, the same status an abort() produces.
const doubleFreeExitCode = 134

// WorstFitAllocator carves a region into chunks and hands out the largest
// free chunk that fits each request.
// - The free index is an intrusive list in the chunk headers (O(1) insert/remove)
// - Allocation is an O(n) scan of the free index
// - Boundary tags give O(1) access to both physical neighbors for coalescing.
type WorstFitAllocator struct {
	r     *region.Region
	owned bool // region was opened by New and is closed by Close

	free freeList

	// First and last chunk in the region, NoChunk while the region is empty.
	head int64
	tail int64

	config Config
	log    *slog.Logger
	stats  Stats

	// Called on a detected double free. Defaults to fatalExit.
	onFatal func(msg string)

	// Test hook: called before every region growth with the requested size.
	onGrow func(int64)
}

// New creates an allocator over r. A nil r reserves a fresh mmap region with
// the default configuration. r must be empty.
func New(r *region.Region, config *Config) (*WorstFitAllocator, error) {
	if config == nil {
		config = &DefaultConfig
	}
	cfg := config.withDefaults()

	owned := false
	if r == nil {
		var err error
		r, err = region.Open(nil)
		if err != nil {
			return nil, err
		}
		owned = true
	}
	if r.Size() != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrRegionInUse, r.Size())
	}

	a := &WorstFitAllocator{
		r:      r,
		owned:  owned,
		free:   newFreeList(headerLinks{r: r}),
		head:   format.NoChunk,
		tail:   format.NoChunk,
		config: cfg,
		log:    cfg.Logger,
	}
	a.onFatal = a.fatalExit
	return a, nil
}

// Alloc returns a payload of at least size bytes.
func (a *WorstFitAllocator) Alloc(size uint64) (Ptr, error) {
	a.stats.AllocCalls++

	need, err := requestSize(size)
	if err != nil {
		a.stats.AllocFails++
		return Nil, err
	}

	if c := a.worstFit(need); c != format.NoChunk {
		a.stats.AllocFastPath++
		p := a.fit(c, need)
		a.trace("alloc", "size", size, "chunk", c, "ptr", p)
		return p, nil
	}

	c, err := a.growChunk(need)
	if err != nil {
		a.stats.AllocFails++
		a.trace("alloc failed", "size", size, "err", err)
		return Nil, err
	}
	a.stats.AllocSlowPath++
	p := a.fit(c, need)
	a.trace("alloc", "size", size, "chunk", c, "ptr", p, "grew", true)
	return p, nil
}

// Free releases p. Free(Nil) does nothing. Passing a handle this allocator
// did not return is undefined.
func (a *WorstFitAllocator) Free(p Ptr) {
	if p == Nil {
		return
	}
	c := chunkOf(p)

	if a.config.DetectDoubleFree && (c < 0 || c+format.ChunkHeaderSize > a.r.Size()) {
		// The first free retracted the region past the chunk.
		a.onFatal(fmt.Sprintf("double free of %#x (chunk %#x released, heap %d bytes)", uint64(p), c, a.r.Size()))
		return
	}
	if a.config.DetectDoubleFree && !a.used(c) {
		a.onFatal(fmt.Sprintf("double free of %#x (chunk %#x, size %d)", uint64(p), c, a.size(c)))
		return
	}

	a.stats.FreeCalls++
	a.stats.BytesFreed += a.size(c)
	a.trace("free", "ptr", p, "chunk", c, "size", a.size(c))
	a.release(c)
}

// release marks c free, indexes it, merges it with free neighbors and
// applies the shrink policy.
func (a *WorstFitAllocator) release(c int64) {
	a.setUsed(c, false)
	a.free.insert(c)
	a.coalesce(c)
	a.trimTail()
}

// Realloc resizes p to size bytes.
//
// Shrinking happens in place; the cut-off tail is released only when it can
// stand as a chunk. Growing moves the data to a fresh chunk and frees p. On
// failure p is left untouched. Realloc(p, 0) frees p and returns Nil.
func (a *WorstFitAllocator) Realloc(p Ptr, size uint64) (Ptr, error) {
	if p == Nil {
		return a.Alloc(size)
	}
	if size == 0 {
		a.Free(p)
		return Nil, nil
	}

	a.stats.ReallocCalls++
	need, err := requestSize(size)
	if err != nil {
		return Nil, err
	}

	c := chunkOf(p)
	if a.size(c) >= need {
		if r := a.carve(c, need); r != format.NoChunk {
			a.stats.BytesFreed += a.size(r)
			a.release(r)
		}
		a.stats.ReallocInPlace++
		a.trace("realloc in place", "ptr", p, "size", size)
		return p, nil
	}

	np, err := a.Alloc(size)
	if err != nil {
		return Nil, err
	}
	copy(a.Bytes(np), a.Bytes(p))
	a.Free(p)

	a.stats.ReallocMoves++
	a.trace("realloc moved", "from", p, "to", np, "size", size)
	return np, nil
}

// Calloc returns a zero-filled payload of count*elemSize bytes. A product
// that overflows 64 bits fails with ErrOverflow.
func (a *WorstFitAllocator) Calloc(count, elemSize uint64) (Ptr, error) {
	total, ok := buf.MulOverflowSafe(count, elemSize)
	if !ok {
		return Nil, fmt.Errorf("%w: %d * %d", ErrOverflow, count, elemSize)
	}

	p, err := a.Alloc(total)
	if err != nil {
		return Nil, err
	}
	clear(a.Bytes(p))
	return p, nil
}

// Bytes returns the usable payload of p. The slice is valid until p is freed
// or reallocated.
func (a *WorstFitAllocator) Bytes(p Ptr) []byte {
	c := chunkOf(p)
	end := c + a.size(c)
	return a.mem()[p:end:end]
}

// UsableSize returns the number of payload bytes behind p, which may exceed
// the size that was requested.
func (a *WorstFitAllocator) UsableSize(p Ptr) uint64 {
	if p == Nil {
		return 0
	}
	return uint64(a.size(chunkOf(p)) - format.ChunkHeaderSize)
}

// HeapSize returns the current region length in bytes.
func (a *WorstFitAllocator) HeapSize() int64 {
	return a.r.Size()
}

// Region returns the underlying region.
func (a *WorstFitAllocator) Region() *region.Region {
	return a.r
}

// Close forgets every chunk and closes the region if New opened it. The
// allocator must not be used afterwards.
func (a *WorstFitAllocator) Close() error {
	a.free.reset()
	a.head, a.tail = format.NoChunk, format.NoChunk
	if a.owned {
		return a.r.Close()
	}
	return nil
}

func requestSize(size uint64) (int64, error) {
	if size > format.MaxRequest {
		return 0, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	return format.ChunkSizeFor(int64(size)), nil
}

func (a *WorstFitAllocator) trace(msg string, args ...any) {
	if a.config.DebugTracing {
		a.log.Debug(msg, args...)
	}
}

// fatalExit reports a broken caller contract and terminates the process.
// The free index cannot be trusted once a free chunk is freed again.
func (a *WorstFitAllocator) fatalExit(msg string) {
	a.log.Error("heap corrupted", "reason", msg)
	fmt.Fprintf(os.Stderr, "heapkit: %s\n", msg)
	os.Exit(doubleFreeExitCode)
}
