// Package region manages the single contiguous address range the heap
// allocator carves chunks from.
//
// # Overview
//
// A Region sits on top of a Break: a primitive that can only extend or
// retract the end of one linear range. Growth is batched so that many small
// allocations share one break move; retraction only ever happens at the tail
// and only when the allocator asks for it.
//
// # Implementations
//
// MmapBreak: production break (linux, darwin)
//
//   - Reserves address space once with a PROT_NONE anonymous mapping
//   - Commits and releases whole pages with mprotect/madvise
//   - Never relocates the range
//
// MemBreak: a fixed-capacity byte slice, used for tests and on platforms
// without the mmap break.
//
// # Offsets
//
// All offsets are relative to the region base. The base is 8-byte aligned,
// so any 8-aligned offset is an 8-aligned address.
//
// # Thread Safety
//
// Region instances are not thread-safe. The owning allocator serializes access.
package region

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

// DefaultReserve is the address space reserved by Open when Config.Reserve is zero.
const DefaultReserve = 1 << 30

// Config controls region growth.
type Config struct {
	// Batch is the minimum number of bytes added per growth.
	// Zero means format.MinBrkIncrease.
	Batch int64

	// Reserve is the address space reserved by Open for the mmap break.
	// Zero means DefaultReserve. Ignored by New.
	Reserve int64
}

// DefaultConfig is used when a nil Config is passed.
var DefaultConfig = Config{
	Batch:   format.MinBrkIncrease,
	Reserve: DefaultReserve,
}

// Stats counts break moves made by the region.
type Stats struct {
	GrowCalls   int   // Successful Grow() calls
	GrowBytes   int64 // Total bytes added
	GrowFails   int   // Grow() calls refused by the break
	ShrinkCalls int   // Successful Shrink() calls
	ShrinkBytes int64 // Total bytes released
	ShrinkFails int   // Shrink() calls refused by the break
}

// Region is the heap region: [base, base+size) of the underlying break.
type Region struct {
	brk   Break
	batch int64
	base  int64
	size  int64
	stats Stats

	// Test hook: called after a successful growth with the increment.
	onGrow func(int64)
}

// New wraps an existing break. The region starts at the current break,
// padded up to the alignment boundary if needed.
func New(brk Break, config *Config) (*Region, error) {
	if config == nil {
		config = &DefaultConfig
	}
	batch := config.Batch
	if batch <= 0 {
		batch = format.MinBrkIncrease
	}
	batch = format.Align8(batch)

	cur, err := brk.Sbrk(0)
	if err != nil {
		return nil, fmt.Errorf("region: read break: %w", err)
	}
	base := format.Align8(cur)
	if pad := base - cur; pad > 0 {
		if _, err := brk.Sbrk(pad); err != nil {
			return nil, fmt.Errorf("region: align base: %w", err)
		}
	}

	return &Region{brk: brk, batch: batch, base: base}, nil
}

// Open reserves a fresh mmap break and wraps it in a region.
func Open(config *Config) (*Region, error) {
	if config == nil {
		config = &DefaultConfig
	}
	reserve := config.Reserve
	if reserve <= 0 {
		reserve = DefaultReserve
	}
	brk, err := NewMmapBreak(reserve)
	if err != nil {
		return nil, err
	}
	r, err := New(brk, config)
	if err != nil {
		_ = brk.Close()
		return nil, err
	}
	return r, nil
}

// Grow extends the region by at least need bytes and never less than the
// batch size. It returns the offset of the first new byte and the number of
// bytes added. Failures are not retried.
func (r *Region) Grow(need int64) (int64, int64, error) {
	n := max(format.Align8(need), r.batch)

	old, err := r.brk.Sbrk(n)
	if err != nil {
		r.stats.GrowFails++
		logger.Debug("region grow refused", "bytes", n, "size", r.size, "err", err)
		return 0, 0, fmt.Errorf("%w: %d bytes: %w", ErrGrowFail, n, err)
	}

	off := old - r.base
	r.size += n
	r.stats.GrowCalls++
	r.stats.GrowBytes += n
	logger.Debug("region grow", "off", off, "bytes", n, "size", r.size)

	if r.onGrow != nil {
		r.onGrow(n)
	}
	return off, n, nil
}

// Shrink retracts the tail of the region by exactly n bytes.
//
// IMPORTANT: Caller must ensure no used chunk lives in the retracted range.
func (r *Region) Shrink(n int64) error {
	if n <= 0 || n > r.size {
		return fmt.Errorf("%w: shrink %d of %d: %w", ErrShrinkFail, n, r.size, ErrBadDelta)
	}
	if _, err := r.brk.Sbrk(-n); err != nil {
		r.stats.ShrinkFails++
		logger.Debug("region shrink refused", "bytes", n, "size", r.size, "err", err)
		return fmt.Errorf("%w: %d bytes: %w", ErrShrinkFail, n, err)
	}
	r.size -= n
	r.stats.ShrinkCalls++
	r.stats.ShrinkBytes += n
	logger.Debug("region shrink", "bytes", n, "size", r.size)
	return nil
}

// Bytes returns the region memory, indexed by region offset.
func (r *Region) Bytes() []byte {
	b := r.brk.Bytes()
	return b[r.base : r.base+r.size : r.base+r.size]
}

// Size returns the current region length in bytes.
func (r *Region) Size() int64 { return r.size }

// Batch returns the minimum growth increment.
func (r *Region) Batch() int64 { return r.batch }

// Stats returns the break move counters.
func (r *Region) Stats() Stats { return r.stats }

// Close releases the underlying break.
func (r *Region) Close() error {
	r.size = 0
	return r.brk.Close()
}

func roundUp(n, to int64) int64 {
	return (n + to - 1) / to * to
}
