// Package alloc provides a worst-fit chunk allocator over a single
// contiguous heap region.
//
// # Overview
//
// This package implements the classic allocate / free / reallocate /
// zero-allocate API on top of a region that can only grow or shrink at its
// end (see package region). The region is partitioned into chunks that tile
// it without gaps; every chunk carries a 32-byte header with its size, a used
// flag, the size of its physical predecessor (a boundary tag), and the links
// that thread it through the free index while it is free.
//
// # Allocator Interface
//
// The core abstraction is the Allocator interface, which supports:
//
//   - Alloc(size): Return a payload of at least size bytes
//   - Free(p): Release a payload (Nil is a no-op)
//   - Realloc(p, size): Resize, moving the data only when needed
//   - Calloc(count, elemSize): Zero-filled allocation with an overflow check
//
// # Payload Handles
//
// A Ptr is the byte offset of a payload from the region base. Nil (0) never
// names a payload because the header always precedes it. Use Bytes to get
// the payload memory:
//
//	a, err := alloc.New(nil, nil)
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	p, err := a.Alloc(100)
//	if err != nil {
//	    return err
//	}
//	copy(a.Bytes(p), data)
//	a.Free(p)
//
// # Worst Fit
//
// Allocation scans the whole free index and takes the largest chunk that
// fits. The leftover after splitting is as large as possible, which keeps
// big residual fragments around for later large requests. Remainders smaller
// than MinChunkSize are not split off; the caller gets a slightly larger
// chunk instead.
//
// # Growth and Shrinking
//
// When no free chunk fits, the region grows by at least one batch (8KB by
// default) and a new chunk is minted at the old end. Freeing coalesces with
// both physical neighbors; when the free run at the tail reaches the shrink
// threshold (16KB by default) the region is retracted by the whole run.
//
// # Double Free
//
// With Config.DetectDoubleFree set, freeing a chunk that is already free
// prints a diagnostic and terminates the process with exit status 134.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally or use one allocator per goroutine.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/heap/region: Region growth and the break primitive
//   - github.com/joshuapare/heapkit/internal/format: Chunk header layout constants
package alloc
