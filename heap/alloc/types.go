package alloc

// Ptr is a payload handle: the byte offset of the payload from the region base.
type Ptr uint64

// Nil is the null payload handle.
const Nil Ptr = 0

// Allocator defines the dynamic-memory API.
//
// Implementations:
//   - WorstFitAllocator: worst-fit chunk allocator over a heap region
//
// A caller can bind these four methods to whatever entry points it exposes.
type Allocator interface {
	// Alloc returns a payload of at least size bytes, 8-byte aligned.
	// Alloc(0) returns a minimal payload.
	Alloc(size uint64) (Ptr, error)

	// Free releases a payload. Free(Nil) is a no-op.
	Free(p Ptr)

	// Realloc resizes a payload, preserving min(old, size) bytes.
	// Realloc(Nil, n) behaves as Alloc(n); Realloc(p, 0) frees p and returns Nil.
	Realloc(p Ptr, size uint64) (Ptr, error)

	// Calloc returns a zero-filled payload of count*elemSize bytes.
	Calloc(count, elemSize uint64) (Ptr, error)
}

// ChunkInfo describes one chunk in the region.
type ChunkInfo struct {
	Offset   int64 // Chunk offset from the region base
	Size     int64 // Total size including header
	PrevSize int64 // Boundary tag
	Used     bool  // True if held by a caller
	Payload  Ptr   // Payload handle
}

var _ Allocator = (*WorstFitAllocator)(nil)
