package format

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Chunk is a decoded view of one chunk header in the region.
type Chunk struct {
	Offset   int64 // Offset of the header from the region base
	Size     int64 // Total size including header
	PrevSize int64 // Boundary tag of the preceding chunk, 0 for the first chunk
	Used     bool  // True while the chunk is held by a caller
	NextFree int64 // Free-index links, NoChunk when unset
	PrevFree int64
}

// PayloadLen returns the number of usable payload bytes in the chunk.
func (c Chunk) PayloadLen() int64 {
	return c.Size - ChunkHeaderSize
}

// DecodeChunk decodes the header at off and validates that the declared size
// fits inside b.
func DecodeChunk(b []byte, off int64) (Chunk, error) {
	if off < 0 || !buf.Has(b, int(off), ChunkHeaderSize) {
		return Chunk{}, fmt.Errorf("chunk at %d: %w", off, ErrTruncated)
	}
	size := ChunkSize(b, off)
	if size < MinChunkSize || !IsAligned(size) {
		return Chunk{}, fmt.Errorf("chunk at %d: %w (size %d)", off, ErrBadSize, size)
	}
	if !buf.Has(b, int(off), int(size)) {
		return Chunk{}, fmt.Errorf("chunk at %d: %w (size %d, region %d)", off, ErrTruncated, size, len(b))
	}
	return Chunk{
		Offset:   off,
		Size:     size,
		PrevSize: PrevSize(b, off),
		Used:     ChunkUsed(b, off),
		NextFree: NextFree(b, off),
		PrevFree: PrevFree(b, off),
	}, nil
}

// ChunkSize returns the size field of the chunk at off with the used bit masked out.
func ChunkSize(b []byte, off int64) int64 {
	return int64(ReadU64(b, off+ChunkSizeOffset) &^ ChunkUsedBit)
}

// ChunkUsed reports whether the chunk at off carries the used flag.
func ChunkUsed(b []byte, off int64) bool {
	return ReadU64(b, off+ChunkSizeOffset)&ChunkUsedBit != 0
}

// PutChunkSize writes the size field and used flag of the chunk at off.
func PutChunkSize(b []byte, off, size int64, used bool) {
	v := uint64(size)
	if used {
		v |= ChunkUsedBit
	}
	PutU64(b, off+ChunkSizeOffset, v)
}

// SetChunkUsed flips the used flag without touching the size.
func SetChunkUsed(b []byte, off int64, used bool) {
	PutChunkSize(b, off, ChunkSize(b, off), used)
}

// PrevSize returns the boundary tag of the chunk at off.
func PrevSize(b []byte, off int64) int64 {
	return ReadI64(b, off+ChunkPrevSizeOffset)
}

// PutPrevSize writes the boundary tag of the chunk at off.
func PutPrevSize(b []byte, off, size int64) {
	PutI64(b, off+ChunkPrevSizeOffset, size)
}

// NextFree returns the forward free-index link of the chunk at off.
func NextFree(b []byte, off int64) int64 {
	return ReadI64(b, off+ChunkNextFreeOffset)
}

// PutNextFree writes the forward free-index link of the chunk at off.
func PutNextFree(b []byte, off, next int64) {
	PutI64(b, off+ChunkNextFreeOffset, next)
}

// PrevFree returns the backward free-index link of the chunk at off.
func PrevFree(b []byte, off int64) int64 {
	return ReadI64(b, off+ChunkPrevFreeOffset)
}

// PutPrevFree writes the backward free-index link of the chunk at off.
func PutPrevFree(b []byte, off, prev int64) {
	PutI64(b, off+ChunkPrevFreeOffset, prev)
}

// PutChunk initializes a full header. Links are reset to NoChunk.
func PutChunk(b []byte, off, size, prevSize int64, used bool) {
	PutChunkSize(b, off, size, used)
	PutPrevSize(b, off, prevSize)
	PutNextFree(b, off, NoChunk)
	PutPrevFree(b, off, NoChunk)
}

// PayloadOffset converts a chunk offset into the offset of its payload.
func PayloadOffset(chunk int64) int64 {
	return chunk + ChunkHeaderSize
}

// ChunkOffset converts a payload offset back into its chunk offset.
func ChunkOffset(payload int64) int64 {
	return payload - ChunkHeaderSize
}
