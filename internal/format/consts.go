// Package format houses the low-level layout of the managed heap region: the
// chunk header that precedes every allocation (used or free), the alignment
// rules, and the little-endian field codec. Everything that turns a byte
// offset into a header field lives here so the allocator can work on chunk
// handles instead of raw address math.
package format

const (
	// Alignment is the word alignment every chunk and payload satisfies.
	Alignment = 8

	// AlignmentMask is the bitmask used for aligning to 8-byte boundaries (Alignment - 1).
	AlignmentMask = Alignment - 1

	// ChunkHeaderSize is the number of metadata bytes preceding every payload.
	//
	// Chunk header layout (little-endian):
	//
	//	Offset  Size  Description
	//	0x00    8     Chunk size including this header. Bit 0 is the used flag.
	//	0x08    8     Size of the physically preceding chunk (0 for the first chunk).
	//	0x10    8     Free-index forward link (chunk offset, NoChunk when unlinked).
	//	0x18    8     Free-index backward link.
	//	0x20    ...   Payload.
	ChunkHeaderSize = 0x20

	// MinPayload is the smallest payload ever handed out. Alloc(0) still
	// returns a pointer to this many bytes.
	MinPayload = 8

	// MinChunkSize is the smallest chunk that can exist in the region.
	// Split remainders below this are absorbed by the allocated chunk.
	MinChunkSize = ChunkHeaderSize + MinPayload

	// MinBrkIncrease is the default minimum region growth in bytes.
	MinBrkIncrease = 8192

	// MinShrinkRelease is the default minimum trailing free run that is
	// returned by retracting the region.
	MinShrinkRelease = 2 * MinBrkIncrease

	// MaxRequest is the largest payload accepted by a single allocation.
	MaxRequest = 1 << 40

	// NoChunk marks an empty free-index link.
	NoChunk = -1
)

// Chunk header field offsets.
const (
	ChunkSizeOffset     = 0x00
	ChunkPrevSizeOffset = 0x08
	ChunkNextFreeOffset = 0x10
	ChunkPrevFreeOffset = 0x18

	// ChunkUsedBit is stored in the low bit of the size field.
	ChunkUsedBit = 1
)
