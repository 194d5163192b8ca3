package format

// Align8 returns n aligned up to the next 8-byte boundary.
// Used for chunk sizes and payload lengths.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(16) = 16
func Align8(n int64) int64 {
	return (n + AlignmentMask) &^ AlignmentMask
}

// ChunkSizeFor returns the total chunk size needed to hold a payload of n bytes.
// Requests below MinPayload are clamped up first.
//
// Example:
//
//	ChunkSizeFor(0)   = 40
//	ChunkSizeFor(100) = 136
func ChunkSizeFor(n int64) int64 {
	if n < MinPayload {
		n = MinPayload
	}
	return Align8(n) + ChunkHeaderSize
}

// IsAligned reports whether off sits on an 8-byte boundary.
func IsAligned(off int64) bool {
	return off&AlignmentMask == 0
}
