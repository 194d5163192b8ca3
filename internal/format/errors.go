package format

import "errors"

var (
	// ErrTruncated indicates the region lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated region")
	// ErrBadSize indicates a header declared a size below MinChunkSize or off alignment.
	ErrBadSize = errors.New("format: bad chunk size")
)
