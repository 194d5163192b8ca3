package region

import "errors"

var (
	// ErrExhausted indicates the break primitive refused to move past its limit.
	ErrExhausted = errors.New("region: address space exhausted")

	// ErrGrowFail indicates that extending the region failed. It wraps the cause.
	ErrGrowFail = errors.New("region: grow failed")

	// ErrShrinkFail indicates that retracting the region failed. It wraps the cause.
	ErrShrinkFail = errors.New("region: shrink failed")

	// ErrBadDelta indicates a break move below the base or a non-positive shrink.
	ErrBadDelta = errors.New("region: bad break delta")

	// ErrClosed indicates use of a break after Close.
	ErrClosed = errors.New("region: break closed")
)
