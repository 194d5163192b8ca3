package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free chunk was large enough and growing the region failed.
	ErrNoSpace = errors.New("alloc: no free chunk large enough")

	// ErrTooLarge indicates a request above format.MaxRequest.
	ErrTooLarge = errors.New("alloc: request too large")

	// ErrOverflow indicates that count * elemSize does not fit in 64 bits.
	ErrOverflow = errors.New("alloc: size computation overflows")

	// ErrCorrupt indicates that Check found a broken heap invariant.
	ErrCorrupt = errors.New("alloc: heap corrupt")

	// ErrRegionInUse indicates New was handed a region that already has bytes in it.
	ErrRegionInUse = errors.New("alloc: region not empty")
)
