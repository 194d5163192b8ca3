//go:build !linux && !darwin

package region

// NewMmapBreak falls back to a MemBreak of the reservation size when
// anonymous reserve-then-commit mappings are not available.
func NewMmapBreak(reserve int64) (Break, error) {
	return NewMemBreak(reserve), nil
}
