package region

import "fmt"

// Break is the program-break primitive the region is built on. It owns one
// linear address range [0, break) that only moves at its end.
type Break interface {
	// Sbrk moves the break by delta bytes (negative retracts) and returns the
	// previous break. On error the break is left where it was.
	Sbrk(delta int64) (int64, error)

	// Bytes returns the memory in [0, break). The slice stays valid until
	// the next Sbrk call that retracts past it.
	Bytes() []byte

	// Close releases the backing memory.
	Close() error
}

// MemBreak is a Break over a byte slice allocated once at construction.
// It never relocates, so payload slices handed out earlier stay valid.
type MemBreak struct {
	buf []byte
	brk int64
}

// NewMemBreak returns a break that can grow up to capacity bytes.
func NewMemBreak(capacity int64) *MemBreak {
	return &MemBreak{buf: make([]byte, capacity)}
}

// Sbrk implements Break. Retracted bytes are zeroed so that memory handed
// back by a later growth reads as fresh.
func (m *MemBreak) Sbrk(delta int64) (int64, error) {
	old := m.brk
	if m.buf == nil {
		return old, ErrClosed
	}
	nb := old + delta
	switch {
	case delta == 0:
		return old, nil
	case nb < 0:
		return old, fmt.Errorf("sbrk(%d) below base: %w", delta, ErrBadDelta)
	case nb > int64(len(m.buf)):
		return old, fmt.Errorf("sbrk(%d) past capacity %d: %w", delta, len(m.buf), ErrExhausted)
	}
	if nb < old {
		clear(m.buf[nb:old])
	}
	m.brk = nb
	return old, nil
}

// Bytes implements Break.
func (m *MemBreak) Bytes() []byte {
	return m.buf[:m.brk:m.brk]
}

// Close implements Break.
func (m *MemBreak) Close() error {
	m.buf = nil
	m.brk = 0
	return nil
}

// Cap returns the capacity the break was created with.
func (m *MemBreak) Cap() int64 {
	return int64(len(m.buf))
}
