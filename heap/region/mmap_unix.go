//go:build linux || darwin

package region

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapBreak reserves an anonymous PROT_NONE mapping up front and commits
// pages with mprotect as the break advances. The reservation never moves,
// so the region is never relocated.
type MmapBreak struct {
	mem       []byte // full reservation
	brk       int64
	committed int64 // readable/writable prefix, a page multiple
	page      int64
}

// NewMmapBreak reserves reserve bytes of address space (rounded up to a page).
func NewMmapBreak(reserve int64) (Break, error) {
	page := int64(unix.Getpagesize())
	reserve = roundUp(reserve, page)
	if reserve <= 0 {
		return nil, fmt.Errorf("mmap break: reserve %d: %w", reserve, ErrBadDelta)
	}
	mem, err := unix.Mmap(-1, 0, int(reserve), unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap break: reserve %d bytes: %w", reserve, err)
	}
	return &MmapBreak{mem: mem, page: page}, nil
}

// Sbrk implements Break.
func (m *MmapBreak) Sbrk(delta int64) (int64, error) {
	old := m.brk
	if m.mem == nil {
		return old, ErrClosed
	}
	nb := old + delta
	switch {
	case delta == 0:
		return old, nil
	case nb < 0:
		return old, fmt.Errorf("sbrk(%d) below base: %w", delta, ErrBadDelta)
	case nb > int64(len(m.mem)):
		return old, fmt.Errorf("sbrk(%d) past reservation %d: %w", delta, len(m.mem), ErrExhausted)
	}

	want := roundUp(nb, m.page)
	switch {
	case want > m.committed:
		err := unix.Mprotect(m.mem[m.committed:want], unix.PROT_READ|unix.PROT_WRITE)
		if errors.Is(err, unix.ENOMEM) {
			return old, fmt.Errorf("commit %d bytes: %w: %w", want-m.committed, ErrExhausted, err)
		}
		if err != nil {
			return old, fmt.Errorf("commit %d bytes: %w", want-m.committed, err)
		}
	case want < m.committed:
		// Pages past the new break go back to the kernel; a later commit
		// maps them in zero-filled.
		tail := m.mem[want:m.committed]
		if err := unix.Madvise(tail, unix.MADV_DONTNEED); err != nil {
			return old, fmt.Errorf("release %d bytes: %w", len(tail), err)
		}
		if err := unix.Mprotect(tail, unix.PROT_NONE); err != nil {
			return old, fmt.Errorf("decommit %d bytes: %w", len(tail), err)
		}
	}
	m.committed = want
	m.brk = nb
	return old, nil
}

// Bytes implements Break.
func (m *MmapBreak) Bytes() []byte {
	return m.mem[:m.brk:m.brk]
}

// Committed returns the number of bytes currently mapped read/write.
func (m *MmapBreak) Committed() int64 {
	return m.committed
}

// Close implements Break.
func (m *MmapBreak) Close() error {
	if m.mem == nil {
		return nil
	}
	err := unix.Munmap(m.mem)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		err = nil
	}
	m.mem = nil
	m.brk = 0
	m.committed = 0
	return err
}
