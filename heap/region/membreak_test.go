package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemBreakSbrk(t *testing.T) {
	m := NewMemBreak(64)
	assert.Equal(t, int64(64), m.Cap())

	old, err := m.Sbrk(16)
	require.NoError(t, err)
	assert.Equal(t, int64(0), old)
	assert.Len(t, m.Bytes(), 16)

	old, err = m.Sbrk(48)
	require.NoError(t, err)
	assert.Equal(t, int64(16), old)

	_, err = m.Sbrk(1)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Len(t, m.Bytes(), 64, "failed move leaves the break in place")

	_, err = m.Sbrk(-65)
	require.ErrorIs(t, err, ErrBadDelta)

	m.Bytes()[40] = 7
	old, err = m.Sbrk(-32)
	require.NoError(t, err)
	assert.Equal(t, int64(64), old)
	assert.Len(t, m.Bytes(), 32)

	_, err = m.Sbrk(32)
	require.NoError(t, err)
	assert.Equal(t, byte(0), m.Bytes()[40], "retracted bytes are zeroed")
}

func TestMemBreakClosed(t *testing.T) {
	m := NewMemBreak(64)
	require.NoError(t, m.Close())
	_, err := m.Sbrk(8)
	require.ErrorIs(t, err, ErrClosed)
}
