package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/region"
	"github.com/joshuapare/heapkit/internal/format"
)

// ============================================================================
// Allocator Setup Utilities
// ============================================================================

// newTestAllocator creates an allocator over a MemBreak of the given
// capacity. A batch of 8 makes every growth exactly the size of the request,
// which keeps chunk offsets predictable. A detected double free fails the
// test instead of exiting.
func newTestAllocator(t testing.TB, capacity, batch int64, opts ...func(*Config)) *WorstFitAllocator {
	t.Helper()

	r, err := region.New(region.NewMemBreak(capacity), &region.Config{Batch: batch})
	require.NoError(t, err, "failed to create region")

	cfg := Config{
		DetectDoubleFree: true,
		ShrinkThreshold:  format.MinShrinkRelease,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	a, err := New(r, &cfg)
	require.NoError(t, err, "failed to create allocator")
	a.onFatal = func(msg string) {
		t.Fatalf("unexpected fatal: %s", msg)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// setupGrowCounter installs a growth hook and returns a pointer to the count.
func setupGrowCounter(a *WorstFitAllocator) *int {
	count := 0
	a.onGrow = func(int64) { count++ }
	return &count
}

// ============================================================================
// Assertion Utilities
// ============================================================================

// assertInvariants fails the test if any heap invariant is broken.
func assertInvariants(t testing.TB, a *WorstFitAllocator) {
	t.Helper()
	require.NoError(t, a.Check(), "heap invariants violated")
}

func mustAlloc(t testing.TB, a *WorstFitAllocator, size uint64) Ptr {
	t.Helper()
	p, err := a.Alloc(size)
	require.NoError(t, err, "Alloc(%d)", size)
	require.NotEqual(t, Nil, p)
	return p
}

// fill writes a recognizable pattern derived from tag into b.
func fill(b []byte, tag byte) {
	for i := range b {
		b[i] = tag + byte(i)
	}
}

// requirePattern checks the first n bytes of b against the fill pattern.
func requirePattern(t testing.TB, b []byte, n int, tag byte) {
	t.Helper()
	require.GreaterOrEqual(t, len(b), n)
	for i := range n {
		if b[i] != tag+byte(i) {
			require.Failf(t, "pattern mismatch", "byte %d: got %#x, want %#x", i, b[i], tag+byte(i))
		}
	}
}

func freeSizes(a *WorstFitAllocator) []int64 {
	var sizes []int64
	for _, c := range a.FreeChunks() {
		sizes = append(sizes, c.Size)
	}
	return sizes
}
