package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

// mapLinks keeps link fields in maps so the list can be tested without a region.
type mapLinks struct {
	next map[int64]int64
	prev map[int64]int64
}

func newMapLinks() *mapLinks {
	return &mapLinks{next: map[int64]int64{}, prev: map[int64]int64{}}
}

func (m *mapLinks) nextFree(c int64) int64    { return m.next[c] }
func (m *mapLinks) setNextFree(c, next int64) { m.next[c] = next }
func (m *mapLinks) prevFree(c int64) int64    { return m.prev[c] }
func (m *mapLinks) setPrevFree(c, prev int64) { m.prev[c] = prev }

func listOrder(f *freeList) []int64 {
	var out []int64
	f.each(func(c int64) bool {
		out = append(out, c)
		return true
	})
	return out
}

func TestFreeListInsertPushesFront(t *testing.T) {
	f := newFreeList(newMapLinks())

	f.insert(10)
	f.insert(20)
	f.insert(30)

	assert.Equal(t, []int64{30, 20, 10}, listOrder(&f))
	assert.Equal(t, 3, f.len())
}

func TestFreeListRemove(t *testing.T) {
	tests := []struct {
		name   string
		remove int64
		want   []int64
	}{
		{"head", 30, []int64{20, 10}},
		{"middle", 20, []int64{30, 10}},
		{"tail", 10, []int64{30, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newMapLinks()
			f := newFreeList(l)
			f.insert(10)
			f.insert(20)
			f.insert(30)

			f.remove(tt.remove)

			assert.Equal(t, tt.want, listOrder(&f))
			assert.Equal(t, 2, f.len())
			assert.Equal(t, int64(format.NoChunk), l.next[tt.remove], "removed entry keeps no links")
			assert.Equal(t, int64(format.NoChunk), l.prev[tt.remove])

			// Backward links stay consistent with the forward walk.
			order := listOrder(&f)
			assert.Equal(t, int64(format.NoChunk), l.prev[order[0]])
			assert.Equal(t, order[0], l.prev[order[1]])
		})
	}
}

func TestFreeListRemoveLast(t *testing.T) {
	f := newFreeList(newMapLinks())
	f.insert(8)
	f.remove(8)

	assert.Empty(t, listOrder(&f))
	assert.Equal(t, 0, f.len())
	assert.Equal(t, int64(format.NoChunk), f.head)
}

func TestFreeListContainsAndEachStops(t *testing.T) {
	f := newFreeList(newMapLinks())
	for _, c := range []int64{0, 40, 80, 120} {
		f.insert(c)
	}

	assert.True(t, f.contains(40))
	assert.False(t, f.contains(160))

	seen := 0
	f.each(func(int64) bool {
		seen++
		return seen < 2
	})
	assert.Equal(t, 2, seen, "each stops when fn returns false")

	f.reset()
	require.Equal(t, 0, f.len())
	assert.False(t, f.contains(40))
}

func TestFreeListInHeaders(t *testing.T) {
	a := newTestAllocator(t, 1<<16, 8)

	// Three separated free chunks.
	p1 := mustAlloc(t, a, 64)
	mustAlloc(t, a, 8)
	p2 := mustAlloc(t, a, 64)
	mustAlloc(t, a, 8)
	p3 := mustAlloc(t, a, 64)
	mustAlloc(t, a, 8)

	a.Free(p1)
	a.Free(p2)
	a.Free(p3)

	chunks := a.FreeChunks()
	require.Len(t, chunks, 3)
	assert.Equal(t, chunkOf(p3), chunks[0].Offset, "most recently freed chunk is first")
	assert.Equal(t, chunkOf(p2), chunks[1].Offset)
	assert.Equal(t, chunkOf(p1), chunks[2].Offset)

	b := a.mem()
	assert.Equal(t, chunkOf(p2), format.NextFree(b, chunkOf(p3)))
	assert.Equal(t, chunkOf(p3), format.PrevFree(b, chunkOf(p2)))
	assertInvariants(t, a)
}
