package alloc

import "github.com/joshuapare/heapkit/internal/format"

// links reads and writes the free-index link fields of a chunk.
type links interface {
	nextFree(c int64) int64
	setNextFree(c, next int64)
	prevFree(c int64) int64
	setPrevFree(c, prev int64)
}

// freeList is the free index: an intrusive doubly-linked list threaded
// through the chunk headers. It is the only code that splices links.
type freeList struct {
	l    links
	head int64
	n    int
}

func newFreeList(l links) freeList {
	return freeList{l: l, head: format.NoChunk}
}

// insert pushes c at the front of the list.
func (f *freeList) insert(c int64) {
	f.l.setPrevFree(c, format.NoChunk)
	f.l.setNextFree(c, f.head)
	if f.head != format.NoChunk {
		f.l.setPrevFree(f.head, c)
	}
	f.head = c
	f.n++
}

// remove unlinks c in O(1). c must be in the list.
func (f *freeList) remove(c int64) {
	prev := f.l.prevFree(c)
	next := f.l.nextFree(c)

	if prev != format.NoChunk {
		f.l.setNextFree(prev, next)
	} else {
		f.head = next
	}
	if next != format.NoChunk {
		f.l.setPrevFree(next, prev)
	}

	f.l.setNextFree(c, format.NoChunk)
	f.l.setPrevFree(c, format.NoChunk)
	f.n--
}

// each calls fn for every chunk, front to back, until fn returns false.
func (f *freeList) each(fn func(c int64) bool) {
	for c := f.head; c != format.NoChunk; c = f.l.nextFree(c) {
		if !fn(c) {
			return
		}
	}
}

// contains walks the list looking for c.
func (f *freeList) contains(c int64) bool {
	found := false
	f.each(func(x int64) bool {
		found = x == c
		return !found
	})
	return found
}

func (f *freeList) len() int { return f.n }

func (f *freeList) reset() {
	f.head = format.NoChunk
	f.n = 0
}
