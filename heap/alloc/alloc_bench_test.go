package alloc

import (
	"math/rand/v2"
	"strconv"
	"testing"
)

func BenchmarkAllocFree(b *testing.B) {
	for _, size := range []uint64{16, 256, 4096} {
		b.Run(sizeName(size), func(b *testing.B) {
			a := newTestAllocator(b, 64<<20, 0)
			b.ReportAllocs()
			for b.Loop() {
				p, err := a.Alloc(size)
				if err != nil {
					b.Fatal(err)
				}
				a.Free(p)
			}
		})
	}
}

// BenchmarkWorstFitScan measures allocation against a long free index.
func BenchmarkWorstFitScan(b *testing.B) {
	for _, n := range []int{16, 256, 4096} {
		b.Run(sizeName(uint64(n)), func(b *testing.B) {
			a := newTestAllocator(b, 256<<20, 0)

			// Alternate used and free chunks so nothing coalesces.
			for range n {
				p, _ := a.Alloc(64)
				_, _ = a.Alloc(8)
				a.Free(p)
			}

			for b.Loop() {
				p, err := a.Alloc(32)
				if err != nil {
					b.Fatal(err)
				}
				a.Free(p)
			}
		})
	}
}

func BenchmarkMixedWorkload(b *testing.B) {
	a := newTestAllocator(b, 256<<20, 0)
	rng := rand.New(rand.NewPCG(7, 7))
	ptrs := make([]Ptr, 0, 1024)

	for b.Loop() {
		if len(ptrs) < 1024 && rng.IntN(2) == 0 {
			p, err := a.Alloc(uint64(rng.IntN(2048)))
			if err != nil {
				b.Fatal(err)
			}
			ptrs = append(ptrs, p)
			continue
		}
		if len(ptrs) == 0 {
			continue
		}
		i := rng.IntN(len(ptrs))
		a.Free(ptrs[i])
		ptrs[i] = ptrs[len(ptrs)-1]
		ptrs = ptrs[:len(ptrs)-1]
	}
}

func sizeName(n uint64) string {
	if n >= 1<<10 && n%(1<<10) == 0 {
		return strconv.FormatUint(n>>10, 10) + "K"
	}
	return strconv.FormatUint(n, 10)
}
