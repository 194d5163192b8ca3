package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/region"
	"github.com/joshuapare/heapkit/internal/logger"
)

const (
	backendMem  = "mem"
	backendMmap = "mmap"
)

// heapFlags selects and sizes the break behind the allocator.
type heapFlags struct {
	backend  string
	capacity int64
	batch    int64
}

func (f *heapFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "backend", backendMem, "Break implementation: mem or mmap")
	cmd.Flags().Int64Var(&f.capacity, "capacity", 64<<20, "Bytes the break may grow to")
	cmd.Flags().Int64Var(&f.batch, "batch", 0, "Minimum region growth in bytes (0 = default)")
}

func (f *heapFlags) open() (*alloc.WorstFitAllocator, error) {
	if f.capacity <= 0 {
		return nil, fmt.Errorf("--capacity must be positive, got %d", f.capacity)
	}
	if f.batch < 0 {
		return nil, fmt.Errorf("--batch must not be negative, got %d", f.batch)
	}

	var brk region.Break
	switch f.backend {
	case backendMem:
		brk = region.NewMemBreak(f.capacity)
	case backendMmap:
		b, err := region.NewMmapBreak(f.capacity)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve heap: %w", err)
		}
		brk = b
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", f.backend, backendMem, backendMmap)
	}

	r, err := region.New(brk, &region.Config{Batch: f.batch})
	if err != nil {
		_ = brk.Close()
		return nil, err
	}

	cfg := alloc.DefaultConfig
	cfg.DebugTracing = cfg.DebugTracing || verbose || logFile != ""
	cfg.Logger = logger.L

	a, err := alloc.New(r, &cfg)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	return a, nil
}

// closeHeap releases the allocator and the break behind it.
func closeHeap(a *alloc.WorstFitAllocator) {
	_ = a.Close()
	_ = a.Region().Close()
}
