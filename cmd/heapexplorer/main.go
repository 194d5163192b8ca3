package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/region"
	"github.com/joshuapare/heapkit/internal/logger"
)

var version = "dev"

func main() {
	debugLog := flag.StringP("debug", "d", "", "Append allocator trace records as JSON lines to this file")
	backend := flag.String("backend", "mem", "Break implementation: mem or mmap")
	capacity := flag.Int64("capacity", 64<<20, "Bytes the break may grow to")
	batch := flag.Int64("batch", 0, "Minimum region growth in bytes (0 = default)")
	seed := flag.Uint64("seed", 1, "Random seed for allocation sizes")
	showVersion := flag.BoolP("version", "v", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("heapexplorer %s\n", version)
		return
	}

	// The TUI owns the terminal, so tracing only ever goes to a file.
	if err := logger.Init(logger.Options{
		Enabled: *debugLog != "",
		LogFile: *debugLog,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	a, err := openHeap(*backend, *capacity, *batch, *debugLog != "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = a.Close()
		_ = a.Region().Close()
	}()

	logger.Info("starting heapexplorer", "backend", *backend, "capacity", *capacity)

	p := tea.NewProgram(NewModel(a, *seed), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func openHeap(backend string, capacity, batch int64, trace bool) (*alloc.WorstFitAllocator, error) {
	var brk region.Break
	switch backend {
	case "mem":
		brk = region.NewMemBreak(capacity)
	case "mmap":
		b, err := region.NewMmapBreak(capacity)
		if err != nil {
			return nil, err
		}
		brk = b
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}

	r, err := region.New(brk, &region.Config{Batch: batch})
	if err != nil {
		_ = brk.Close()
		return nil, err
	}

	cfg := alloc.DefaultConfig
	cfg.DebugTracing = trace
	cfg.Logger = logger.L
	a, err := alloc.New(r, &cfg)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	return a, nil
}
