package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
)

var (
	stressRounds int
	stressCount  int
	stressMax    uint64
	stressSeed   uint64
	stressCheck  bool
	stressDump   bool
	stressHeap   heapFlags
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressRounds, "rounds", 2, "Number of allocate-all/free-all rounds")
	cmd.Flags().IntVar(&stressCount, "count", 100, "Blocks allocated per round")
	cmd.Flags().Uint64Var(&stressMax, "max", 8192, "Block sizes are drawn from [0, max)")
	cmd.Flags().Uint64Var(&stressSeed, "seed", 1, "Random seed")
	cmd.Flags().BoolVar(&stressCheck, "check", false, "Verify heap invariants after every operation")
	cmd.Flags().BoolVar(&stressDump, "dump", false, "Print the free index when done")
	stressHeap.register(cmd)
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Allocate and free random blocks in rounds",
		Long: `The stress command allocates --count blocks of random size, frees
them all, and repeats for --rounds rounds, reporting the heap size around
each round.

Example:
  heapctl stress
  heapctl stress --rounds 10 --count 1000 --max 65536 --check
  heapctl stress --backend mmap --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
	return cmd
}

// StressRound reports one allocate-all/free-all round.
type StressRound struct {
	Round      int   `json:"round"`
	Allocs     int   `json:"allocs"`
	Frees      int   `json:"frees"`
	Bytes      int64 `json:"bytes"`
	HeapBefore int64 `json:"heap_before"`
	HeapPeak   int64 `json:"heap_peak"`
	HeapAfter  int64 `json:"heap_after"`
}

// StressReport is the JSON output of the stress command.
type StressReport struct {
	Backend string        `json:"backend"`
	Seed    uint64        `json:"seed"`
	Allocs  int           `json:"allocs"`
	Frees   int           `json:"frees"`
	Rounds  []StressRound `json:"rounds"`
	Stats   alloc.Stats   `json:"stats"`
}

func runStress() error {
	if stressCount < 0 || stressRounds < 0 {
		return errors.New("--count and --rounds must not be negative")
	}

	a, err := stressHeap.open()
	if err != nil {
		return err
	}
	defer closeHeap(a)

	rng := rand.New(rand.NewPCG(stressSeed, stressSeed))
	report := StressReport{Backend: stressHeap.backend, Seed: stressSeed}
	ptrs := make([]alloc.Ptr, stressCount)

	for round := 1; round <= stressRounds; round++ {
		res := StressRound{Round: round, HeapBefore: a.HeapSize()}

		for i := range ptrs {
			size := uint64(0)
			if stressMax > 0 {
				size = rng.Uint64N(stressMax)
			}
			p, err := a.Alloc(size)
			if err != nil {
				return fmt.Errorf("round %d: alloc %d of %d (%d bytes): %w", round, i+1, stressCount, size, err)
			}
			clear(a.Bytes(p)[:size])
			ptrs[i] = p
			res.Allocs++
			res.Bytes += int64(size)
			res.HeapPeak = max(res.HeapPeak, a.HeapSize())
			if err := checkHeap(a, stressCheck); err != nil {
				return fmt.Errorf("round %d after alloc %d: %w", round, i+1, err)
			}
		}

		for i, p := range ptrs {
			a.Free(p)
			res.Frees++
			if err := checkHeap(a, stressCheck); err != nil {
				return fmt.Errorf("round %d after free %d: %w", round, i+1, err)
			}
		}

		res.HeapAfter = a.HeapSize()
		report.Allocs += res.Allocs
		report.Frees += res.Frees
		report.Rounds = append(report.Rounds, res)
		printVerbose("round %d done: heap %d bytes\n", round, res.HeapAfter)
	}
	report.Stats = a.Stats()

	if jsonOut {
		return printJSON(report)
	}

	for _, res := range report.Rounds {
		printInfo("round %d: %d allocs (%d bytes), %d frees, heap before %d, peak %s, after %d\n",
			res.Round, res.Allocs, res.Bytes, res.Frees, res.HeapBefore, formatBytes(res.HeapPeak), res.HeapAfter)
	}
	printInfo("num_mallocs = %d, num_frees = %d\n", report.Allocs, report.Frees)
	if stressDump && !quiet {
		a.DumpFreeList(os.Stdout)
	}
	if verbose && !quiet {
		a.PrintStats(os.Stdout)
	}
	return nil
}

func checkHeap(a *alloc.WorstFitAllocator, enabled bool) error {
	if !enabled {
		return nil
	}
	return a.Check()
}
