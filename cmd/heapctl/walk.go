package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
)

var (
	walkSizes []int
	walkFree  []int
	walkHeap  heapFlags
)

func init() {
	cmd := newWalkCmd()
	cmd.Flags().IntSliceVar(&walkSizes, "sizes", []int{100, 500, 50}, "Payload sizes to allocate, in order")
	cmd.Flags().IntSliceVar(&walkFree, "free", []int{0, 2}, "Indexes into --sizes to free afterwards, in order")
	walkHeap.register(cmd)
	rootCmd.AddCommand(cmd)
}

func newWalkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Run a scripted workload and print the chunk chain",
		Long: `The walk command allocates the given sizes, frees the listed
allocations, and prints every chunk in the heap followed by the free index.

Example:
  heapctl walk
  heapctl walk --sizes 100,8,500,8,50,8 --free 0,2,4 --batch 8
  heapctl walk --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWalk()
		},
	}
	return cmd
}

// WalkReport is the JSON output of the walk command.
type WalkReport struct {
	HeapSize int64             `json:"heap_size"`
	Payloads []alloc.Ptr       `json:"payloads"`
	Chunks   []alloc.ChunkInfo `json:"chunks"`
	Free     []alloc.ChunkInfo `json:"free"`
}

func runWalk() error {
	for _, s := range walkSizes {
		if s < 0 {
			return fmt.Errorf("negative size %d", s)
		}
	}
	freed := make(map[int]bool, len(walkFree))
	for _, i := range walkFree {
		if i < 0 || i >= len(walkSizes) {
			return fmt.Errorf("free index %d out of range [0, %d)", i, len(walkSizes))
		}
		if freed[i] {
			return fmt.Errorf("free index %d listed twice", i)
		}
		freed[i] = true
	}

	a, err := walkHeap.open()
	if err != nil {
		return err
	}
	defer closeHeap(a)

	report := WalkReport{}
	for _, s := range walkSizes {
		p, err := a.Alloc(uint64(s))
		if err != nil {
			return fmt.Errorf("alloc %d bytes: %w", s, err)
		}
		report.Payloads = append(report.Payloads, p)
		printVerbose("alloc(%d) = %#x\n", s, uint64(p))
	}
	for _, i := range walkFree {
		a.Free(report.Payloads[i])
		printVerbose("free(%#x)\n", uint64(report.Payloads[i]))
	}
	if err := a.Check(); err != nil {
		return err
	}

	report.HeapSize = a.HeapSize()
	a.Walk(func(c alloc.ChunkInfo) bool {
		report.Chunks = append(report.Chunks, c)
		return true
	})
	report.Free = a.FreeChunks()

	if jsonOut {
		return printJSON(report)
	}
	if quiet {
		return nil
	}
	a.DumpChunks(os.Stdout)
	a.DumpFreeList(os.Stdout)
	return nil
}
