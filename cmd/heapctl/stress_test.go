package main

import (
	"testing"
)

func TestStressCommand(t *testing.T) {
	tests := []struct {
		name        string
		setup       func()
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "defaults",
			setup:       func() {},
			wantContain: []string{"round 1: 100 allocs", "round 2: 100 allocs", "num_mallocs = 200, num_frees = 200"},
		},
		{
			name: "checked with dump",
			setup: func() {
				stressRounds, stressCount, stressCheck, stressDump = 3, 50, true, true
			},
			wantContain: []string{"round 3: 50 allocs", "num_mallocs = 150, num_frees = 150", "free index:"},
		},
		{
			name: "mmap backend",
			setup: func() {
				stressHeap.backend = backendMmap
				stressCheck = true
			},
			wantContain: []string{"num_mallocs = 200"},
		},
		{
			name: "zero max allocates minimal blocks",
			setup: func() {
				stressMax = 0
			},
			wantContain: []string{"round 1: 100 allocs (0 bytes)"},
		},
		{
			name: "unknown backend",
			setup: func() {
				stressHeap.backend = "sbrk"
			},
			wantErr: true,
		},
		{
			name: "negative capacity",
			setup: func() {
				stressHeap.capacity = -1
			},
			wantErr: true,
		},
		{
			name: "zero capacity",
			setup: func() {
				stressHeap.capacity = 0
			},
			wantErr: true,
		},
		{
			name: "negative batch",
			setup: func() {
				stressHeap.batch = -8
			},
			wantErr: true,
		},
		{
			name: "exhausted",
			setup: func() {
				stressHeap.capacity = 4096
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals()
			tt.setup()

			output, err := captureOutput(t, runStress)

			if (err != nil) != tt.wantErr {
				t.Fatalf("runStress() error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestStressJSON(t *testing.T) {
	resetGlobals()
	jsonOut = true
	stressCheck = true

	output, err := captureOutput(t, runStress)
	if err != nil {
		t.Fatalf("runStress() error = %v", err)
	}

	var report StressReport
	decodeJSON(t, output, &report)

	if report.Allocs != 200 || report.Frees != 200 {
		t.Errorf("allocs/frees = %d/%d, want 200/200", report.Allocs, report.Frees)
	}
	if len(report.Rounds) != 2 {
		t.Fatalf("got %d rounds, want 2", len(report.Rounds))
	}
	for _, r := range report.Rounds {
		if r.HeapPeak == 0 {
			t.Errorf("round %d: heap never grew", r.Round)
		}
		if r.HeapAfter != 0 {
			t.Errorf("round %d: heap after freeing everything = %d, want 0", r.Round, r.HeapAfter)
		}
	}
	if report.Stats.FreeCalls != 200 {
		t.Errorf("stats.FreeCalls = %d, want 200", report.Stats.FreeCalls)
	}
}

func TestStressJSONVerbose(t *testing.T) {
	resetGlobals()
	jsonOut = true
	verbose = true

	output, err := captureOutput(t, runStress)
	if err != nil {
		t.Fatalf("runStress() error = %v", err)
	}

	// Progress lines would break the report.
	var report StressReport
	decodeJSON(t, output, &report)
	if len(report.Rounds) != 2 {
		t.Errorf("got %d rounds, want 2", len(report.Rounds))
	}
}

func TestStressSeedIsDeterministic(t *testing.T) {
	run := func() StressReport {
		resetGlobals()
		jsonOut = true
		stressSeed = 99
		output, err := captureOutput(t, runStress)
		if err != nil {
			t.Fatalf("runStress() error = %v", err)
		}
		var report StressReport
		decodeJSON(t, output, &report)
		return report
	}

	a, b := run(), run()
	for i := range a.Rounds {
		if a.Rounds[i] != b.Rounds[i] {
			t.Errorf("round %d differs between runs: %+v vs %+v", i+1, a.Rounds[i], b.Rounds[i])
		}
	}
}
