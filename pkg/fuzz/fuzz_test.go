package fuzz

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/oisee/loadstore-chip/pkg/chip"
	"github.com/oisee/loadstore-chip/pkg/chiperr"
	"github.com/oisee/loadstore-chip/pkg/trace"
)

func TestRunAllChainsPass(t *testing.T) {
	summary := Run(Config{Chains: 4, StepsPerChain: 8, Seed: 12345})
	if summary.Checked != 4 {
		t.Fatalf("Checked = %d, want 4", summary.Checked)
	}
	if summary.Failed != 0 {
		t.Fatalf("Failed = %d, want 0, first failure: %v", summary.Failed, summary.FirstFailure)
	}
}

func TestRunDefaultsAppliedForZeroConfig(t *testing.T) {
	summary := Run(Config{})
	if summary.Checked != 1 {
		t.Fatalf("Checked = %d, want 1", summary.Checked)
	}
	if summary.Failed != 0 {
		t.Fatalf("unexpected failure: %v", summary.FirstFailure)
	}
}

func TestGenerateChainFeedsChipWithoutError(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	steps, numRows := generateChain(rnd, 10)
	if len(steps) != numRows {
		t.Fatalf("len(steps)=%d, numRows=%d", len(steps), numRows)
	}
	tr := trace.New(numRows)
	c := chip.New(tr, nil, nil)
	for row, st := range steps {
		if err := c.FillRow(row, st); err != nil {
			t.Fatalf("row %d: %v", row, err)
		}
	}
}

func TestRunWithInjectedViolationsReportsSeededKind(t *testing.T) {
	summary := Run(Config{Chains: 64, StepsPerChain: 8, Seed: 999, InjectViolations: true})
	if summary.Checked != 64 {
		t.Fatalf("Checked = %d, want 64", summary.Checked)
	}
	if summary.SeededViolations == 0 {
		t.Fatalf("expected at least one seeded violation to be confirmed across 64 chains")
	}
	if summary.Failed != 0 {
		t.Fatalf("Failed = %d, want 0 (a confirmed seeded violation is not a failure), first failure: %v",
			summary.Failed, summary.FirstFailure)
	}
}

func TestGenerateCorruptedChainTriggersExpectedKind(t *testing.T) {
	for seed := uint64(0); seed < 32; seed++ {
		rnd := rand.New(rand.NewPCG(seed, seed^0xBEEF))
		steps, numRows, wantKind := generateCorruptedChain(rnd, 6)

		tr := trace.New(numRows)
		c := chip.New(tr, nil, nil)
		var gotErr error
		for row, st := range steps {
			if err := c.FillRow(row, st); err != nil {
				gotErr = err
				break
			}
		}

		var chipErr *chiperr.Error
		if !errors.As(gotErr, &chipErr) {
			t.Fatalf("seed %d: corrupted chain completed without error, want %s", seed, wantKind)
		}
		if chipErr.Kind != wantKind {
			t.Fatalf("seed %d: got kind %s, want %s", seed, chipErr.Kind, wantKind)
		}
	}
}

func TestGenerateChainDeterministicForSameSeed(t *testing.T) {
	rnd1 := rand.New(rand.NewPCG(7, 8))
	rnd2 := rand.New(rand.NewPCG(7, 8))
	steps1, _ := generateChain(rnd1, 6)
	steps2, _ := generateChain(rnd2, 6)
	if len(steps1) != len(steps2) {
		t.Fatalf("lengths differ: %d vs %d", len(steps1), len(steps2))
	}
	for i := range steps1 {
		if steps1[i].Opcode != steps2[i].Opcode {
			t.Fatalf("step %d opcode differs between identical seeds", i)
		}
	}
}
