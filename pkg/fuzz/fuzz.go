// Package fuzz drives many independent chip.Chip instances across goroutines,
// each fed a randomly generated, structurally-valid basic block of load/store
// steps, to stress the chip's invariants at scale.
package fuzz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oisee/loadstore-chip/pkg/chip"
	"github.com/oisee/loadstore-chip/pkg/chiperr"
	"github.com/oisee/loadstore-chip/pkg/opcode"
	"github.com/oisee/loadstore-chip/pkg/step"
	"github.com/oisee/loadstore-chip/pkg/trace"
	"github.com/oisee/loadstore-chip/pkg/word"
)

// Config holds the fuzz run's parameters.
type Config struct {
	Chains        int    // independent goroutines
	StepsPerChain int    // memory steps generated per chain (rounded down to an even number, at least 2); non-memory rows may be appended
	Seed          uint64 // base seed; each chain derives its own stream from it
	Verbose       bool

	// InjectViolations, when true, has each chain independently roll
	// whether to corrupt one of its generated memory records to trigger a
	// specific chiperr.Kind, then checks that FillRow reports exactly that
	// kind rather than treating the chain as an unexpected failure.
	InjectViolations bool
}

// Summary aggregates the outcome of a fuzz run across every chain.
type Summary struct {
	Checked          int64
	Failed           int64 // chains whose error (if any) was not the one they were seeded to trigger
	SeededViolations int64 // chains deliberately corrupted that reported exactly the seeded chiperr.Kind
	FirstFailure     error
}

// Run launches cfg.Chains independent goroutines, each generating its own
// random basic block and feeding it row-by-row to its own chip.Chip.
func Run(cfg Config) Summary {
	if cfg.Chains <= 0 {
		cfg.Chains = 1
	}
	if cfg.StepsPerChain <= 0 {
		cfg.StepsPerChain = 16
	}
	rounds := cfg.StepsPerChain / 2
	if rounds <= 0 {
		rounds = 1
	}

	var checked, failed, seededViolations atomic.Int64
	var mu sync.Mutex
	var firstFailure error
	var wg sync.WaitGroup

	startTime := time.Now()
	done := make(chan struct{})
	if cfg.Verbose {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					fmt.Printf("  [%s] %d chains checked, %d failed\n",
						time.Since(startTime).Round(time.Second), checked.Load(), failed.Load())
				}
			}
		}()
	}

	for i := 0; i < cfg.Chains; i++ {
		wg.Add(1)
		go func(chainID int) {
			defer wg.Done()

			src := rand.NewPCG(cfg.Seed+uint64(chainID)*0x9E3779B97F4A7C15, uint64(chainID))
			rnd := rand.New(src)

			var wantKind chiperr.Kind
			var seeded bool
			var steps []*step.ExecutionStep
			var numRows int
			if cfg.InjectViolations && rnd.IntN(2) == 0 {
				steps, numRows, wantKind = generateCorruptedChain(rnd, rounds)
				seeded = true
			} else {
				steps, numRows = generateChain(rnd, rounds)
			}

			tr := trace.New(numRows)
			c := chip.New(tr, nil, nil)

			var gotErr error
			for row, st := range steps {
				if err := c.FillRow(row, st); err != nil {
					gotErr = fmt.Errorf("chain %d row %d: %w", chainID, row, err)
					break
				}
			}

			var chipErr *chiperr.Error
			gotKind := errors.As(gotErr, &chipErr)

			checked.Add(1)
			switch {
			case seeded && gotKind && chipErr.Kind == wantKind:
				seededViolations.Add(1)
				if cfg.Verbose {
					fmt.Printf("  chain %d: seeded %s confirmed\n", chainID, wantKind)
				}
			case seeded && gotErr == nil:
				failed.Add(1)
				mismatch := fmt.Errorf("chain %d: expected seeded %s but chain completed cleanly", chainID, wantKind)
				mu.Lock()
				if firstFailure == nil {
					firstFailure = mismatch
				}
				mu.Unlock()
			case gotErr != nil:
				failed.Add(1)
				mu.Lock()
				if firstFailure == nil {
					firstFailure = gotErr
				}
				mu.Unlock()
				if cfg.Verbose {
					fmt.Printf("  chain %d: FAILED: %v\n", chainID, gotErr)
				}
			}
		}(i)
	}

	wg.Wait()
	close(done)

	return Summary{
		Checked:          checked.Load(),
		Failed:           failed.Load(),
		SeededViolations: seededViolations.Load(),
		FirstFailure:     firstFailure,
	}
}

// generateChain builds rounds store+load pairs at distinct, non-overlapping
// word-aligned addresses, each pair exercising the round-trip law: store a
// random value at a random width, then load it back with a randomly chosen
// matching load opcode and check the sign/zero extension is self-consistent.
// The returned row count equals len(steps).
func generateChain(rnd *rand.Rand, rounds int) ([]*step.ExecutionStep, int) {
	steps := make([]*step.ExecutionStep, 0, rounds*2)

	// Start well clear of the address space's top so no generated block can
	// overflow RamBaseAddr; 8 bytes of stride per round keeps every pair's
	// lanes disjoint from its neighbors.
	baseAddr := uint32(0x1000) + uint32(rnd.IntN(1<<20))*8

	for r := 0; r < rounds; r++ {
		addr := baseAddr + uint32(r)*8
		clk := uint32(len(steps)) + 1

		storeOp, loadOp := randomMatchingPair(rnd)
		size := storeOp.Size()
		// uint64, not uint32: size.Lanes()==4 (a full word) makes
		// 1<<(8*lanes) the value 2^32, which a uint32 shift would truncate
		// to 0 and turn rnd.Uint64()%widthLimit into a division by zero.
		widthLimit := uint64(1) << uint(8*size.Lanes())
		value := uint32(rnd.Uint64() % widthLimit)

		steps = append(steps, &step.ExecutionStep{
			Opcode: storeOp,
			ValueA: addr,
			Offset: 0,
			MemoryRecords: []step.MemoryRecord{{
				Address: addr, Size: uint8(size.Lanes()), Value: value,
				HasPrevValue: true, Timestamp: clk,
			}},
		})

		var result uint32
		if loadOp.Signed() {
			result = word.SignExtend(value, size)
		} else {
			result = word.ZeroExtend(value, size)
		}
		steps = append(steps, &step.ExecutionStep{
			Opcode: loadOp,
			ValueB: addr,
			Offset: 0,
			Result: result, HasResult: true,
			MemoryRecords: []step.MemoryRecord{{
				Address: addr, Size: uint8(size.Lanes()), Value: value,
				Timestamp: clk + 1, PrevTimestamp: clk,
			}},
		})
	}

	// Finalize needs one row per distinct byte address touched, and a word
	// round touches more addresses than it has steps; pad with non-memory
	// steps (an opcode outside the eight memory opcodes) until it fits.
	touched := 0
	for _, st := range steps {
		if st.Opcode.IsStore() {
			touched += st.Opcode.Size().Lanes()
		}
	}
	for len(steps) < touched {
		steps = append(steps, &step.ExecutionStep{Opcode: opcode.Opcode(0xFF)})
	}

	return steps, len(steps)
}

// generateCorruptedChain builds a chain exactly like generateChain, then
// corrupts one round's store record to deterministically trigger one of a
// small set of chiperr.Kind values, returning the kind the caller should
// expect FillRow to report.
func generateCorruptedChain(rnd *rand.Rand, rounds int) ([]*step.ExecutionStep, int, chiperr.Kind) {
	steps, numRows := generateChain(rnd, rounds)

	round := rnd.IntN(rounds)
	rec := &steps[round*2].MemoryRecords[0]

	choice := rnd.IntN(3)
	// A full-word lane's width limit is 2^32, which has no representation
	// one past itself in a uint32 value; fall back to TimestampMismatch
	// for that lane width instead of wrapping around to a harmless 0.
	if choice == 2 && rec.Size == 4 {
		choice = 0
	}

	switch choice {
	case 0:
		rec.Timestamp++
		return steps, numRows, chiperr.TimestampMismatch
	case 1:
		rec.Address += 4
		return steps, numRows, chiperr.AddressMismatch
	default:
		widthLimit := uint64(1) << uint(8*rec.Size)
		rec.Value = uint32(widthLimit) // one past the declared width
		return steps, numRows, chiperr.ValueOutOfWidth
	}
}

// randomMatchingPair picks a random access width and a random load opcode of
// that width, returning the store opcode of the same width alongside it.
func randomMatchingPair(rnd *rand.Rand) (store, load opcode.Opcode) {
	switch rnd.IntN(3) {
	case 0:
		loads := []opcode.Opcode{opcode.LB, opcode.LBU}
		return opcode.SB, loads[rnd.IntN(len(loads))]
	case 1:
		loads := []opcode.Opcode{opcode.LH, opcode.LHU}
		return opcode.SH, loads[rnd.IntN(len(loads))]
	default:
		return opcode.SW, opcode.LW
	}
}
