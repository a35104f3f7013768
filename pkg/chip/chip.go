// Package chip implements the trace populator: the component that turns one
// ExecutionStep into a filled trace row, and, for the last row, drains the
// memory consistency log into the terminal initial/final-memory columns.
//
// A Chip is driven row-by-row in strictly ascending order by a single
// caller; it owns its memcheck.Log, PublicInputMap, and PublicOutputSet
// exclusively for its lifetime and is not safe for concurrent use.
package chip

import (
	"github.com/oisee/loadstore-chip/pkg/chiperr"
	"github.com/oisee/loadstore-chip/pkg/field"
	"github.com/oisee/loadstore-chip/pkg/memcheck"
	"github.com/oisee/loadstore-chip/pkg/opcode"
	"github.com/oisee/loadstore-chip/pkg/step"
	"github.com/oisee/loadstore-chip/pkg/trace"
	"github.com/oisee/loadstore-chip/pkg/word"
)

// Chip is the load/store trace populator.
type Chip struct {
	Trace        *trace.Trace
	Log          *memcheck.Log
	PublicInput  *memcheck.PublicInputMap
	PublicOutput *memcheck.PublicOutputSet

	finalized bool
}

// New returns a Chip that will populate tr, reconciling publicInput and
// publicOutput during finalization.
func New(tr *trace.Trace, publicInput map[uint32]byte, publicOutput []uint32) *Chip {
	return &Chip{
		Trace:        tr,
		Log:          memcheck.New(),
		PublicInput:  memcheck.NewPublicInputMap(publicInput),
		PublicOutput: memcheck.NewPublicOutputSet(publicOutput),
	}
}

// FillRow populates rowIndex from st. If st is nil or not one of the eight
// memory opcodes, the row's memory columns are left untouched. When
// rowIndex+1 equals the trace's row count, FillRow automatically invokes
// Finalize afterward; callers that prefer the explicit form may call
// Finalize themselves instead (Finalize is idempotent-guarded against
// double invocation).
func (c *Chip) FillRow(rowIndex int, st *step.ExecutionStep) error {
	if err := c.fillRowStep(rowIndex, st); err != nil {
		return err
	}
	if rowIndex+1 == c.Trace.NumRows() {
		return c.Finalize(rowIndex)
	}
	return nil
}

func (c *Chip) fillRowStep(rowIndex int, st *step.ExecutionStep) error {
	if st == nil || !opcode.IsMemoryOp(st.Opcode) {
		return nil
	}

	isLoad := st.Opcode.IsLoad()
	catalogIndex := int(st.Opcode)
	c.Trace.FillColumns(rowIndex, true, trace.OpcodeFlag(catalogIndex))

	c.Trace.FillColumns(rowIndex, st.ValueA, trace.ValueA)
	c.Trace.FillColumns(rowIndex, st.ValueA, trace.ValueAEffective)

	base, carries := word.AddWithCarries(word.Encode(st.BaseRegister()), word.Encode(st.Offset))
	c.Trace.FillColumns(rowIndex, base, trace.RamBaseAddr())
	c.Trace.FillColumns(rowIndex, carries, trace.CarryFlag())
	if carries[3] != 0 {
		return chiperr.New(chiperr.AddressOverflow, rowIndex, "base address computation overflowed past 2^32").WithAddress(word.Decode(base))
	}

	clk := uint32(rowIndex) + 1
	baseAddr := word.Decode(base)
	size := st.Opcode.Size().Lanes()

	for _, rec := range st.MemoryRecords {
		if rec.Timestamp != clk {
			return chiperr.NewMismatch(chiperr.TimestampMismatch, rowIndex, clk, rec.Timestamp, "memory record timestamp must equal row_index+1")
		}
		if rec.Address != baseAddr {
			return chiperr.NewMismatch(chiperr.AddressMismatch, rowIndex, baseAddr, rec.Address, "memory record address must equal the computed base address").WithAddress(rec.Address)
		}

		// Widened to uint64: size==4 (a full word) makes 1<<(8*size) the
		// value 2^32, which does not fit back into a uint32 width limit.
		widthLimit := uint64(1) << uint(8*size)
		if uint64(rec.Value) >= widthLimit {
			return chiperr.NewMismatch(chiperr.ValueOutOfWidth, rowIndex, widthLimit, rec.Value, "memory record value exceeds its declared width").WithAddress(rec.Address)
		}
		if !isLoad {
			if !rec.HasPrevValue {
				return chiperr.New(chiperr.ValueOutOfWidth, rowIndex, "store memory record is missing its previous value").WithAddress(rec.Address)
			}
			if uint64(rec.PrevValue) >= widthLimit {
				return chiperr.NewMismatch(chiperr.ValueOutOfWidth, rowIndex, widthLimit, rec.PrevValue, "store memory record's previous value exceeds its declared width").WithAddress(rec.Address)
			}
		}

		if isLoad {
			if !st.HasResult {
				return chiperr.New(chiperr.ValueOutOfWidth, rowIndex, "load step is missing its result").WithAddress(rec.Address)
			}
			mask := uint32(widthLimit - 1)
			if st.Result&mask != rec.Value&mask {
				return chiperr.NewMismatch(chiperr.ValueOutOfWidth, rowIndex, rec.Value&mask, st.Result&mask, "load result does not match the memory record's value").WithAddress(rec.Address)
			}
		}

		curBytes := word.Encode(rec.Value)
		var prevBytes word.Word
		if isLoad {
			prevBytes = curBytes
		} else {
			prevBytes = word.Encode(rec.PrevValue)
		}

		for i := 0; i < size; i++ {
			lane := i + 1
			c.Trace.FillColumns(rowIndex, curBytes[i], trace.LaneValCur(lane))
			c.Trace.FillColumns(rowIndex, prevBytes[i], trace.LaneValPrev(lane))
			c.Trace.FillColumns(rowIndex, rec.PrevTimestamp, trace.LaneTsPrev(lane))
			c.Trace.FillColumns(rowIndex, true, trace.LaneAccessed(lane))

			laneAddr := baseAddr + uint32(i)
			if laneAddr < baseAddr {
				return chiperr.New(chiperr.AddressOverflow, rowIndex, "memory access range overflowed back to address zero").WithAddress(baseAddr)
			}

			prev, had := c.Log.RecordAccess(laneAddr, clk, curBytes[i])
			if had {
				if prev.Timestamp != rec.PrevTimestamp || prev.Value != prevBytes[i] {
					return chiperr.NewMismatch(chiperr.MemoryLogMismatch, rowIndex,
						memcheck.Entry{Timestamp: rec.PrevTimestamp, Value: prevBytes[i]}, prev,
						"memory access does not match the prior log entry").WithAddress(laneAddr)
				}
			} else {
				if rec.PrevTimestamp != 0 || prevBytes[i] != 0 {
					return chiperr.New(chiperr.MemoryLogMismatch, rowIndex, "first access to an address must carry a zero previous timestamp and value").WithAddress(laneAddr)
				}
			}
		}
	}

	if isLoad {
		c.Trace.FillColumns(rowIndex, st.Result, trace.ValueA)
	}

	return nil
}

// Finalize drains the memory consistency log into the terminal columns and
// reconciles the public input/output declarations. It must be called
// exactly once, after the last row has been populated; FillRow calls it
// automatically when appropriate.
func (c *Chip) Finalize(lastRowIndex int) error {
	if c.finalized {
		return nil
	}
	c.finalized = true

	entries := c.Log.DrainSorted()
	if len(entries) > c.Trace.NumRows() {
		return chiperr.NewMismatch(chiperr.MemoryLogMismatch, lastRowIndex, c.Trace.NumRows(), len(entries),
			"execution touched more distinct byte addresses than the trace can finalize")
	}

	for i, entry := range entries {
		c.Trace.FillColumns(i, word.Encode(entry.Address), trace.RamInitFinalAddr())
		c.Trace.FillColumns(i, true, trace.RamInitFinalFlag)
		if entry.Timestamp >= field.P {
			return chiperr.New(chiperr.TimestampFieldOverflow, i, "access counter overflowed the base field").WithAddress(entry.Address)
		}
		c.Trace.FillColumns(i, entry.Timestamp, trace.RamFinalCounter)
		c.Trace.FillColumns(i, entry.Value, trace.RamFinalValue)

		if v, ok := c.PublicInput.Remove(entry.Address); ok {
			c.Trace.FillColumns(i, v, trace.PublicInputValue)
			c.Trace.FillColumns(i, true, trace.PublicInputFlag)
			c.Trace.FillColumns(i, word.Encode(entry.Address), trace.PublicInputOutputAddr())
		}
		if c.PublicOutput.Remove(entry.Address) {
			c.Trace.FillColumns(i, entry.Value, trace.PublicOutputValue)
			c.Trace.FillColumns(i, true, trace.PublicOutputFlag)
			c.Trace.FillColumns(i, word.Encode(entry.Address), trace.PublicInputOutputAddr())
		}
	}

	if !c.PublicInput.Empty() {
		return chiperr.New(chiperr.UnreconciledPublicInput, lastRowIndex,
			"public input entries were not matched by any memory access")
	}
	if !c.PublicOutput.Empty() {
		return chiperr.New(chiperr.UnreconciledPublicOutput, lastRowIndex,
			"public output addresses were not matched by any memory access")
	}
	return nil
}
