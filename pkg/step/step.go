// Package step defines the execution-step model the chip consumes: one
// ExecutionStep per row, carrying the operands and memory records a RISC-V
// memory instruction produced when the upstream VM executed it.
package step

import "github.com/oisee/loadstore-chip/pkg/opcode"

// Address is a 32-bit byte address.
type Address = uint32

// Timestamp is a strictly positive row clock (row_index + 1), or 0 meaning
// "no prior access" inside a MemoryRecord.
type Timestamp = uint32

// MemoryRecord is one byte-address-range access performed by a step.
// PrevValue is present (HasPrevValue true) iff the enclosing opcode is a
// store; loads observe a single current value and carry no prior value of
// their own (the "previous" value for a load's lane comes from whatever
// wrote it earlier, recovered from the memory consistency log).
type MemoryRecord struct {
	Address       Address
	Size          uint8 // 1, 2, or 4 bytes
	Value         uint32
	PrevValue     uint32
	HasPrevValue  bool
	Timestamp     Timestamp
	PrevTimestamp Timestamp
}

// ExecutionStep is one row's worth of upstream VM output for a memory
// instruction.
type ExecutionStep struct {
	Opcode        opcode.Opcode
	ValueA        uint32 // store data, or the load's destination register's old contents (unused)
	ValueB        uint32 // base register for loads
	Offset        uint32 // 12-bit immediate, already sign-extended to 32 bits by the caller
	Result        uint32 // set only for loads: the sign/zero-extended loaded value
	HasResult     bool
	MemoryRecords []MemoryRecord
}

// BaseRegister returns the operand the base address is computed from:
// ValueB for loads, ValueA for stores.
func (s *ExecutionStep) BaseRegister() uint32 {
	if s.Opcode.IsLoad() {
		return s.ValueB
	}
	return s.ValueA
}
