// Package opcode defines the closed set of RISC-V memory opcodes the chip
// understands, in the spirit of a small instruction catalog: a compact enum
// plus static metadata (store/load class, access width, mnemonic) indexed by
// opcode value.
package opcode

import "github.com/oisee/loadstore-chip/pkg/word"

// Opcode identifies one of the eight RISC-V memory instructions this chip
// handles. It is a stable integer enumeration, as required by the execution
// step model upstream.
type Opcode uint8

const (
	SB Opcode = iota
	SH
	SW
	LB
	LBU
	LH
	LHU
	LW

	opcodeCount
)

// Info holds static metadata for one opcode.
type Info struct {
	Mnemonic string
	IsLoad   bool
	Size     word.AccessSize
	Signed   bool // for loads: whether the result is sign-extended
}

// Catalog maps each Opcode to its Info. Indexes beyond opcodeCount are not a
// memory opcode at all; see IsMemoryOp.
var Catalog = [opcodeCount]Info{
	SB:  {Mnemonic: "sb", IsLoad: false, Size: word.Byte},
	SH:  {Mnemonic: "sh", IsLoad: false, Size: word.Half},
	SW:  {Mnemonic: "sw", IsLoad: false, Size: word.Word32},
	LB:  {Mnemonic: "lb", IsLoad: true, Size: word.Byte, Signed: true},
	LBU: {Mnemonic: "lbu", IsLoad: true, Size: word.Byte, Signed: false},
	LH:  {Mnemonic: "lh", IsLoad: true, Size: word.Half, Signed: true},
	LHU: {Mnemonic: "lhu", IsLoad: true, Size: word.Half, Signed: false},
	LW:  {Mnemonic: "lw", IsLoad: true, Size: word.Word32, Signed: false},
}

// IsMemoryOp reports whether op is one of the eight opcodes this chip
// handles. Any other integer value (from upstream's broader decode) must be
// rejected by the populator without touching memory columns.
func IsMemoryOp(op Opcode) bool {
	return op < opcodeCount
}

// IsLoad reports whether op is one of {LB, LBU, LH, LHU, LW}.
func (op Opcode) IsLoad() bool {
	return IsMemoryOp(op) && Catalog[op].IsLoad
}

// IsStore reports whether op is one of {SB, SH, SW}.
func (op Opcode) IsStore() bool {
	return IsMemoryOp(op) && !Catalog[op].IsLoad
}

// Size returns the access width of op.
func (op Opcode) Size() word.AccessSize {
	return Catalog[op].Size
}

// Signed reports whether a load of this opcode sign-extends its result.
func (op Opcode) Signed() bool {
	return Catalog[op].Signed
}

// String returns the assembly mnemonic, or "???" for an unrecognized value.
func (op Opcode) String() string {
	if !IsMemoryOp(op) {
		return "???"
	}
	return Catalog[op].Mnemonic
}

// All returns every memory opcode, in enum order, for exhaustive tests and
// constraint-coverage checks.
func All() []Opcode {
	ops := make([]Opcode, 0, opcodeCount)
	for op := Opcode(0); op < opcodeCount; op++ {
		ops = append(ops, op)
	}
	return ops
}
