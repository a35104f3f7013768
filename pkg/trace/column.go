package trace

// Column identifies one named quantity a prover commits to. Multi-limb
// values (Word, Carries, lane quadruples) occupy a contiguous run of
// Columns; FillColumns knows each value's width and writes the right number
// of consecutive cells starting at the enumerated id.
type Column int

const (
	// Opcode-flag columns: exactly one set per memory row, all zero otherwise.
	IsSb Column = iota
	IsSh
	IsSw
	IsLb
	IsLbu
	IsLh
	IsLhu
	IsLw

	// Upstream operand columns.
	ValueA // for stores the store data; for loads, overwritten with the extended result
	ValueAEffective
	ValueB

	// Base-address computation, one column per byte limb / carry-out bit.
	ramBaseAddr0
	ramBaseAddr1
	ramBaseAddr2
	ramBaseAddr3
	carryFlag0
	carryFlag1
	carryFlag2
	carryFlag3

	// Byte-lane quadruples, one quadruple per lane i in [1,4].
	ram1ValCur
	ram1ValPrev
	ram1TsPrev
	ram1Accessed

	ram2ValCur
	ram2ValPrev
	ram2TsPrev
	ram2Accessed

	ram3ValCur
	ram3ValPrev
	ram3TsPrev
	ram3Accessed

	ram4ValCur
	ram4ValPrev
	ram4TsPrev
	ram4Accessed

	// Terminal (finalize-pass) columns.
	ramInitFinalAddr0
	ramInitFinalAddr1
	ramInitFinalAddr2
	ramInitFinalAddr3
	RamInitFinalFlag
	RamFinalCounter
	RamFinalValue

	// Program-side public input/output columns.
	PublicInputValue
	PublicInputFlag
	PublicOutputValue
	PublicOutputFlag
	publicInputOutputAddr0
	publicInputOutputAddr1
	publicInputOutputAddr2
	publicInputOutputAddr3

	numColumns
)

// RamBaseAddr returns the starting column of the 4-byte computed base address.
func RamBaseAddr() Column { return ramBaseAddr0 }

// CarryFlag returns the starting column of the 4-bit carry vector.
func CarryFlag() Column { return carryFlag0 }

// RamInitFinalAddr returns the starting column of the terminal-row address.
func RamInitFinalAddr() Column { return ramInitFinalAddr0 }

// PublicInputOutputAddr returns the starting column of the shared
// public-input/output reconciliation address.
func PublicInputOutputAddr() Column { return publicInputOutputAddr0 }

// laneBase is the (ValCur, ValPrev, TsPrev, Accessed) quadruple's starting
// column for lane i (1-indexed, i in [1,4]).
func laneBase(i int) Column {
	switch i {
	case 1:
		return ram1ValCur
	case 2:
		return ram2ValCur
	case 3:
		return ram3ValCur
	case 4:
		return ram4ValCur
	default:
		panic("trace: lane index out of range [1,4]")
	}
}

// LaneValCur, LaneValPrev, LaneTsPrev, LaneAccessed return the column for the
// named field of lane i (1-indexed).
func LaneValCur(i int) Column   { return laneBase(i) + 0 }
func LaneValPrev(i int) Column  { return laneBase(i) + 1 }
func LaneTsPrev(i int) Column   { return laneBase(i) + 2 }
func LaneAccessed(i int) Column { return laneBase(i) + 3 }

// opcodeFlagColumns lists the eight flag columns in catalog order
// (SB, SH, SW, LB, LBU, LH, LHU, LW), mirroring pkg/opcode.Catalog.
var opcodeFlagColumns = [8]Column{IsSb, IsSh, IsSw, IsLb, IsLbu, IsLh, IsLhu, IsLw}

// OpcodeFlag returns the flag column for the opcode at the given catalog
// index.
func OpcodeFlag(catalogIndex int) Column {
	return opcodeFlagColumns[catalogIndex]
}
