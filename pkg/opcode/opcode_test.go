package opcode

import (
	"testing"

	"github.com/oisee/loadstore-chip/pkg/word"
)

func TestClassification(t *testing.T) {
	stores := map[Opcode]bool{SB: true, SH: true, SW: true}
	for _, op := range All() {
		wantStore := stores[op]
		if got := op.IsStore(); got != wantStore {
			t.Errorf("%s.IsStore() = %v, want %v", op, got, wantStore)
		}
		if got := op.IsLoad(); got == wantStore {
			t.Errorf("%s: IsLoad and IsStore must disagree", op)
		}
	}
}

func TestWidths(t *testing.T) {
	want := map[Opcode]word.AccessSize{
		SB: word.Byte, LB: word.Byte, LBU: word.Byte,
		SH: word.Half, LH: word.Half, LHU: word.Half,
		SW: word.Word32, LW: word.Word32,
	}
	for op, size := range want {
		if got := op.Size(); got != size {
			t.Errorf("%s.Size() = %v, want %v", op, got, size)
		}
	}
}

func TestSignedness(t *testing.T) {
	signed := map[Opcode]bool{LB: true, LH: true, LBU: false, LHU: false, LW: false}
	for op, want := range signed {
		if got := op.Signed(); got != want {
			t.Errorf("%s.Signed() = %v, want %v", op, got, want)
		}
	}
}

func TestIsMemoryOpRejectsOutOfRange(t *testing.T) {
	if IsMemoryOp(Opcode(opcodeCount)) {
		t.Error("opcodeCount itself must not be a memory opcode")
	}
	if IsMemoryOp(Opcode(255)) {
		t.Error("255 must not be a memory opcode")
	}
}

func TestAllCount(t *testing.T) {
	if got := len(All()); got != 8 {
		t.Errorf("All() returned %d opcodes, want 8", got)
	}
}
