package trace

import (
	"testing"

	"github.com/oisee/loadstore-chip/pkg/field"
	"github.com/oisee/loadstore-chip/pkg/word"
)

func TestSetGet(t *testing.T) {
	tr := New(4)
	tr.Set(2, ValueA, field.FromU32(42))
	if got := tr.Get(2, ValueA); got != field.FromU32(42) {
		t.Errorf("Get(2, ValueA) = %v, want 42", got)
	}
	if got := tr.Get(0, ValueA); got != field.Zero {
		t.Errorf("untouched cell should be zero, got %v", got)
	}
}

func TestFillColumnsWord(t *testing.T) {
	tr := New(2)
	w := word.Encode(0x01020304)
	tr.FillColumns(0, w, RamBaseAddr())
	for i := 0; i < 4; i++ {
		want := field.FromU32(uint32(w[i]))
		if got := tr.Get(0, RamBaseAddr()+Column(i)); got != want {
			t.Errorf("limb %d = %v, want %v", i, got, want)
		}
	}
}

func TestFillColumnsBool(t *testing.T) {
	tr := New(1)
	tr.FillColumns(0, true, LaneAccessed(1))
	if got := tr.Get(0, LaneAccessed(1)); got != field.One {
		t.Errorf("bool true should fill field.One, got %v", got)
	}
}

func TestRowViewAliasesCells(t *testing.T) {
	tr := New(3)
	tr.Set(1, ValueB, field.FromU32(7))
	row := tr.Row(1)
	if got := row.Get(ValueB); got != field.FromU32(7) {
		t.Errorf("RowView.Get(ValueB) = %v, want 7", got)
	}
}

func TestOutOfRangePanics(t *testing.T) {
	tr := New(1)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range row")
		}
	}()
	tr.Get(5, ValueA)
}

func TestLaneColumnsDistinct(t *testing.T) {
	seen := map[Column]bool{}
	for i := 1; i <= 4; i++ {
		for _, c := range []Column{LaneValCur(i), LaneValPrev(i), LaneTsPrev(i), LaneAccessed(i)} {
			if seen[c] {
				t.Fatalf("column %d reused across lanes", c)
			}
			seen[c] = true
		}
	}
}
