package constraints

import (
	"testing"

	"github.com/oisee/loadstore-chip/pkg/field"
)

// mapEvaluator is a minimal in-test Evaluator backed by a column->value map,
// used to exercise AddConstraints without depending on pkg/trace.
type mapEvaluator struct {
	values     map[Column]field.Element
	violations []field.Element
}

func (e *mapEvaluator) Get(col Column) field.Element {
	return e.values[col]
}

func (e *mapEvaluator) AddConstraint(expr field.Element) {
	if !expr.IsZero() {
		e.violations = append(e.violations, expr)
	}
}

var testCols = ColumnSet{
	IsSb: 0, IsSh: 1, IsSw: 2, IsLb: 3, IsLbu: 4, IsLh: 5, IsLhu: 6, IsLw: 7,
	Ram1Accessed: 8, Ram2Accessed: 9, Ram3Accessed: 10, Ram4Accessed: 11,
}

func rowFor(flagCol Column, size int) *mapEvaluator {
	values := map[Column]field.Element{}
	values[flagCol] = field.One
	values[testCols.Ram1Accessed] = field.One
	if size >= 2 {
		values[testCols.Ram2Accessed] = field.One
	}
	if size == 4 {
		values[testCols.Ram3Accessed] = field.One
		values[testCols.Ram4Accessed] = field.One
	}
	return &mapEvaluator{values: values}
}

func TestValidRowsSatisfyAllConstraints(t *testing.T) {
	cases := []struct {
		name string
		col  Column
		size int
	}{
		{"SB", testCols.IsSb, 1}, {"LB", testCols.IsLb, 1}, {"LBU", testCols.IsLbu, 1},
		{"SH", testCols.IsSh, 2}, {"LH", testCols.IsLh, 2}, {"LHU", testCols.IsLhu, 2},
		{"SW", testCols.IsSw, 4}, {"LW", testCols.IsLw, 4},
	}
	for _, c := range cases {
		eval := rowFor(c.col, c.size)
		AddConstraints(eval, testCols)
		if len(eval.violations) != 0 {
			t.Errorf("%s: expected no constraint violations, got %v", c.name, eval.violations)
		}
	}
}

func TestNonMemoryRowSatisfiesConstraints(t *testing.T) {
	eval := &mapEvaluator{values: map[Column]field.Element{}}
	AddConstraints(eval, testCols)
	if len(eval.violations) != 0 {
		t.Errorf("an all-zero row should satisfy every constraint, got %v", eval.violations)
	}
}

func TestByteOpWithLane2SetViolatesConstraint(t *testing.T) {
	eval := rowFor(testCols.IsSb, 1)
	eval.values[testCols.Ram2Accessed] = field.One // wrong: byte op must not touch lane 2
	AddConstraints(eval, testCols)
	if len(eval.violations) == 0 {
		t.Error("expected a violation when a byte op sets Ram2Accessed")
	}
}

func TestWordOpMissingLane3Violates(t *testing.T) {
	eval := rowFor(testCols.IsSw, 4)
	delete(eval.values, testCols.Ram3Accessed)
	AddConstraints(eval, testCols)
	if len(eval.violations) == 0 {
		t.Error("expected a violation when a word op leaves Ram3Accessed unset")
	}
}
