package trace

import (
	"github.com/oisee/loadstore-chip/pkg/constraints"
	"github.com/oisee/loadstore-chip/pkg/field"
)

// ConstraintColumns is the fixed mapping from this package's Column layout to
// the constraint emitter's column set.
var ConstraintColumns = constraints.ColumnSet{
	IsSb: int(IsSb), IsSh: int(IsSh), IsSw: int(IsSw),
	IsLb: int(IsLb), IsLbu: int(IsLbu), IsLh: int(IsLh), IsLhu: int(IsLhu), IsLw: int(IsLw),
	Ram1Accessed: int(LaneAccessed(1)), Ram2Accessed: int(LaneAccessed(2)),
	Ram3Accessed: int(LaneAccessed(3)), Ram4Accessed: int(LaneAccessed(4)),
}

// RowEvaluator adapts one trace row to constraints.Evaluator, collecting
// every nonzero constraint expression as a violation.
type RowEvaluator struct {
	row        RowView
	Violations []field.Element
}

// NewRowEvaluator returns an evaluator over the given row.
func NewRowEvaluator(row RowView) *RowEvaluator {
	return &RowEvaluator{row: row}
}

// Get implements constraints.Evaluator.
func (e *RowEvaluator) Get(col constraints.Column) field.Element {
	return e.row.Get(Column(col))
}

// AddConstraint implements constraints.Evaluator.
func (e *RowEvaluator) AddConstraint(expr field.Element) {
	if !expr.IsZero() {
		e.Violations = append(e.Violations, expr)
	}
}

// CheckRow evaluates every constraint against row and reports whether all of
// them held.
func CheckRow(row RowView) (ok bool, violations []field.Element) {
	eval := NewRowEvaluator(row)
	constraints.AddConstraints(eval, ConstraintColumns)
	return len(eval.Violations) == 0, eval.Violations
}
