// Package constraints declares the low-degree polynomial relations an honest
// trace must satisfy. The evaluator abstraction is intentionally small: a
// "look up this row's column" capability plus an "add constraint" sink, so
// the same constraint code can run against a concrete field.Element row (as
// in this repository's own tests and the remote batch verifier) or against
// whatever polynomial-evaluation-at-a-point capability a real IOP backend
// provides upstream.
package constraints

import "github.com/oisee/loadstore-chip/pkg/field"

// Column is duplicated as a narrow local alias so this package does not need
// to import pkg/trace's Column type directly; Evaluator implementations
// supply their own column ids consistent with pkg/trace.
type Column = int

// Evaluator is the capability the constraint emitter needs: look up a
// column's value on the current row, and record a constraint expression
// that must evaluate to zero.
type Evaluator interface {
	Get(col Column) field.Element
	AddConstraint(expr field.Element)
}

// AddConstraints emits the seven load/store constraints against eval,
// evaluated for whatever row eval currently represents.
func AddConstraints(eval Evaluator, cols ColumnSet) {
	isSb := eval.Get(cols.IsSb)
	isSh := eval.Get(cols.IsSh)
	isSw := eval.Get(cols.IsSw)
	isLb := eval.Get(cols.IsLb)
	isLh := eval.Get(cols.IsLh)
	isLbu := eval.Get(cols.IsLbu)
	isLhu := eval.Get(cols.IsLhu)
	isLw := eval.Get(cols.IsLw)

	ram1Accessed := eval.Get(cols.Ram1Accessed)
	ram2Accessed := eval.Get(cols.Ram2Accessed)
	ram3Accessed := eval.Get(cols.Ram3Accessed)
	ram4Accessed := eval.Get(cols.Ram4Accessed)

	anyMemOp := isSb.Add(isSh).Add(isSw).Add(isLb).Add(isLh).Add(isLbu).Add(isLhu).Add(isLw)

	// 1. Any memory opcode activates lane 1.
	eval.AddConstraint(anyMemOp.Mul(ram1Accessed.Complement()))

	// 2/3. Lane 2 activates for width >= 2, stays off for byte-only ops.
	byteOnly := isSb.Add(isLb).Add(isLbu)
	wideOps := isSh.Add(isSw).Add(isLh).Add(isLhu).Add(isLw)
	eval.AddConstraint(byteOnly.Mul(ram2Accessed))
	eval.AddConstraint(wideOps.Mul(ram2Accessed.Complement()))

	// 4/5. Lane 3 activates only for word-width ops.
	subWordOps := isSb.Add(isSh).Add(isLb).Add(isLh).Add(isLhu).Add(isLbu)
	wordOps := isSw.Add(isLw)
	eval.AddConstraint(subWordOps.Mul(ram3Accessed))
	eval.AddConstraint(wordOps.Mul(ram3Accessed.Complement()))

	// 6/7. Lane 4 activates only for word-width ops.
	eval.AddConstraint(subWordOps.Mul(ram4Accessed))
	eval.AddConstraint(wordOps.Mul(ram4Accessed.Complement()))
}

// ColumnSet names the columns AddConstraints reads, decoupling this package
// from any one trace layout.
type ColumnSet struct {
	IsSb, IsSh, IsSw, IsLb, IsLbu, IsLh, IsLhu, IsLw Column
	Ram1Accessed, Ram2Accessed, Ram3Accessed, Ram4Accessed Column
}

// LookupExtensionPoint reserves the attachment point for the future
// logup/lookup argument that binds (address+i, ts_prev, val_prev) and
// (address+i, ts, val_cur) tuples into a multiset permutation check against
// the initial/final memory columns. It is deliberately a no-op today; wiring
// it up is deferred to the polynomial commitment layer this chip feeds.
func LookupExtensionPoint(Evaluator, ColumnSet) {
	// Deferred: see package doc.
}
