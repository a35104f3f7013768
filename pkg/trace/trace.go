// Package trace implements the chip's output: a column-indexed grid of
// field elements. Cells live in one flat buffer, not one slice per column;
// Column enumerates the grid's named quantities and FillColumns writes one
// or more consecutive columns for a row in a single call.
package trace

import (
	"fmt"

	"github.com/oisee/loadstore-chip/pkg/field"
	"github.com/oisee/loadstore-chip/pkg/word"
)

// Trace is a dense numRows x numColumns grid of field elements, stored
// row-major in one flat buffer.
type Trace struct {
	cells   []field.Element
	numRows int
}

// New allocates a zero-initialized trace with the given number of rows.
// numRows must be a power of two per the external interface contract
// (N = 2^k); New does not itself enforce this since a few tests exercise
// small, non-power-of-two row counts directly.
func New(numRows int) *Trace {
	if numRows <= 0 {
		panic("trace: numRows must be positive")
	}
	return &Trace{
		cells:   make([]field.Element, numRows*int(numColumns)),
		numRows: numRows,
	}
}

// NumRows returns the number of rows in the trace.
func (t *Trace) NumRows() int {
	return t.numRows
}

func (t *Trace) index(row int, col Column) int {
	if row < 0 || row >= t.numRows {
		panic(fmt.Sprintf("trace: row %d out of range [0,%d)", row, t.numRows))
	}
	if col < 0 || col >= numColumns {
		panic(fmt.Sprintf("trace: column %d out of range [0,%d)", col, numColumns))
	}
	return row*int(numColumns) + int(col)
}

// Get returns the field element at (row, col).
func (t *Trace) Get(row int, col Column) field.Element {
	return t.cells[t.index(row, col)]
}

// Set writes a single field element at (row, col).
func (t *Trace) Set(row int, col Column, v field.Element) {
	t.cells[t.index(row, col)] = v
}

// FillColumns writes value into column col of row, spilling into as many
// consecutive columns as the value's width requires: a bool or integer
// scalar occupies one column; a word.Word or word.Carries occupies four.
func (t *Trace) FillColumns(row int, value any, col Column) {
	switch v := value.(type) {
	case bool:
		t.Set(row, col, field.FromBool(v))
	case byte:
		t.Set(row, col, field.FromU32(uint32(v)))
	case uint32:
		t.Set(row, col, field.FromU32(v))
	case int:
		t.Set(row, col, field.FromU32(uint32(v)))
	case field.Element:
		t.Set(row, col, v)
	case word.Word:
		for i := 0; i < 4; i++ {
			t.Set(row, col+Column(i), field.FromU32(uint32(v[i])))
		}
	case word.Carries:
		for i := 0; i < 4; i++ {
			t.Set(row, col+Column(i), field.FromU32(uint32(v[i])))
		}
	default:
		panic(fmt.Sprintf("trace: FillColumns: unsupported value type %T", value))
	}
}

// RowView is a read-only snapshot of one row's cells, used by the constraint
// evaluator and the remote batch verifier.
type RowView struct {
	cells []field.Element
}

// Row returns a RowView over row's cells. The view aliases the trace's
// backing storage and must not be retained past further mutation of t.
func (t *Trace) Row(row int) RowView {
	start := t.index(row, 0)
	return RowView{cells: t.cells[start : start+int(numColumns)]}
}

// Get returns the field element at col within the row.
func (r RowView) Get(col Column) field.Element {
	return r.cells[col]
}

// NumColumns reports the number of columns in every row.
func NumColumns() int {
	return int(numColumns)
}
