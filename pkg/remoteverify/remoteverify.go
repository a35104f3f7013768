// Package remoteverify implements a length-prefixed binary protocol for
// re-checking already-populated trace rows against the constraint system in
// an external process, parallelizing verification of a sequential trace
// across OS processes without touching how it was built.
package remoteverify

import (
	"encoding/binary"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/oisee/loadstore-chip/pkg/constraints"
	"github.com/oisee/loadstore-chip/pkg/field"
	"github.com/oisee/loadstore-chip/pkg/trace"
)

// sliceEvaluator adapts a raw row of field elements (as decoded off the
// wire) to constraints.Evaluator, without requiring a *trace.Trace.
type sliceEvaluator struct {
	cells      []field.Element
	violations int
}

func (e *sliceEvaluator) Get(col constraints.Column) field.Element {
	return e.cells[col]
}

func (e *sliceEvaluator) AddConstraint(expr field.Element) {
	if !expr.IsZero() {
		e.violations++
	}
}

// ServeConstraints runs the server side of the protocol: it reads batches
// from r (a header followed by rowCount rows of columnCount little-endian
// uint32 cells each) and writes a one-byte-per-row pass/fail bitmap to w,
// looping until r returns io.EOF at a header boundary. columnCount must
// match trace.NumColumns().
func ServeConstraints(r io.Reader, w io.Writer, columnCount int) error {
	for {
		rowCount, gotColumnCount, err := readHeader(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("remoteverify: read header: %w", err)
		}
		if int(gotColumnCount) != columnCount {
			return fmt.Errorf("remoteverify: column count mismatch: server expects %d, batch declared %d", columnCount, gotColumnCount)
		}

		bitmap := make([]byte, rowCount)
		for i := uint32(0); i < rowCount; i++ {
			cells, err := readRow(r, int(gotColumnCount))
			if err != nil {
				return fmt.Errorf("remoteverify: read row %d: %w", i, err)
			}
			eval := &sliceEvaluator{cells: cells}
			constraints.AddConstraints(eval, trace.ConstraintColumns)
			if eval.violations == 0 {
				bitmap[i] = 1
			}
		}

		if _, err := w.Write(bitmap); err != nil {
			return fmt.Errorf("remoteverify: write bitmap: %w", err)
		}
	}
}

func readHeader(r io.Reader) (rowCount, columnCount uint32, err error) {
	var header [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return 0, 0, err
	}
	return header[0], header[1], nil
}

func readRow(r io.Reader, columnCount int) ([]field.Element, error) {
	raw := make([]uint32, columnCount)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, err
	}
	cells := make([]field.Element, columnCount)
	for i, v := range raw {
		cells[i] = field.Element(v)
	}
	return cells, nil
}

func writeRow(w io.Writer, row trace.RowView, columnCount int) error {
	raw := make([]uint32, columnCount)
	for i := 0; i < columnCount; i++ {
		raw[i] = row.Get(trace.Column(i)).Uint32()
	}
	return binary.Write(w, binary.LittleEndian, raw)
}

// VerifyBatchOverPipe is the client side of the protocol: it writes rows'
// header and cell data to w, then reads back a pass/fail bitmap from r. It
// takes raw reader/writer halves so it can be exercised directly over an
// in-process io.Pipe as well as over a subprocess's stdin/stdout.
func VerifyBatchOverPipe(rows []trace.RowView, columnCount int, w io.Writer, r io.Reader) ([]bool, error) {
	header := [2]uint32{uint32(len(rows)), uint32(columnCount)}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("remoteverify: write header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(w, row, columnCount); err != nil {
			return nil, fmt.Errorf("remoteverify: write row %d: %w", i, err)
		}
	}

	bitmap := make([]byte, len(rows))
	if _, err := io.ReadFull(r, bitmap); err != nil {
		return nil, fmt.Errorf("remoteverify: read bitmap: %w", err)
	}
	results := make([]bool, len(rows))
	for i, b := range bitmap {
		results[i] = b != 0
	}
	return results, nil
}

// Client manages a long-running remoteverify server subprocess, serializing
// batch requests against it the way the teacher's CUDAProcess serializes
// fingerprint queries against its GPU server.
type Client struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	mu     sync.Mutex
}

// NewClient starts binaryPath (expected to run ServeConstraints over its
// own stdin/stdout) as a subprocess.
func NewClient(binaryPath string, args ...string) (*Client, error) {
	cmd := exec.Command(binaryPath, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("remoteverify: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("remoteverify: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("remoteverify: start %s: %w", binaryPath, err)
	}
	return &Client{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

// VerifyBatch uploads rows to the server and returns its pass/fail verdict
// for each, in order.
func (c *Client) VerifyBatch(rows []trace.RowView) ([]bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return VerifyBatchOverPipe(rows, trace.NumColumns(), c.stdin, c.stdout)
}

// Close shuts down the server subprocess.
func (c *Client) Close() error {
	c.stdin.Close()
	return c.cmd.Wait()
}
