// Package tracefile implements the chip's two on-disk artifacts: a JSON
// codec for the execution-step program the chip consumes, and a gob codec
// for the verification report the chip's consumers produce, modeled on the
// teacher's checkpoint format for resumable batch work.
package tracefile

import (
	"encoding/gob"
	"encoding/json"
	"io"
	"os"

	"github.com/oisee/loadstore-chip/pkg/step"
)

// Program is the chip's complete input: an ordered step stream plus the
// public input/output declarations and the target trace size.
type Program struct {
	Steps        []step.ExecutionStep
	PublicInput  map[uint32]byte
	PublicOutput []uint32
	NumRows      int
}

// ReadProgram decodes a Program from JSON.
func ReadProgram(r io.Reader) (*Program, error) {
	var p Program
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// WriteProgram encodes p as JSON.
func WriteProgram(w io.Writer, p *Program) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// ReadProgramFile opens path and decodes a Program from it.
func ReadProgramFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadProgram(f)
}

// WriteProgramFile creates (or truncates) path and encodes p into it.
func WriteProgramFile(path string, p *Program) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteProgram(f, p)
}

// RowVerdict is one row's pass/fail outcome, carried in a VerificationReport.
type RowVerdict struct {
	Row     int
	Ok      bool
	Message string
}

// VerificationReport is the resumable state a batch verification run
// accumulates: which rows have been checked so far and what they found.
type VerificationReport struct {
	TotalRows   int
	CheckedRows int
	Failures    []RowVerdict
}

func init() {
	gob.Register(RowVerdict{})
}

// SaveReport gob-encodes rep to path, overwriting any existing file.
func SaveReport(path string, rep *VerificationReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(rep)
}

// LoadReport decodes a VerificationReport previously written by SaveReport.
func LoadReport(path string) (*VerificationReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rep VerificationReport
	if err := gob.NewDecoder(f).Decode(&rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
