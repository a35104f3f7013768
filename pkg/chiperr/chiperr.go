// Package chiperr defines the chip's structural error surface. Every error
// here is fatal: the populator detected the upstream execution step cannot
// produce a valid trace, and the caller is expected to propagate it
// unchanged rather than attempt recovery.
package chiperr

import "fmt"

// Kind identifies which invariant was violated.
type Kind string

const (
	OpcodeMismatch           Kind = "OpcodeMismatch"
	TimestampMismatch        Kind = "TimestampMismatch"
	AddressMismatch          Kind = "AddressMismatch"
	ValueOutOfWidth          Kind = "ValueOutOfWidth"
	MemoryLogMismatch        Kind = "MemoryLogMismatch"
	AddressOverflow          Kind = "AddressOverflow"
	TimestampFieldOverflow   Kind = "TimestampFieldOverflow"
	UnreconciledPublicInput  Kind = "UnreconciledPublicInput"
	UnreconciledPublicOutput Kind = "UnreconciledPublicOutput"
)

// Error is a fatal, structural error raised synchronously by the component
// that detected it. RowIndex and Address are filled in whenever known; Want
// and Got hold the mismatching pair for debuggability.
type Error struct {
	Kind     Kind
	RowIndex int
	Address  uint32
	HasAddr  bool
	Want     any
	Got      any
	Msg      string
}

func (e *Error) Error() string {
	addr := ""
	if e.HasAddr {
		addr = fmt.Sprintf(" address=%#x", e.Address)
	}
	if e.Want != nil || e.Got != nil {
		return fmt.Sprintf("%s: row=%d%s: want %v, got %v (%s)", e.Kind, e.RowIndex, addr, e.Want, e.Got, e.Msg)
	}
	return fmt.Sprintf("%s: row=%d%s: %s", e.Kind, e.RowIndex, addr, e.Msg)
}

// New constructs a plain structural error with no want/got pair.
func New(kind Kind, rowIndex int, msg string) *Error {
	return &Error{Kind: kind, RowIndex: rowIndex, Msg: msg}
}

// NewMismatch constructs a structural error carrying the mismatching pair.
func NewMismatch(kind Kind, rowIndex int, want, got any, msg string) *Error {
	return &Error{Kind: kind, RowIndex: rowIndex, Want: want, Got: got, Msg: msg}
}

// WithAddress attaches the offending address and returns the receiver, for
// chaining at the call site: chiperr.New(...).WithAddress(addr).
func (e *Error) WithAddress(addr uint32) *Error {
	e.Address = addr
	e.HasAddr = true
	return e
}

// IsKind reports whether err is a *chiperr.Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
