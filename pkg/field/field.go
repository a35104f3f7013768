// Package field implements arithmetic over the Mersenne-31 base field used by
// the trace: every column cell is a field.Element, not a raw machine integer.
package field

import "fmt"

// P is the field modulus, 2^31 - 1 (a Mersenne prime).
const P uint32 = (1 << 31) - 1

// Element is a value in [0, P). The zero value is the field's zero.
type Element uint32

// Zero and One are the additive and multiplicative identities.
const (
	Zero Element = 0
	One  Element = 1
)

// FromU32 reduces v modulo P. v need not already be below P.
func FromU32(v uint32) Element {
	return Element(uint64(v) % uint64(P))
}

// FromU32Unchecked builds an Element from a value already known to be < P.
// Panics if the precondition is violated, mirroring the reference design's
// assertion that a value fits the field before it is ever stored.
func FromU32Unchecked(v uint32) Element {
	if v >= P {
		panic(fmt.Sprintf("field: value %d out of range [0, %d)", v, P))
	}
	return Element(v)
}

// FromBool lifts a boolean flag into {0, 1}.
func FromBool(b bool) Element {
	if b {
		return One
	}
	return Zero
}

// Add returns a + b mod P.
func (a Element) Add(b Element) Element {
	s := uint64(a) + uint64(b)
	if s >= uint64(P) {
		s -= uint64(P)
	}
	return Element(s)
}

// Sub returns a - b mod P.
func (a Element) Sub(b Element) Element {
	if a >= b {
		return a - b
	}
	return Element(uint64(P) - uint64(b) + uint64(a))
}

// Mul returns a * b mod P.
func (a Element) Mul(b Element) Element {
	return Element((uint64(a) * uint64(b)) % uint64(P))
}

// Complement returns 1 - a, used throughout the constraint emitter for
// boolean-flag exclusivity checks.
func (a Element) Complement() Element {
	return One.Sub(a)
}

// IsZero reports whether a is the field's zero element.
func (a Element) IsZero() bool {
	return a == Zero
}

// Uint32 returns the element's canonical representative.
func (a Element) Uint32() uint32 {
	return uint32(a)
}

// String implements fmt.Stringer.
func (a Element) String() string {
	return fmt.Sprintf("%d", uint32(a))
}
