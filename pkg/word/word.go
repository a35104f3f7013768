// Package word implements little-endian 32-bit word encoding, sign/zero
// extension for sub-word loads, and carry-tracked address addition.
package word

// AccessSize is the width of a memory access.
type AccessSize int

const (
	Byte AccessSize = iota
	Half
	Word32
)

// Lanes returns the number of byte lanes an access of this width touches.
func (s AccessSize) Lanes() int {
	switch s {
	case Byte:
		return 1
	case Half:
		return 2
	case Word32:
		return 4
	default:
		panic("word: invalid AccessSize")
	}
}

// Word is the little-endian 4-byte decomposition of a 32-bit value.
type Word [4]byte

// Carries is the per-limb carry-out vector produced by AddWithCarries.
// c3 is the carry out of the top limb (the 33rd bit); it is recorded but
// never folded back into the 32-bit result.
type Carries [4]uint8

// Encode packs v into its little-endian byte form.
func Encode(v uint32) Word {
	return Word{
		byte(v),
		byte(v >> 8),
		byte(v >> 16),
		byte(v >> 24),
	}
}

// Decode unpacks a little-endian Word into a 32-bit value.
func Decode(w Word) uint32 {
	return uint32(w[0]) | uint32(w[1])<<8 | uint32(w[2])<<16 | uint32(w[3])<<24
}

// AddWithCarries performs little-endian byte-wise addition of a and b,
// returning the 4-byte result (a + b mod 2^32) and the per-limb carry-out
// vector.
func AddWithCarries(a, b Word) (Word, Carries) {
	var result Word
	var carries Carries
	var carry uint16
	for i := 0; i < 4; i++ {
		sum := uint16(a[i]) + uint16(b[i]) + carry
		result[i] = byte(sum)
		if sum > 0xff {
			carry = 1
		} else {
			carry = 0
		}
		carries[i] = uint8(carry)
	}
	return result, carries
}

// SignExtend widens value to 32 bits by replicating the top bit of the given
// width (bit 7 for Byte, bit 15 for Half; Word32 is the identity).
func SignExtend(value uint32, width AccessSize) uint32 {
	switch width {
	case Byte:
		return uint32(int32(int8(value)))
	case Half:
		return uint32(int32(int16(value)))
	case Word32:
		return value
	default:
		panic("word: invalid AccessSize")
	}
}

// ZeroExtend widens value to 32 bits by masking to the given width.
func ZeroExtend(value uint32, width AccessSize) uint32 {
	switch width {
	case Byte:
		return value & 0xff
	case Half:
		return value & 0xffff
	case Word32:
		return value
	default:
		panic("word: invalid AccessSize")
	}
}
