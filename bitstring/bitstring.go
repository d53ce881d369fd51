package bitstring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrEndianMismatch indicates an operation combined bit strings with different endianness tags.
	ErrEndianMismatch = errors.New("endianness mismatch")
	// ErrBitWidth indicates a bit width outside the 1..64 range supported by integer conversion.
	ErrBitWidth = errors.New("bit width not in 1..64")
	// ErrValueTooLarge indicates an integer value that does not fit the requested bit width.
	ErrValueTooLarge = errors.New("value does not fit bit width")
	// ErrInvalidBitChar indicates a textual bit string containing a character other than '0' or '1'.
	ErrInvalidBitChar = errors.New("invalid character in bit string")
)

// Endian represents the bit-to-byte mapping order of a BitString.
type Endian uint8

const (
	// BigEndian maps bit 0 to the most significant bit of byte 0.
	BigEndian Endian = iota
	// LittleEndian maps bit 0 to the least significant bit of byte 0.
	LittleEndian
)

// String returns a human-readable representation of the endianness.
func (e Endian) String() string {
	switch e {
	case BigEndian:
		return "big"
	case LittleEndian:
		return "little"
	default:
		return fmt.Sprintf("endian(%d)", uint8(e))
	}
}

// BitString is an ordered, fixed-length sequence of bits with an endianness tag.
// The zero value is not usable; create instances with New, FromBytes, FromBits,
// FromUint or Parse.
type BitString struct {
	bits   *bitset.BitSet
	endian Endian
}

// New creates a BitString of nbits zero bits.
func New(nbits uint, endian Endian) *BitString {
	return &BitString{bits: bitset.New(nbits), endian: endian}
}

// FromBytes creates a BitString of 8*len(data) bits from raw bytes,
// mapping bytes to bits according to endian.
func FromBytes(data []byte, endian Endian) *BitString {
	b := New(uint(len(data))*8, endian)
	for i := range data {
		for j := uint(0); j < 8; j++ {
			var bit bool
			if endian == BigEndian {
				bit = data[i]>>(7-j)&1 == 1
			} else {
				bit = data[i]>>j&1 == 1
			}
			b.bits.SetTo(uint(i)*8+j, bit)
		}
	}

	return b
}

// FromBits creates a BitString from explicit bit values; bits[i] becomes bit i.
func FromBits(bits []bool, endian Endian) *BitString {
	b := New(uint(len(bits)), endian)
	for i, v := range bits {
		b.bits.SetTo(uint(i), v)
	}

	return b
}

// FromUint creates a BitString of nbits bits encoding v.
// In big-endian order bit 0 receives the most significant bit of the encoded
// value; in little-endian order bit 0 receives the least significant bit.
// It fails when nbits is outside 1..64 or v does not fit in nbits bits.
func FromUint(v uint64, nbits uint, endian Endian) (*BitString, error) {
	if nbits < 1 || nbits > 64 {
		return nil, fmt.Errorf("%w: %d", ErrBitWidth, nbits)
	}
	if nbits < 64 && v >= 1<<nbits {
		return nil, fmt.Errorf("%w: %d needs more than %d bits", ErrValueTooLarge, v, nbits)
	}

	b := New(nbits, endian)
	for i := uint(0); i < nbits; i++ {
		var bit bool
		if endian == BigEndian {
			bit = v>>(nbits-1-i)&1 == 1
		} else {
			bit = v>>i&1 == 1
		}
		b.bits.SetTo(i, bit)
	}

	return b, nil
}

// Parse creates a BitString from a textual run of '0' and '1' characters,
// where the first character becomes bit 0.
func Parse(s string, endian Endian) (*BitString, error) {
	b := New(uint(len(s)), endian)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			b.bits.Set(uint(i))
		default:
			return nil, fmt.Errorf("%w: %q at index %d", ErrInvalidBitChar, s[i], i)
		}
	}

	return b, nil
}

// Len returns the number of bits.
func (b *BitString) Len() uint {
	return b.bits.Len()
}

// Endian returns the endianness tag.
func (b *BitString) Endian() Endian {
	return b.endian
}

// Bit returns bit i. It panics when i is out of range.
func (b *BitString) Bit(i uint) bool {
	b.checkIndex(i)
	return b.bits.Test(i)
}

// SetBit sets bit i to v. It panics when i is out of range.
func (b *BitString) SetBit(i uint, v bool) *BitString {
	b.checkIndex(i)
	b.bits.SetTo(i, v)

	return b
}

// SetAll sets every bit to 1.
func (b *BitString) SetAll() *BitString {
	b.bits.SetAll()
	return b
}

// ClearAll sets every bit to 0.
func (b *BitString) ClearAll() *BitString {
	b.bits.ClearAll()
	return b
}

// SetRange sets the bits in [start, end) to 1. It panics when the range is
// out of bounds; an empty range is a no-op.
func (b *BitString) SetRange(start, end uint) *BitString {
	if start >= end {
		return b
	}
	b.checkIndex(end - 1)
	for i := start; i < end; i++ {
		b.bits.Set(i)
	}

	return b
}

// OnesCount returns the number of bits set to 1.
func (b *BitString) OnesCount() uint {
	return b.bits.Count()
}

// Bytes converts the bit sequence to bytes according to the endianness tag.
// When the length is not a byte multiple, the unused positions of the final
// byte read as zero.
func (b *BitString) Bytes() []byte {
	n := b.Len()
	out := make([]byte, (n+7)/8)
	for i := uint(0); i < n; i++ {
		if !b.bits.Test(i) {
			continue
		}
		if b.endian == BigEndian {
			out[i/8] |= 1 << (7 - i%8)
		} else {
			out[i/8] |= 1 << (i % 8)
		}
	}

	return out
}

// Uint interprets the bit sequence as an unsigned integer per the endianness
// tag. It fails when the length is outside 1..64.
func (b *BitString) Uint() (uint64, error) {
	n := b.Len()
	if n < 1 || n > 64 {
		return 0, fmt.Errorf("%w: %d", ErrBitWidth, n)
	}

	var v uint64
	for i := uint(0); i < n; i++ {
		if !b.bits.Test(i) {
			continue
		}
		if b.endian == BigEndian {
			v |= 1 << (n - 1 - i)
		} else {
			v |= 1 << i
		}
	}

	return v, nil
}

// Equal reports whether other has the same endianness, length and bits.
func (b *BitString) Equal(other *BitString) bool {
	if other == nil {
		return false
	}
	if b.endian != other.endian {
		return false
	}

	return b.bits.Equal(other.bits)
}

// Clone returns an independent copy.
func (b *BitString) Clone() *BitString {
	return &BitString{bits: b.bits.Clone(), endian: b.endian}
}

// String returns the bits as a run of '0' and '1' characters, bit 0 first.
func (b *BitString) String() string {
	var sb strings.Builder
	n := b.Len()
	sb.Grow(int(n))
	for i := uint(0); i < n; i++ {
		if b.bits.Test(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// Concat joins parts into a new BitString. All parts must share the same
// endianness; the result of joining zero parts is an empty big-endian string.
func Concat(parts ...*BitString) (*BitString, error) {
	if len(parts) == 0 {
		return New(0, BigEndian), nil
	}

	endian := parts[0].endian
	total := uint(0)
	for _, p := range parts {
		if p.endian != endian {
			return nil, fmt.Errorf("%w: %s vs %s", ErrEndianMismatch, endian, p.endian)
		}
		total += p.Len()
	}

	out := New(total, endian)
	offset := uint(0)
	for _, p := range parts {
		n := p.Len()
		for i := uint(0); i < n; i++ {
			out.bits.SetTo(offset+i, p.bits.Test(i))
		}
		offset += n
	}

	return out, nil
}

func (b *BitString) checkIndex(i uint) {
	if i >= b.bits.Len() {
		panic(fmt.Sprintf("bitstring: index %d out of range [0,%d)", i, b.bits.Len()))
	}
}
