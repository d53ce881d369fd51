package fieldtype

import (
	"fmt"
	"math/rand"

	"github.com/maelig/go-cafuzz/bitstring"
	"github.com/maelig/go-cafuzz/internal/util"
	"github.com/maelig/go-cafuzz/ipm"
)

var _ DataType = (*Bytes)(nil)

// Bytes is the byte buffer variant. An optional alphabet restricts content
// to a fixed symbol set and swaps the boundary catalog from the generic bit
// patterns to alphabet legality values.
type Bytes struct {
	baseType
	alphabet []byte
}

// NewBytes creates a byte buffer type. Size bounds are byte aligned;
// without a size option the range spans 0 to MaxDataBits bits.
func NewBytes(opts ...Option) (*Bytes, error) {
	cfg := newTypeConfig(KindBytes, 8, 0, MaxDataBits)
	if err := cfg.applyOptions(opts); err != nil {
		return nil, err
	}

	return &Bytes{baseType: cfg.base(), alphabet: cfg.alphabet}, nil
}

// Alphabet returns the configured symbol set in ascending byte order, or
// nil without an alphabet constraint.
func (b *Bytes) Alphabet() []byte {
	if b.alphabet == nil {
		return nil
	}

	return util.CloneSlice(b.alphabet, len(b.alphabet))
}

// CanParse reports whether data is a non-empty, byte-aligned buffer within
// the size range whose bytes, under an alphabet constraint, all belong to
// the alphabet. It accepts []byte, string and byte-aligned
// *bitstring.BitString.
func (b *Bytes) CanParse(data any) (bool, error) {
	if data == nil {
		return false, ErrNoData
	}

	var buf []byte
	switch v := data.(type) {
	case []byte:
		buf = v
	case string:
		buf = []byte(v)
	case *bitstring.BitString:
		if v == nil {
			return false, ErrNoData
		}
		if v.Len()%8 != 0 {
			return false, nil
		}
		buf = v.Bytes()
	default:
		return false, nil
	}
	if len(buf) == 0 {
		return false, nil
	}
	if !b.lenInRange(uint(len(buf)) * 8) {
		return false, nil
	}
	if b.alphabet != nil {
		for _, c := range buf {
			if !b.inAlphabet(c) {
				return false, nil
			}
		}
	}

	return true, nil
}

// Generate returns the pinned value when set. With an alphabet it draws
// random alphabet symbols, otherwise random bytes, at a random byte length
// within the size range.
func (b *Bytes) Generate() (*bitstring.BitString, error) {
	if b.value != nil {
		return b.value, nil
	}
	size := b.randomSize()
	if b.alphabet == nil {
		return randomBits(size, b.endian), nil
	}

	return bitstring.FromBytes(b.legalBytes(size/8), b.endian), nil
}

// Encode converts a byte buffer to its canonical bits under the instance
// endianness. It accepts []byte and string.
func (b *Bytes) Encode(native any) (*bitstring.BitString, error) {
	switch v := native.(type) {
	case nil:
		return nil, ErrNoData
	case []byte:
		return bitstring.FromBytes(v, b.endian), nil
	case string:
		return bitstring.FromBytes([]byte(v), b.endian), nil
	default:
		return nil, fmt.Errorf("%w: cannot encode %T as bytes", ErrInvalidValue, native)
	}
}

// Decode converts canonical bits to a byte buffer, zero padding a ragged
// final byte per the endianness.
func (b *Bytes) Decode(bits *bitstring.BitString) (any, error) {
	if bits == nil {
		return nil, ErrNoData
	}

	return bits.Bytes(), nil
}

// BoundaryValues returns the alphabet legality tags when an alphabet is
// configured, the generic bit tags otherwise, filtered by this instance's
// maximum size.
func (b *Bytes) BoundaryValues() []BoundaryValue {
	if b.alphabet != nil {
		return alphabetBoundaries(b.maxBits, b.unitSize)
	}

	return bitBoundaries(b.maxBits)
}

// Concretize pins the boundary value selected in values at the resolved
// size. Generic bit tags realize their pattern directly; legality tags draw
// alphabet symbols and place one byte from outside the alphabet per the
// tag, which requires an alphabet constraint.
func (b *Bytes) Concretize(values map[string]string) error {
	tag, ok := values[BoundaryParam]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoBoundarySpec, b.kind)
	}
	size, err := b.resolveSize(values)
	if err != nil {
		return err
	}
	if v, generic := concretizeBits(tag, size, b.endian); generic {
		b.pin(v)

		return nil
	}

	switch tag {
	case TagLegal, TagIllegalStart, TagIllegalEnd, TagIllegalRand:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBoundaryTag, tag)
	}
	if b.alphabet == nil {
		return fmt.Errorf("%w: %q", ErrAlphabetRequired, tag)
	}

	n := size / 8
	buf := b.legalBytes(n)
	if tag != TagLegal {
		b.placeIllegal(tag, buf)
	}
	b.pin(bitstring.FromBytes(buf, b.endian))

	return nil
}

// IPMParams contributes the boundary catalog and, for an open size range,
// the Size column.
func (b *Bytes) IPMParams() []ipm.Param {
	return b.ipmParams(b.BoundaryValues())
}

func (b *Bytes) inAlphabet(c byte) bool {
	for _, a := range b.alphabet {
		if a == c {
			return true
		}
	}

	return false
}

// legalBytes draws n random symbols from the alphabet.
func (b *Bytes) legalBytes(n uint) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b.alphabet[rand.Intn(len(b.alphabet))]
	}

	return out
}

// placeIllegal overwrites one position of buf with a byte from outside the
// alphabet: the first for TagIllegalStart, the last for TagIllegalEnd, and
// a random interior position for TagIllegalRand. Below three bytes no
// interior position exists and the byte lands at the start.
func (b *Bytes) placeIllegal(tag string, buf []byte) {
	n := len(buf)
	if n == 0 {
		return
	}
	switch tag {
	case TagIllegalStart:
		buf[0] = b.illegalByte()
	case TagIllegalEnd:
		buf[n-1] = b.illegalByte()
	case TagIllegalRand:
		pos := 0
		if n > 2 {
			pos = 1 + rand.Intn(n-2)
		}
		buf[pos] = b.illegalByte()
	}
}

// illegalByte draws a byte below 0x80 outside the alphabet. Construction
// guarantees at least one exists.
func (b *Bytes) illegalByte() byte {
	c := byte(rand.Intn(128))
	for b.inAlphabet(c) {
		c = byte(rand.Intn(128))
	}

	return c
}
