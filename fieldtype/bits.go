package fieldtype

import (
	"fmt"

	"github.com/maelig/go-cafuzz/bitstring"
	"github.com/maelig/go-cafuzz/ipm"
)

var _ DataType = (*Bits)(nil)

// Bits is the raw bit string variant. It accepts any bit content whose
// length lies within the size range; its boundary values are the generic
// degenerate bit patterns.
type Bits struct {
	baseType
}

// NewBits creates a raw bit string type. Without a size option the range
// spans 0 to MaxDataBits bits.
func NewBits(opts ...Option) (*Bits, error) {
	cfg := newTypeConfig(KindBits, 1, 0, MaxDataBits)
	if err := cfg.applyOptions(opts); err != nil {
		return nil, err
	}

	return &Bits{baseType: cfg.base()}, nil
}

// CanParse reports whether data is non-empty bit content of a length within
// the size range. It accepts *bitstring.BitString, []bool and []byte.
func (b *Bits) CanParse(data any) (bool, error) {
	if data == nil {
		return false, ErrNoData
	}

	var n uint
	switch v := data.(type) {
	case *bitstring.BitString:
		if v == nil {
			return false, ErrNoData
		}
		n = v.Len()
	case []bool:
		n = uint(len(v))
	case []byte:
		n = uint(len(v)) * 8
	default:
		return false, nil
	}
	if n == 0 {
		return false, nil
	}

	return b.lenInRange(n), nil
}

// Generate returns the pinned value when set, or draws random bits at a
// random length within the size range.
func (b *Bits) Generate() (*bitstring.BitString, error) {
	if b.value != nil {
		return b.value, nil
	}

	return randomBits(b.randomSize(), b.endian), nil
}

// Encode converts raw bit content to its canonical form. A *BitString is
// cloned as is; []bool and []byte are mapped under the instance endianness.
func (b *Bits) Encode(native any) (*bitstring.BitString, error) {
	switch v := native.(type) {
	case nil:
		return nil, ErrNoData
	case *bitstring.BitString:
		if v == nil {
			return nil, ErrNoData
		}

		return v.Clone(), nil
	case []bool:
		return bitstring.FromBits(v, b.endian), nil
	case []byte:
		return bitstring.FromBytes(v, b.endian), nil
	default:
		return nil, fmt.Errorf("%w: cannot encode %T as bits", ErrInvalidValue, native)
	}
}

// Decode converts canonical bits to packed bytes, zero padding a ragged
// final byte per the endianness.
func (b *Bits) Decode(bits *bitstring.BitString) (any, error) {
	if bits == nil {
		return nil, ErrNoData
	}

	return bits.Bytes(), nil
}

// BoundaryValues returns the generic bit tags feasible at this instance's
// maximum size.
func (b *Bits) BoundaryValues() []BoundaryValue {
	return bitBoundaries(b.maxBits)
}

// Concretize pins the generic bit pattern selected in values at the resolved
// size.
func (b *Bits) Concretize(values map[string]string) error {
	return b.concretizeGeneric(values)
}

// IPMParams contributes the boundary catalog and, for an open size range,
// the Size column.
func (b *Bits) IPMParams() []ipm.Param {
	return b.ipmParams(b.BoundaryValues())
}
