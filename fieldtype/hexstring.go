package fieldtype

import (
	"encoding/hex"
	"fmt"

	"github.com/maelig/go-cafuzz/bitstring"
	"github.com/maelig/go-cafuzz/ipm"
)

var _ DataType = (*HexString)(nil)

// HexString is the hexadecimal text variant. Its native form is a string of
// lowercase hex digits, each denoting four bits.
type HexString struct {
	baseType
}

// NewHexString creates a hexadecimal string type. Size bounds are in bits
// and must be multiples of the 4-bit digit unit; without a size option the
// range spans 0 to MaxDataBits bits.
func NewHexString(opts ...Option) (*HexString, error) {
	cfg := newTypeConfig(KindHexString, 4, 0, MaxDataBits)
	if err := cfg.applyOptions(opts); err != nil {
		return nil, err
	}

	return &HexString{baseType: cfg.base()}, nil
}

// CanParse reports whether data is a non-empty string of lowercase hex
// digits whose denoted size, four bits per digit, lies within the size
// range. It accepts string and []byte.
func (h *HexString) CanParse(data any) (bool, error) {
	if data == nil {
		return false, ErrNoData
	}

	var s string
	switch v := data.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return false, nil
	}
	if len(s) == 0 {
		return false, nil
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false, nil
		}
	}

	return h.lenInRange(uint(len(s)) * 4), nil
}

// Generate returns the pinned value when set, or draws random bits at a
// random whole-digit length within the size range.
func (h *HexString) Generate() (*bitstring.BitString, error) {
	if h.value != nil {
		return h.value, nil
	}

	return randomBits(h.randomSize(), h.endian), nil
}

// Encode converts a hex string to its canonical bits. An odd-length input
// is left-padded with a zero digit first, so a lone digit encodes to a whole
// byte.
func (h *HexString) Encode(native any) (*bitstring.BitString, error) {
	var s string
	switch v := native.(type) {
	case nil:
		return nil, ErrNoData
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return nil, fmt.Errorf("%w: cannot encode %T as a hex string", ErrInvalidValue, native)
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	return bitstring.FromBytes(raw, h.endian), nil
}

// Decode converts canonical bits to a lowercase hex string, zero padding a
// ragged final byte per the endianness.
func (h *HexString) Decode(bits *bitstring.BitString) (any, error) {
	if bits == nil {
		return nil, ErrNoData
	}

	return hex.EncodeToString(bits.Bytes()), nil
}

// BoundaryValues returns the generic bit tags feasible at this instance's
// maximum size.
func (h *HexString) BoundaryValues() []BoundaryValue {
	return bitBoundaries(h.maxBits)
}

// Concretize pins the generic bit pattern selected in values at the resolved
// size.
func (h *HexString) Concretize(values map[string]string) error {
	return h.concretizeGeneric(values)
}

// IPMParams contributes the boundary catalog and, for an open size range,
// the Size column.
func (h *HexString) IPMParams() []ipm.Param {
	return h.ipmParams(h.BoundaryValues())
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}
