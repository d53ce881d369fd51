package fieldtype

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/maelig/go-cafuzz/bitstring"
	"github.com/maelig/go-cafuzz/ipm"
)

// MaxDataBits caps resolved and generated sizes when no upper bound is
// configured.
const MaxDataBits uint = 65536

// Parameter names used in concretization instruction sets and parameter
// model columns.
const (
	// BoundaryParam selects a named boundary value from the catalog.
	BoundaryParam = "BoundaryValue"
	// SizeParam supplies an explicit bit size when the size range is open.
	SizeParam = "Size"
)

// Kind identifies a data type variant.
type Kind int

const (
	// KindBits is the raw bit string variant.
	KindBits Kind = iota
	// KindHexString is the hexadecimal text variant.
	KindHexString
	// KindIPv4 is the 32-bit IPv4 address variant.
	KindIPv4
	// KindBytes is the byte buffer variant.
	KindBytes
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindBits:
		return "bits"
	case KindHexString:
		return "hexstring"
	case KindIPv4:
		return "ipv4"
	case KindBytes:
		return "bytes"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sign represents the numeric interpretation of raw bytes.
type Sign uint8

const (
	// Unsigned interprets bytes as unsigned integers.
	Unsigned Sign = iota
	// Signed interprets bytes as two's-complement integers.
	Signed
)

// String returns a human-readable representation of the sign.
func (s Sign) String() string {
	switch s {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	default:
		return fmt.Sprintf("sign(%d)", uint8(s))
	}
}

// DataType is the contract shared by all field type variants. The variant
// set is closed; implementations live in this package only.
//
// A DataType carries a normalized size range in bits, encoding parameters
// (unit size, endianness, sign), and an optional pinned value. Concretize
// mutates the receiving instance in place: the caller owning the field tree
// observes the pinned value on its own object.
type DataType interface {
	// Kind returns the variant tag.
	Kind() Kind
	// SizeRange returns the normalized size bounds in bits.
	SizeRange() (minBits, maxBits uint)
	// UnitSize returns the variant's unit size in bits.
	UnitSize() uint
	// Endian returns the byte mapping order for value conversion.
	Endian() bitstring.Endian
	// Sign returns the numeric interpretation of raw bytes.
	Sign() Sign
	// Value returns the pinned value, or nil when none is set.
	Value() *bitstring.BitString
	// SetValue pins a value, validating its length against the size range.
	// Manual pins clear the concretized flag; a nil value clears both.
	SetValue(v *bitstring.BitString) error
	// Concretized reports whether a boundary-driven concretization has
	// produced the current value.
	Concretized() bool

	// CanParse reports whether data satisfies this instance's constraints.
	// A nil value fails with ErrNoData; data of the wrong shape reports
	// (false, nil).
	CanParse(data any) (bool, error)
	// Generate returns the pinned value unchanged when set, or draws a random
	// conforming value.
	Generate() (*bitstring.BitString, error)
	// Encode converts a native value to canonical bits.
	Encode(native any) (*bitstring.BitString, error)
	// Decode converts canonical bits back to the native representation.
	Decode(bits *bitstring.BitString) (any, error)
	// BoundaryValues returns the applicable boundary catalog subset.
	BoundaryValues() []BoundaryValue
	// Concretize realizes the boundary value named in the instruction set and
	// pins it. The instruction set maps parameter names to selections; the
	// value and concretized flag stay untouched on error.
	Concretize(values map[string]string) error

	// IPMClass reports the parameter model class; always ipm.ClassType.
	IPMClass() ipm.Class
	// IPMParams returns the parameter columns this instance contributes to a
	// parameter model.
	IPMParams() []ipm.Param

	isDataType()
}

// baseType carries the state shared by all variants.
type baseType struct {
	kind        Kind
	minBits     uint
	maxBits     uint
	unitSize    uint
	endian      bitstring.Endian
	sign        Sign
	value       *bitstring.BitString
	concretized bool
}

func (b *baseType) Kind() Kind                  { return b.kind }
func (b *baseType) SizeRange() (uint, uint)     { return b.minBits, b.maxBits }
func (b *baseType) UnitSize() uint              { return b.unitSize }
func (b *baseType) Endian() bitstring.Endian    { return b.endian }
func (b *baseType) Sign() Sign                  { return b.sign }
func (b *baseType) Value() *bitstring.BitString { return b.value }
func (b *baseType) Concretized() bool           { return b.concretized }
func (b *baseType) IPMClass() ipm.Class         { return ipm.ClassType }

func (b *baseType) isDataType() {}

// SetValue pins a value after validating its length against the size range.
func (b *baseType) SetValue(v *bitstring.BitString) error {
	if v == nil {
		b.value = nil
		b.concretized = false

		return nil
	}
	if n := v.Len(); n < b.minBits || n > b.maxBits {
		return fmt.Errorf("%w: %d bits not in [%d, %d]", ErrValueOutOfRange, n, b.minBits, b.maxBits)
	}
	b.value = v
	b.concretized = false

	return nil
}

// pin stores a concretization result.
func (b *baseType) pin(v *bitstring.BitString) {
	b.value = v
	b.concretized = true
}

// lenInRange reports whether a bit length satisfies the size range.
func (b *baseType) lenInRange(n uint) bool {
	return n >= b.minBits && n <= b.maxBits
}

// resolveSize picks the concrete bit length for a concretization: the fixed
// size when the range is closed, an explicit Size instruction otherwise, and
// the upper bound as a last resort. The result is rounded down to a whole
// unit multiple.
func (b *baseType) resolveSize(values map[string]string) (uint, error) {
	size := b.maxBits
	if b.minBits == b.maxBits {
		size = b.minBits
	} else if s, ok := values[SizeParam]; ok {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: size instruction %q", ErrSizeOutOfRange, s)
		}
		if !b.lenInRange(uint(n)) {
			return 0, fmt.Errorf("%w: %d bits not in [%d, %d]", ErrSizeOutOfRange, n, b.minBits, b.maxBits)
		}
		size = uint(n)
	}

	if b.unitSize > 1 {
		size -= size % b.unitSize
	}

	return size, nil
}

// randomSize draws a uniform size within the configured range, in whole
// units.
func (b *baseType) randomSize() uint {
	if b.minBits == b.maxBits {
		return b.minBits
	}
	unit := b.unitSize
	if unit == 0 {
		unit = 1
	}
	lo := (b.minBits + unit - 1) / unit
	hi := b.maxBits / unit

	return (lo + uint(rand.Intn(int(hi-lo)+1))) * unit
}

// concretizeGeneric realizes a generic bit tag selection for the variants
// whose catalog is the generic set.
func (b *baseType) concretizeGeneric(values map[string]string) error {
	tag, ok := values[BoundaryParam]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoBoundarySpec, b.kind)
	}
	size, err := b.resolveSize(values)
	if err != nil {
		return err
	}
	v, ok := concretizeBits(tag, size, b.endian)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBoundaryTag, tag)
	}
	b.pin(v)

	return nil
}

// ipmParams assembles the parameter columns shared by all variants: the
// boundary catalog, plus a Size column when the range is open.
func (b *baseType) ipmParams(catalog []BoundaryValue) []ipm.Param {
	params := []ipm.Param{{Name: BoundaryParam, Candidates: candidates(catalog)}}
	if b.minBits != b.maxBits {
		params = append(params, ipm.Param{
			Name:       SizeParam,
			Candidates: sizeCandidates(b.minBits, b.maxBits, b.unitSize),
		})
	}

	return params
}

func candidates(catalog []BoundaryValue) []ipm.Candidate {
	out := make([]ipm.Candidate, len(catalog))
	for i, bv := range catalog {
		out[i] = ipm.Candidate{Tag: bv.Tag, Valid: bv.Valid}
	}

	return out
}

// sizeCandidates proposes the lower bound, midpoint and upper bound of an
// open size range as Size column candidates.
func sizeCandidates(minBits, maxBits, unitSize uint) []ipm.Candidate {
	mid := minBits + (maxBits-minBits)/2
	if unitSize > 1 {
		mid -= mid % unitSize
	}

	out := make([]ipm.Candidate, 0, 3)
	seen := make(map[uint]bool, 3)
	for _, n := range []uint{minBits, mid, maxBits} {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, ipm.Candidate{Tag: strconv.FormatUint(uint64(n), 10), Valid: true})
	}

	return out
}

// randomBits draws size random bits.
func randomBits(size uint, endian bitstring.Endian) *bitstring.BitString {
	v := bitstring.New(size, endian)
	for i := uint(0); i < size; i++ {
		if rand.Intn(2) == 1 {
			v.SetBit(i, true)
		}
	}

	return v
}
