package vocab

import (
	"fmt"
	"math"

	"github.com/maelig/go-cafuzz/bitstring"
	"github.com/maelig/go-cafuzz/fieldtype"
	"github.com/maelig/go-cafuzz/internal/util"
	"github.com/maelig/go-cafuzz/ipm"
)

// Variable is the domain of a leaf field. The set is closed: Data wraps a
// typed variant resolved during the content pass, SizeOf is computed from
// other fields during the size pass.
type Variable interface {
	ipmGroup() *ipm.Group
	isVariable()
}

var (
	_ Variable   = (*Data)(nil)
	_ Variable   = (*SizeOf)(nil)
	_ ipm.Object = (*SizeOf)(nil)
)

// Data is a leaf domain delegating to a typed field variant. The variant
// itself is the concretizable object exposed to the parameter model, so
// boundary-driven concretization mutates it in place and specialization
// observes the pinned value.
type Data struct {
	dataType fieldtype.DataType
}

// NewData wraps a typed variant as a field domain.
func NewData(dt fieldtype.DataType) *Data {
	return &Data{dataType: dt}
}

// DataType returns the wrapped variant.
func (d *Data) DataType() fieldtype.DataType {
	return d.dataType
}

func (d *Data) ipmGroup() *ipm.Group {
	return ipm.ObjectGroup("data", d.dataType)
}

func (d *Data) isVariable() {}

// Size boundary tags. Only the correct tag yields a well-formed message;
// the others deliberately desynchronize the encoded size from the actual
// target size for negative test cases.
const (
	// TagSizeCorrect encodes the computed size unchanged.
	TagSizeCorrect = "VALUE_CORRECT"
	// TagSizeTooLow encodes one less than the computed size, saturating
	// at zero.
	TagSizeTooLow = "VALUE_TOO_LOW"
	// TagSizeTooHigh encodes one more than the computed size, saturating
	// at the width's maximum.
	TagSizeTooHigh = "VALUE_TOO_HIGH"
	// TagSizeZero encodes zero regardless of the computed size.
	TagSizeZero = "VALUE_ZERO"
)

// sizeAdjust is the pending boundary adjustment applied when the size
// value is computed.
type sizeAdjust int

const (
	adjustCorrect sizeAdjust = iota
	adjustTooLow
	adjustTooHigh
	adjustZero
)

// SizeOf is a structural domain whose value derives from the resolved size
// of its target fields: round(targetBits × factor) + offset, encoded at the
// domain's own bit width. Target lengths are known only after the content
// pass, so boundary concretization records a pending adjustment that is
// applied when the value is computed.
type SizeOf struct {
	targets []*Field
	width   uint
	factor  float64
	offset  uint64
	endian  bitstring.Endian
	adjust  sizeAdjust
}

// SizeOption configures a SizeOf domain.
type SizeOption interface {
	apply(*SizeOf)
}

type sizeOptFunc func(*SizeOf)

func (f sizeOptFunc) apply(s *SizeOf) {
	f(s)
}

// WithWidth sets the bit width of the encoded value. The default is 8.
func WithWidth(bits uint) SizeOption {
	return sizeOptFunc(func(s *SizeOf) {
		s.width = bits
	})
}

// WithFactor scales the target bit count before encoding. The default is
// 1/8, a byte count.
func WithFactor(factor float64) SizeOption {
	return sizeOptFunc(func(s *SizeOf) {
		s.factor = factor
	})
}

// WithOffset adds a constant to the scaled value. The default is 0.
func WithOffset(offset uint64) SizeOption {
	return sizeOptFunc(func(s *SizeOf) {
		s.offset = offset
	})
}

// WithEndian sets the byte mapping order of the encoded value. The default
// is bitstring.BigEndian.
func WithEndian(endian bitstring.Endian) SizeOption {
	return sizeOptFunc(func(s *SizeOf) {
		s.endian = endian
	})
}

// NewSizeOf creates a size domain over the target fields. The default
// encoding is the byte count of the targets in 8 big-endian bits. The
// domain is validated when its symbol is built.
func NewSizeOf(targets []*Field, opts ...SizeOption) *SizeOf {
	s := &SizeOf{
		targets: targets,
		width:   8,
		factor:  1.0 / 8.0,
		endian:  bitstring.BigEndian,
	}
	for _, opt := range opts {
		opt.apply(s)
	}

	return s
}

// Targets returns the referenced fields.
func (s *SizeOf) Targets() []*Field {
	return util.CloneSlice(s.targets, 0)
}

// Width returns the bit width of the encoded value.
func (s *SizeOf) Width() uint {
	return s.width
}

// IPMClass implements ipm.Object.
func (s *SizeOf) IPMClass() ipm.Class {
	return ipm.ClassVar
}

// IPMParams implements ipm.Object.
func (s *SizeOf) IPMParams() []ipm.Param {
	return []ipm.Param{{
		Name: fieldtype.BoundaryParam,
		Candidates: []ipm.Candidate{
			{Tag: TagSizeCorrect, Valid: true},
			{Tag: TagSizeTooLow, Valid: false},
			{Tag: TagSizeTooHigh, Valid: false},
			{Tag: TagSizeZero, Valid: false},
		},
	}}
}

// Concretize records the pending size adjustment selected by the boundary
// tag. Target sizes are not resolved yet when an external engine drives
// concretization, so the adjustment applies at specialization time.
func (s *SizeOf) Concretize(values map[string]string) error {
	tag, ok := values[fieldtype.BoundaryParam]
	if !ok {
		return fmt.Errorf("%w: missing %s", fieldtype.ErrNoBoundarySpec, fieldtype.BoundaryParam)
	}

	switch tag {
	case TagSizeCorrect:
		s.adjust = adjustCorrect
	case TagSizeTooLow:
		s.adjust = adjustTooLow
	case TagSizeTooHigh:
		s.adjust = adjustTooHigh
	case TagSizeZero:
		s.adjust = adjustZero
	default:
		return fmt.Errorf("%w: %q", fieldtype.ErrUnknownBoundaryTag, tag)
	}

	return nil
}

func (s *SizeOf) ipmGroup() *ipm.Group {
	return ipm.ObjectGroup("size", s)
}

func (s *SizeOf) isVariable() {}

// compute encodes the size value for the given target bit count, applying
// the pending adjustment.
func (s *SizeOf) compute(targetBits uint) (*bitstring.BitString, error) {
	value := uint64(math.Round(float64(targetBits)*s.factor)) + s.offset
	switch s.adjust {
	case adjustTooLow:
		if value > 0 {
			value--
		}
	case adjustTooHigh:
		if value < maxSizeValue(s.width) {
			value++
		}
	case adjustZero:
		value = 0
	}

	v, err := bitstring.FromUint(value, s.width, s.endian)
	if err != nil {
		return nil, fmt.Errorf("encode size value %d: %w", value, err)
	}

	return v, nil
}

func maxSizeValue(width uint) uint64 {
	if width >= 64 {
		return math.MaxUint64
	}

	return uint64(1)<<width - 1
}
