package fieldtype

import (
	"fmt"
	"net/netip"

	"github.com/maelig/go-cafuzz/bitstring"
	"github.com/maelig/go-cafuzz/internal/util"
)

// typeConfig accumulates constructor state before a variant is built.
type typeConfig struct {
	kind     Kind
	unitSize uint

	minBits uint
	maxBits uint
	sizeSet bool

	endian bitstring.Endian
	sign   Sign

	value *bitstring.BitString

	alphabet []byte

	network    netip.Prefix
	networkSet bool
	address    netip.Addr
	addressSet bool
}

func newTypeConfig(kind Kind, unitSize, minBits, maxBits uint) *typeConfig {
	return &typeConfig{
		kind:     kind,
		unitSize: unitSize,
		minBits:  minBits,
		maxBits:  maxBits,
		endian:   bitstring.BigEndian,
		sign:     Unsigned,
	}
}

func (cfg *typeConfig) applyOptions(opts []Option) error {
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return err
		}
	}

	return cfg.finish()
}

// finish validates the cross-option constraints shared by all variants and
// derives the size range from a pinned value when no explicit range was
// given.
func (cfg *typeConfig) finish() error {
	if cfg.value != nil {
		if cfg.sizeSet {
			return fmt.Errorf("%w: a pinned value fixes the size range", ErrExclusiveConstraints)
		}
		if cfg.value.Endian() != cfg.endian {
			return fmt.Errorf("%w: pinned value is %s-endian, type is %s-endian",
				ErrInvalidValue, cfg.value.Endian(), cfg.endian)
		}
		n := cfg.value.Len()
		if cfg.unitSize > 1 && n%cfg.unitSize != 0 {
			return fmt.Errorf("%w: %d bits is not a multiple of the %d-bit unit",
				ErrValueOutOfRange, n, cfg.unitSize)
		}
		cfg.minBits = n
		cfg.maxBits = n
	}
	if cfg.minBits > cfg.maxBits {
		return fmt.Errorf("%w: min %d exceeds max %d", ErrSizeRange, cfg.minBits, cfg.maxBits)
	}
	if cfg.maxBits > MaxDataBits {
		return fmt.Errorf("%w: max %d exceeds the %d-bit cap", ErrSizeRange, cfg.maxBits, MaxDataBits)
	}

	return nil
}

// base builds the state shared by all variants from the accumulated
// configuration.
func (cfg *typeConfig) base() baseType {
	return baseType{
		kind:     cfg.kind,
		minBits:  cfg.minBits,
		maxBits:  cfg.maxBits,
		unitSize: cfg.unitSize,
		endian:   cfg.endian,
		sign:     cfg.sign,
		value:    cfg.value,
	}
}

// Option represents a functional option for configuring a data type variant
// at construction time. Options that do not apply to the variant under
// construction are rejected with ErrInvalidOption.
type Option interface {
	apply(cfg *typeConfig) error
}

type optionFunc struct {
	name      string
	applyFunc func(cfg *typeConfig) error
}

func (o *optionFunc) apply(cfg *typeConfig) error { return o.applyFunc(cfg) }

func newOptionFunc(name string, f func(cfg *typeConfig) error) *optionFunc {
	return &optionFunc{
		name:      name,
		applyFunc: f,
	}
}

// WithSizeRange sets the size range in bits.
// It returns an Option that validates the bounds against the variant's unit
// size and updates the configuration.
//
// A zero max leaves the upper bound open; it is normalized to MaxDataBits.
// An error is returned for the fixed-size IPv4 variant, when min exceeds max,
// or when a bound is not a whole multiple of the variant's unit size.
func WithSizeRange(minBits, maxBits uint) Option {
	return newOptionFunc("WithSizeRange", func(cfg *typeConfig) error {
		if cfg.kind == KindIPv4 {
			return fmt.Errorf("%w: WithSizeRange on fixed-size %s", ErrInvalidOption, cfg.kind)
		}
		if maxBits == 0 {
			maxBits = MaxDataBits
		}
		if cfg.unitSize > 1 && (minBits%cfg.unitSize != 0 || maxBits%cfg.unitSize != 0) {
			return fmt.Errorf("%w: bounds [%d, %d] are not multiples of the %d-bit unit",
				ErrSizeRange, minBits, maxBits, cfg.unitSize)
		}
		cfg.minBits = minBits
		cfg.maxBits = maxBits
		cfg.sizeSet = true

		return nil
	})
}

// WithSizeBytes sets the size range in bytes.
// It returns an Option that converts the bounds to bits and updates the
// configuration.
//
// A zero max leaves the upper bound open. An error is returned for the
// fixed-size IPv4 variant or when min exceeds max.
func WithSizeBytes(minBytes, maxBytes uint) Option {
	return newOptionFunc("WithSizeBytes", func(cfg *typeConfig) error {
		if cfg.kind == KindIPv4 {
			return fmt.Errorf("%w: WithSizeBytes on fixed-size %s", ErrInvalidOption, cfg.kind)
		}
		maxBits := maxBytes * 8
		if maxBytes == 0 || maxBits > MaxDataBits {
			maxBits = MaxDataBits
		}
		cfg.minBits = minBytes * 8
		cfg.maxBits = maxBits
		cfg.sizeSet = true

		return nil
	})
}

// WithValue pins an initial concrete value. The size range collapses to the
// value's bit length, so WithValue and the size range options are mutually
// exclusive.
//
// An error is returned for the IPv4 variant, which takes its exact-value
// constraint through WithAddress instead.
func WithValue(v *bitstring.BitString) Option {
	return newOptionFunc("WithValue", func(cfg *typeConfig) error {
		if cfg.kind == KindIPv4 {
			return fmt.Errorf("%w: WithValue on %s, use WithAddress", ErrInvalidOption, cfg.kind)
		}
		if v == nil {
			return fmt.Errorf("%w: nil value", ErrInvalidValue)
		}
		cfg.value = v

		return nil
	})
}

// WithEndian sets the byte mapping order used when converting between native
// values and bits.
//
// The default is bitstring.BigEndian.
func WithEndian(endian bitstring.Endian) Option {
	return newOptionFunc("WithEndian", func(cfg *typeConfig) error {
		if endian != bitstring.BigEndian && endian != bitstring.LittleEndian {
			return fmt.Errorf("%w: endian %d", ErrInvalidOption, endian)
		}
		cfg.endian = endian

		return nil
	})
}

// WithSign sets the numeric interpretation of raw bytes.
//
// The default is Unsigned.
func WithSign(sign Sign) Option {
	return newOptionFunc("WithSign", func(cfg *typeConfig) error {
		if sign != Unsigned && sign != Signed {
			return fmt.Errorf("%w: sign %d", ErrInvalidOption, sign)
		}
		cfg.sign = sign

		return nil
	})
}

// WithAlphabet restricts a byte buffer to the given symbol set.
// It returns an Option that validates the alphabet and updates the
// configuration.
//
// The alphabet must contain fewer than 128 distinct symbols, all below 0x80,
// so that at least one guaranteed-illegal byte exists for the illegal
// boundary values. Duplicate symbols are collapsed. An error is returned for
// any variant other than Bytes.
func WithAlphabet(symbols string) Option {
	return newOptionFunc("WithAlphabet", func(cfg *typeConfig) error {
		if cfg.kind != KindBytes {
			return fmt.Errorf("%w: WithAlphabet on %s", ErrInvalidOption, cfg.kind)
		}
		if len(symbols) == 0 {
			return fmt.Errorf("%w: empty alphabet", ErrInvalidOption)
		}
		for i := 0; i < len(symbols); i++ {
			if symbols[i] >= 0x80 {
				return fmt.Errorf("%w: symbol 0x%02x", ErrAlphabetNotASCII, symbols[i])
			}
		}
		distinct := util.DistinctBytes(symbols)
		if len(distinct) >= 128 {
			return fmt.Errorf("%w: %d distinct symbols", ErrAlphabetTooLarge, len(distinct))
		}
		cfg.alphabet = distinct

		return nil
	})
}

// WithNetwork constrains an IPv4 address to members of the given network.
// It returns an Option that validates the prefix and updates the
// configuration.
//
// WithNetwork and WithAddress are mutually exclusive. An error is returned
// for any variant other than IPv4 or for a non-IPv4 prefix.
func WithNetwork(network netip.Prefix) Option {
	return newOptionFunc("WithNetwork", func(cfg *typeConfig) error {
		if cfg.kind != KindIPv4 {
			return fmt.Errorf("%w: WithNetwork on %s", ErrInvalidOption, cfg.kind)
		}
		if !network.IsValid() || !network.Addr().Is4() {
			return fmt.Errorf("%w: network %v is not an IPv4 prefix", ErrInvalidOption, network)
		}
		if network.Bits() < 1 || network.Bits() > 30 {
			return fmt.Errorf("%w: network %v leaves no distinct host addresses", ErrInvalidOption, network)
		}
		if cfg.addressSet {
			return fmt.Errorf("%w: address and network", ErrExclusiveConstraints)
		}
		cfg.network = network.Masked()
		cfg.networkSet = true

		return nil
	})
}

// WithAddress constrains an IPv4 instance to one exact address.
// It returns an Option that validates the address and updates the
// configuration.
//
// WithNetwork and WithAddress are mutually exclusive. An error is returned
// for any variant other than IPv4, for a non-IPv4 address, or for a
// netmask-shaped address.
func WithAddress(addr netip.Addr) Option {
	return newOptionFunc("WithAddress", func(cfg *typeConfig) error {
		if cfg.kind != KindIPv4 {
			return fmt.Errorf("%w: WithAddress on %s", ErrInvalidOption, cfg.kind)
		}
		if !addr.Is4() {
			return fmt.Errorf("%w: address %v is not IPv4", ErrInvalidOption, addr)
		}
		if cfg.networkSet {
			return fmt.Errorf("%w: address and network", ErrExclusiveConstraints)
		}
		if isNetmask(addr) {
			return fmt.Errorf("%w: %v", ErrNetmaskValue, addr)
		}
		cfg.address = addr
		cfg.addressSet = true

		return nil
	})
}
