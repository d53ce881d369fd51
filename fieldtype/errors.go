package fieldtype

import "errors"

var (
	// ErrNoData indicates that a nil value was passed where data is required.
	ErrNoData = errors.New("no data provided")

	// ErrInvalidValue indicates that data is malformed for this data type and
	// cannot be converted.
	ErrInvalidValue = errors.New("value is malformed for this data type")
)

var (
	// ErrNoBoundarySpec indicates that a concretization instruction set carried
	// no boundary value selection for this object.
	ErrNoBoundarySpec = errors.New("no boundary value instruction supplied")

	// ErrUnknownBoundaryTag indicates a boundary value tag outside this data
	// type's catalog.
	ErrUnknownBoundaryTag = errors.New("unknown boundary value tag")

	// ErrNetworkRequired indicates a network-relative boundary value was
	// selected on an instance without a network constraint.
	ErrNetworkRequired = errors.New("boundary value requires a network constraint")

	// ErrAlphabetRequired indicates an alphabet-legality boundary value was
	// selected on an instance without an alphabet constraint.
	ErrAlphabetRequired = errors.New("boundary value requires an alphabet constraint")

	// ErrSizeOutOfRange indicates a size instruction that is malformed or
	// outside the configured size range.
	ErrSizeOutOfRange = errors.New("resolved size outside the configured range")
)

var (
	// ErrInvalidOption indicates an option that does not apply to the data type
	// under construction.
	ErrInvalidOption = errors.New("option does not apply to this data type")

	// ErrExclusiveConstraints indicates two constraints that cannot be
	// configured together: a pinned value with an explicit size range, or an
	// exact address with a network.
	ErrExclusiveConstraints = errors.New("constraints are mutually exclusive")

	// ErrAlphabetTooLarge indicates an alphabet with 128 or more distinct
	// symbols, leaving no guaranteed-illegal byte.
	ErrAlphabetTooLarge = errors.New("alphabet must contain fewer than 128 distinct symbols")

	// ErrAlphabetNotASCII indicates an alphabet containing symbols outside the
	// ASCII range.
	ErrAlphabetNotASCII = errors.New("alphabet symbols must be ASCII")

	// ErrSizeRange indicates an invalid size range specification.
	ErrSizeRange = errors.New("invalid size range")

	// ErrValueOutOfRange indicates a fixed value whose bit length lies outside
	// the configured size range.
	ErrValueOutOfRange = errors.New("value length outside the configured size range")

	// ErrNetmaskValue indicates an address value with netmask shape, which is
	// rejected by the IPv4 codec.
	ErrNetmaskValue = errors.New("netmask values are not allowed")
)
