package vocab

import "errors"

// Tree construction errors, reported by NewSymbol.
var (
	// ErrEmptyName indicates a symbol or field without a name.
	ErrEmptyName = errors.New("empty name")
	// ErrNilField indicates a nil field in a symbol or field group.
	ErrNilField = errors.New("nil field")
	// ErrNoFields indicates a symbol without fields.
	ErrNoFields = errors.New("symbol has no fields")
	// ErrDuplicateField indicates two sibling fields sharing a name.
	ErrDuplicateField = errors.New("duplicate field name")
	// ErrNoDomain indicates a leaf field without a usable domain.
	ErrNoDomain = errors.New("leaf field has no domain")
	// ErrNoTargets indicates a size domain referencing no fields.
	ErrNoTargets = errors.New("size domain references no fields")
	// ErrForeignTarget indicates a size target that is not part of the
	// symbol's own tree.
	ErrForeignTarget = errors.New("size target is not part of the symbol")
	// ErrInvalidWidth indicates a size width outside 1..64 bits.
	ErrInvalidWidth = errors.New("size width must be between 1 and 64 bits")
	// ErrInvalidFactor indicates a non-positive size factor.
	ErrInvalidFactor = errors.New("size factor must be positive")
)

// Specialization errors.
var (
	// ErrMessageTooLarge indicates a specialized message exceeding the
	// maximum message size.
	ErrMessageTooLarge = errors.New("specialized message too large")
)
