package fuzzer

import "errors"

var (
	// ErrNoModel indicates a driver was created without a parameter model.
	ErrNoModel = errors.New("no parameter model")
	// ErrNoSpecializer indicates a driver was created without a
	// specialization closure.
	ErrNoSpecializer = errors.New("no specialization closure")
	// ErrNoArray indicates an iteration was requested without a primary
	// covering array.
	ErrNoArray = errors.New("no covering array")
)

var (
	// ErrNoRunner indicates a campaign was created without a generator
	// runner.
	ErrNoRunner = errors.New("no generator runner")
	// ErrNilSymbol indicates a nil symbol was registered.
	ErrNilSymbol = errors.New("nil symbol")
	// ErrDuplicateSymbol indicates a registration under an already taken
	// symbol name.
	ErrDuplicateSymbol = errors.New("symbol already registered")
	// ErrUnknownSymbol indicates a run was requested for an unregistered
	// symbol name.
	ErrUnknownSymbol = errors.New("symbol not registered")
)
