package pict

import "errors"

// Format errors, reported while serializing a model or parsing an array.
var (
	// ErrUnsupportedFormat indicates a format identifier no reader or writer
	// exists for.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrMalformedArray indicates covering array text that does not parse:
	// empty input, or a row whose cell count differs from the header.
	ErrMalformedArray = errors.New("malformed covering array")
	// ErrReservedPrefix indicates a column name or candidate tag starting
	// with the negative marker, which the format cannot escape.
	ErrReservedPrefix = errors.New("name starts with reserved prefix")
)

// Generator process errors.
var (
	// ErrGeneratorTimeout indicates the generator exceeded the context
	// deadline and was killed; partial output is discarded.
	ErrGeneratorTimeout = errors.New("covering array generator timed out")
	// ErrGeneratorFailed indicates the generator could not run or exited
	// abnormally.
	ErrGeneratorFailed = errors.New("covering array generator failed")
)
