// Package fuzzer drives combinatorial message generation: it binds a
// parameter model to covering array rows and specializes one message per
// row, mutating the caller's field tree in place.
//
// Driver performs the binding and iteration. Its Sequence is lazy, finite
// and one-pass, in the scanner idiom: Next advances to the next row pair,
// Message returns the produced bits, Err reports the error that ended the
// sequence early. Types are concretized strictly before variables, so
// dependent variables observe already concretized type values.
//
// Campaign owns named symbols and runs the whole pipeline per symbol:
// build the model, write generator input, run the external generator, read
// the covering array back and write one message file per row. Symbol
// registration and the message counters are safe for concurrent use; each
// individual run is one synchronous pipeline.
package fuzzer
