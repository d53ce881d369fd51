// Package bitstring implements the canonical bit sequence exchanged between
// the typed field variants, the parameter-model builder, and the message
// specializer.
//
// A BitString is an ordered sequence of bits tagged with an endianness that
// governs how the sequence maps to bytes: in big-endian order bit 0 is the
// most significant bit of byte 0, in little-endian order bit 0 is the least
// significant bit of byte 0. Bit indices themselves are endianness-agnostic;
// only byte and integer conversion consult the tag.
//
// Equality is bitwise and endianness-aware: two BitStrings with identical
// bits but different endianness tags are not equal.
package bitstring
