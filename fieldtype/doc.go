// Package fieldtype implements the typed field variants driving combinatorial
// boundary-value testing of protocol messages.
//
// The variant set is closed: Bits (raw bit strings), HexString (lowercase
// hexadecimal text), IPv4 (32-bit addresses with an optional exact-value or
// network-membership constraint), and Bytes (byte buffers with an optional
// restricted alphabet). Every variant implements the DataType contract:
//
//   - CanParse validates arbitrary data against the instance's size and
//     domain constraints; data of the wrong shape reports false, a nil value
//     is an error.
//   - Encode and Decode convert between the variant's native representation
//     and the canonical bitstring.BitString form.
//   - Generate draws a random conforming value, honoring a pinned value.
//   - BoundaryValues reports the applicable subset of the variant's named
//     boundary-value catalog given the current constraints.
//   - Concretize pins the value realizing one named boundary tag selected by
//     an external combinatorial engine, mutating the instance in place.
//
// Boundary tags are statically marked valid or invalid; invalid tags
// deliberately produce malformed content for negative test cases. Catalogs
// are filtered at runtime by pure functions of the typed constraints: tiny
// size bounds progressively drop bit-pattern tags that become
// indistinguishable, an alphabet swaps bit-pattern tags for legality tags,
// and a network constraint swaps the address-class tags for network-relative
// ones.
package fieldtype
