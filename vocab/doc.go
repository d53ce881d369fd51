// Package vocab models message vocabulary: named symbols over ordered field
// trees, specialized into concrete bit sequences.
//
// A Symbol is an ordered tree of named Fields. Leaf fields carry a Variable
// domain: Data wraps a typed field variant, SizeOf computes its value from
// the resolved size of other fields. Inner fields group children and carry
// no domain of their own.
//
// Specialization resolves every leaf in two passes. The content pass
// resolves data leaves, preferring a preset, then a pinned or concretized
// value, then a memory recall, and drawing a random conforming value
// otherwise. The size pass then computes size leaves from the resolved
// target lengths, so a size field may precede its targets in the message.
// All resolved leaves are concatenated in field order.
//
// Symbols and fields implement the parameter model contracts, so a model
// built over a symbol drives combinatorial concretization of its types and
// variables.
package vocab
