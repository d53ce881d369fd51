// Package pict reads and writes the text formats of combinatorial
// covering-array generators and runs the external generator binary.
//
// The model format is one line per parameter column, "name: tag1,tag2,...",
// with invalid candidates prefixed by the negative marker "~". The covering
// array format is tab-separated text: the first row names the columns and
// every further row is one assignment, with the negative marker stripped
// from cells on read. Neither format has quoting or escaping, so column
// names and tags must not start with the marker.
//
// Runner invokes a generator binary following the PICT command line
// conventions over a written model file and captures the produced array.
package pict
