// Package ipm builds input parameter models for combinatorial testing.
//
// An input parameter model (IPM) is a flat, ordered mapping from column name
// to candidate values describing every independently variable aspect of a
// field tree. The builder walks the tree through the Node contract, flattens
// each node's domain, and composes column names hierarchically:
// an object reference occupies the bare tree prefix, and the object's own
// parameters occupy <prefix>_<classPrefix>_<param>, where the class prefix
// distinguishes primitive types from structural variables. Downstream
// consumers recover the column-to-object mapping purely from these names, so
// insertion order and the naming scheme are part of the contract.
//
// The model can be partitioned into independent type and variable models
// whose covering arrays are recombined row-by-row by the driver.
package ipm
