// Package request turns a validated contract operation and its concrete
// argument values into a transport-ready resolved request.
//
// Build is a pure function: no I/O, no shared state, and identical inputs
// always produce structurally identical output. Query and header emission
// order is deterministic — required bindings first, then optional ones,
// declaration order preserved within each group.
package request
