// Package script models the host boundary: the values that cross it and
// the operation table the host dispatches through.
//
// Value is a small tagged union - nil, bool, int, string, or a wrapped
// native handle. Nil doubles as the absent-argument sentinel: operations
// declare a minimum and maximum arity (at most two), and the dispatch
// adapters fill omitted trailing optionals with Nil so every operation
// body sees its full argument list.
//
// Registry maps public operation names to their handlers and enforces
// arity before a handler runs. Handlers never see an argument count they
// did not declare.
package script
