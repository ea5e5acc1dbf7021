// Package bindings implements the public operation catalogue: the
// git-* operations a host registers and dispatches by name.
//
// Every operation is a thin call-through. Arguments arrive as script
// values; handle arguments are kind-checked up front (a failure signals
// the violated predicate and the offending value without touching the
// store), paths and names must be strings, and omitted optionals are Nil.
// Results are primitives or freshly wrapped handles.
//
// Native failures follow the last-error discipline: a call that left an
// error record signals with the record's class and message, a call that
// failed without a record yields Nil silently.
package bindings
