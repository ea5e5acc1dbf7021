// Package native defines the boundary between the wrapper store and the
// underlying git library.
//
// The store never touches git functionality directly. It sees resources:
// opaque values with a concrete Kind, a destructor, and (for objects and
// references) an owning repository accessor. The production implementation
// lives in the gogit package; tests substitute in-memory fakes.
//
// Identity matters. A Resource value is the key under which the wrapper
// store deduplicates, so a library must hand out exactly one Resource per
// live underlying entity and must not reuse it after Free. Failure results
// are carried by ErrorRecord, mirroring a last-error register: code, class,
// message. Calls that fail without leaving a record (iterator exhaustion
// and kin) return plain errors instead, which the dispatch layer treats as
// silent.
package native
