// Package store implements the process-wide wrapper store that bridges
// host handles and native git resources.
//
// Every native resource the host can see is tracked by exactly one Wrapper:
// a (kind, resource, refcount) triple keyed by the resource's identity.
// Wrapping the same resource twice yields the same wrapper with a higher
// refcount, so host-level equality of wrapped values follows native
// identity.
//
// Ownership is implicit in the kind. Wrapping a commit, tree, blob, tag or
// reference also increfs its owning repository, and releasing the last
// reference to such a value releases the owner by one - after the value's
// own destructor has run. Destruction order is therefore always dependents
// before owners, no matter how releases interleave.
//
// The release path is uniform: explicit Handle.Release calls, and the
// finalizer the runtime may run when a Handle becomes unreachable, funnel
// into the same decref. A wrapper whose refcount hits zero is removed from
// the store before its destructor runs, so lookups during teardown never
// observe a dying entry. Releasing an identity that is not in the store is
// a silent no-op.
//
// The store guards all state with one mutex; destructors run under it and
// must not call back into the store. The gogit resources never do.
//
// Close drains whatever is still alive, dependents before owners, as a
// shutdown backstop. Handles that outlive a drain release into dead
// wrappers and do nothing, and their accessors report them as released
// rather than surfacing the freed resource.
package store
