package store

import (
	"runtime"

	"github.com/wippyai/git-bridge/native"
)

// Handle is the host-visible reference to one wrapper. Each handle holds
// exactly one refcount contribution until released. Handles are created by
// Store.Wrap only.
type Handle struct {
	store    *Store
	wrapper  *Wrapper
	released bool // guarded by store.mu
}

// Release drops this handle's reference. At most one decref happens per
// handle no matter how many times Release runs, and the finalizer path
// goes through here too, so explicit and GC-triggered release are
// indistinguishable to the store.
func (h *Handle) Release() {
	if h == nil {
		return
	}
	runtime.SetFinalizer(h, nil)

	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	if h.released {
		return
	}
	h.released = true
	h.store.decrefLocked(h.wrapper)
}

// Kind returns the wrapper's kind, or KindUnknown once the handle no
// longer pins a live wrapper.
func (h *Handle) Kind() native.Kind {
	if h == nil {
		return native.KindUnknown
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	if h.deadLocked() {
		return native.KindUnknown
	}
	return h.wrapper.kind
}

// Resource returns the wrapped native resource, or nil once the handle no
// longer pins a live wrapper.
func (h *Handle) Resource() native.Resource {
	if h == nil {
		return nil
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	if h.deadLocked() {
		return nil
	}
	return h.wrapper.res
}

// Released reports whether this handle no longer pins a live wrapper: true
// once Release has run, and true for handles that outlived a store drain.
func (h *Handle) Released() bool {
	if h == nil {
		return true
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return h.deadLocked()
}

// deadLocked reports whether the handle's wrapper is gone, either through
// this handle's own Release or because the wrapper died in a drain. A dead
// wrapper's resource is already freed and must not be surfaced. Caller
// holds store.mu.
func (h *Handle) deadLocked() bool {
	return h.released || h.wrapper.refs <= 0
}
