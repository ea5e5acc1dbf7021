package store

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/wippyai/git-bridge/native"
)

// Wrapper is the store's record of one live native resource.
type Wrapper struct {
	kind native.Kind
	res  native.Resource
	refs int
}

// Kind returns the wrapper's refined kind.
func (w *Wrapper) Kind() native.Kind { return w.kind }

// Store tracks every wrapped native resource in the process, one wrapper
// per resource identity. The zero value is not usable; call New.
type Store struct {
	mu      sync.Mutex
	entries map[native.Resource]*Wrapper
}

// New creates an empty store.
func New() *Store {
	return &Store{
		entries: make(map[native.Resource]*Wrapper),
	}
}

// Wrap returns a host handle for res, creating or deduplicating the backing
// wrapper. The generic object kind is refined to the resource's concrete
// kind when that kind is recognized. Wrapping an owned kind (objects and
// references) also increfs the owning repository wrapper on the dependent's
// behalf.
//
// The returned handle is armed with a finalizer, so an unreachable handle
// is eventually released by the runtime; explicit Release disarms it.
// Wrapping a nil resource returns a nil handle.
func (s *Store) Wrap(kind native.Kind, res native.Resource) *Handle {
	if res == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == native.KindObject {
		if k := res.Kind(); k.IsObjectFamily() {
			kind = k
		}
	}

	w := s.increfLocked(kind, res)

	if kind.IsOwned() {
		if o, ok := res.(native.Owned); ok {
			if owner := o.Owner(); owner != nil {
				s.increfLocked(native.KindRepository, owner)
			}
		}
	}

	h := &Handle{store: s, wrapper: w}
	runtime.SetFinalizer(h, (*Handle).Release)
	return h
}

// increfLocked looks res up and bumps its refcount, inserting a fresh
// wrapper with refcount 1 when absent. Caller holds s.mu.
func (s *Store) increfLocked(kind native.Kind, res native.Resource) *Wrapper {
	if w, ok := s.entries[res]; ok {
		w.refs++
		return w
	}
	w := &Wrapper{kind: kind, res: res, refs: 1}
	s.entries[res] = w
	return w
}

// Release decrements the wrapper holding res by one reference, cascading
// per decref rules when it hits zero. Releasing an identity with no live
// wrapper is a silent no-op.
func (s *Store) Release(res native.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decrefResourceLocked(res)
}

// decrefResourceLocked releases by resource identity: the owner edge of
// the cascade. Absent identities are skipped. Caller holds s.mu.
func (s *Store) decrefResourceLocked(res native.Resource) {
	if w, ok := s.entries[res]; ok {
		s.decrefLocked(w)
	}
}

// decrefLocked decrements w, and at zero removes it from the store, runs
// the kind-appropriate destructor, then releases the owner edge. The entry
// is removed before the destructor runs; the owner is resolved before the
// destructor and decremented after it returns. A wrapper already at zero
// is dead (Close got there first); decrementing it again is a no-op.
// Caller holds s.mu.
func (s *Store) decrefLocked(w *Wrapper) {
	if w.refs <= 0 {
		return
	}
	w.refs--
	if w.refs > 0 {
		return
	}

	delete(s.entries, w.res)

	switch {
	case w.kind == native.KindUnknown:
		// Nothing to destroy for foreign values.
	case w.kind == native.KindRepository:
		w.res.Free()
	case w.kind.IsOwned():
		var owner native.Resource
		if o, ok := w.res.(native.Owned); ok {
			owner = o.Owner()
		}
		w.res.Free()
		if owner != nil {
			s.decrefResourceLocked(owner)
		}
	default:
		w.res.Free()
	}
}

// Len returns the number of live wrappers.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Contains reports whether res has a live wrapper.
func (s *Store) Contains(res native.Resource) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[res]
	return ok
}

// Refcount returns the refcount of the wrapper holding res, or 0 when no
// wrapper is live.
func (s *Store) Refcount(res native.Resource) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.entries[res]; ok {
		return w.refs
	}
	return 0
}

// Close force-releases every live wrapper regardless of refcount: the leak
// backstop at shutdown. Dependents go before repositories so destructors
// still run in cascade order. The store stays usable afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		released := false
		for _, w := range s.entries {
			if w.kind == native.KindRepository {
				continue
			}
			w.refs = 1
			s.decrefLocked(w)
			released = true
			break
		}
		if !released {
			break
		}
	}

	for len(s.entries) > 0 {
		for _, w := range s.entries {
			w.refs = 1
			s.decrefLocked(w)
			break
		}
	}
}

// Entry describes one live wrapper for inspection.
type Entry struct {
	Kind native.Kind
	Refs int
	Desc string
}

// Snapshot returns a point-in-time view of the live wrappers, in no
// particular order.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.entries))
	for res, w := range s.entries {
		e := Entry{Kind: w.kind, Refs: w.refs}
		if str, ok := res.(fmt.Stringer); ok {
			e.Desc = str.String()
		}
		out = append(out, e)
	}
	return out
}
