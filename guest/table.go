package guest

import (
	"errors"
	"sync"

	"github.com/wippyai/git-bridge/store"
)

// ErrTableClosed is returned by Put after Close.
var ErrTableClosed = errors.New("guest handle table closed")

// Index is a guest-visible slot in a Table. Zero is never valid.
type Index uint32

// Table maps guest indexes to host handles. Slots are recycled through a
// free list, so an index is only meaningful until it is dropped.
type Table struct {
	entries  []tableEntry
	freeList []Index
	mu       sync.Mutex
	closed   bool
}

type tableEntry struct {
	h     *store.Handle
	valid bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries:  make([]tableEntry, 0, 64),
		freeList: make([]Index, 0, 16),
	}
}

// Put stores h and returns its index.
func (t *Table) Put(h *store.Handle) (Index, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, ErrTableClosed
	}

	e := tableEntry{h: h, valid: true}
	if n := len(t.freeList); n > 0 {
		idx := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[idx-1] = e
		return idx, nil
	}

	t.entries = append(t.entries, e)
	return Index(len(t.entries)), nil
}

// Get returns the handle at idx.
func (t *Table) Get(idx Index) (*store.Handle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.at(idx)
	if !ok {
		return nil, false
	}
	return e.h, true
}

// Drop removes idx and releases its handle. Dropping an unknown or already
// dropped index reports false.
func (t *Table) Drop(idx Index) bool {
	t.mu.Lock()
	e, ok := t.at(idx)
	if !ok {
		t.mu.Unlock()
		return false
	}
	h := e.h
	e.h = nil
	e.valid = false
	t.freeList = append(t.freeList, idx)
	t.mu.Unlock()

	// Release outside the table lock; it takes the store lock.
	h.Release()
	return true
}

// Len returns the number of live slots.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for _, e := range t.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Close drops every live slot and stops accepting new ones.
func (t *Table) Close() {
	t.mu.Lock()
	t.closed = true
	var live []*store.Handle
	for i := range t.entries {
		if t.entries[i].valid {
			live = append(live, t.entries[i].h)
			t.entries[i] = tableEntry{}
		}
	}
	t.freeList = t.freeList[:0]
	t.mu.Unlock()

	for _, h := range live {
		h.Release()
	}
}

// at resolves idx to a live entry. Callers hold t.mu.
func (t *Table) at(idx Index) (*tableEntry, bool) {
	if idx == 0 || int(idx) > len(t.entries) {
		return nil, false
	}
	e := &t.entries[idx-1]
	if !e.valid {
		return nil, false
	}
	return e, true
}
