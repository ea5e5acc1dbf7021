package gitbridge

import (
	"github.com/wippyai/git-bridge/bindings"
	"github.com/wippyai/git-bridge/gogit"
	"github.com/wippyai/git-bridge/native"
	"github.com/wippyai/git-bridge/script"
	"github.com/wippyai/git-bridge/store"
)

// Bridge owns one wrapper store and the operation catalogue bound to a
// native library.
type Bridge struct {
	store *store.Store
	reg   *script.Registry
	lib   native.Library
}

// Option configures a Bridge.
type Option func(*config)

type config struct {
	lib native.Library
}

// WithLibrary substitutes the native library. The default is the go-git
// implementation.
func WithLibrary(lib native.Library) Option {
	return func(c *config) { c.lib = lib }
}

// New wires a store, a native library and the full operation catalogue.
func New(opts ...Option) (*Bridge, error) {
	cfg := config{lib: gogit.New()}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := store.New()
	reg := script.NewRegistry()
	if err := bindings.New(st, cfg.lib).RegisterAll(reg); err != nil {
		return nil, err
	}

	return &Bridge{store: st, reg: reg, lib: cfg.lib}, nil
}

// Call dispatches one operation by name.
func (b *Bridge) Call(name string, args ...script.Value) (script.Value, error) {
	return b.reg.Call(name, args...)
}

// Store exposes the wrapper store for inspection.
func (b *Bridge) Store() *store.Store {
	return b.store
}

// Registry exposes the operation table, for guests and tooling.
func (b *Bridge) Registry() *script.Registry {
	return b.reg
}

// Close drains every wrapper still alive.
func (b *Bridge) Close() {
	b.store.Close()
}
