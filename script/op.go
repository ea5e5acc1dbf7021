package script

import (
	"sort"
	"sync"

	"github.com/wippyai/git-bridge/errors"
)

// Handler is the uniform call shape behind every operation. The registry
// guarantees len(args) is within the declared arity before a handler runs;
// the Fn adapters pad omitted optionals with Nil.
type Handler func(args []Value) (Value, error)

// Op is one entry in the operation table.
type Op struct {
	Name string
	Min  int
	Max  int
	Doc  string
	Call Handler
}

// Fn1 adapts a unary operation. The argument is Nil when omitted.
func Fn1(fn func(Value) (Value, error)) Handler {
	return func(args []Value) (Value, error) {
		return fn(argOr(args, 0))
	}
}

// Fn2 adapts a binary operation. Omitted arguments are Nil.
func Fn2(fn func(Value, Value) (Value, error)) Handler {
	return func(args []Value) (Value, error) {
		return fn(argOr(args, 0), argOr(args, 1))
	}
}

// argOr returns args[i], or Nil past the end. Simulates optional arguments.
func argOr(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Nil
}

// Registry maps public operation names to handlers.
type Registry struct {
	ops map[string]Op
	mu  sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[string]Op),
	}
}

// Register adds op to the table. Names must be unique and non-empty, the
// arity range must be sane, and the handler must be set.
func (r *Registry) Register(op Op) error {
	if op.Name == "" {
		return errors.InvalidInput(errors.PhaseDispatch, "operation name cannot be empty")
	}
	if op.Call == nil {
		return errors.Registration(op.Name, errors.InvalidInput(errors.PhaseDispatch, "nil handler"))
	}
	if op.Min < 0 || op.Max < op.Min || op.Max > 2 {
		return errors.Registration(op.Name, errors.InvalidInput(errors.PhaseDispatch, "arity range out of bounds"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[op.Name]; exists {
		return errors.Registration(op.Name, errors.InvalidInput(errors.PhaseDispatch, "duplicate operation"))
	}
	r.ops[op.Name] = op
	return nil
}

// MustRegister is Register that panics on error, for wiring static tables.
func (r *Registry) MustRegister(op Op) {
	if err := r.Register(op); err != nil {
		panic(err)
	}
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (Op, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

// Names returns all registered operation names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call dispatches name with args: unknown names and out-of-range argument
// counts signal without reaching the handler.
func (r *Registry) Call(name string, args ...Value) (Value, error) {
	r.mu.RLock()
	op, ok := r.ops[name]
	r.mu.RUnlock()

	if !ok {
		return Nil, errors.NotRegistered(name)
	}
	if len(args) < op.Min || len(args) > op.Max {
		return Nil, errors.Arity(name, len(args), op.Min, op.Max)
	}
	return op.Call(args)
}
