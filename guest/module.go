package guest

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/git-bridge/errors"
	"github.com/wippyai/git-bridge/script"
)

// ModuleName is the import namespace guests bind against.
const ModuleName = "git"

// Statuses returned by every exported function.
const (
	StatusOK       int32 = iota // result cell written
	StatusSignaled              // operation signaled; see the last-error register
	StatusBadCall               // ABI misuse: unreadable cells, unknown handles, no allocator
)

// Module exposes an operation registry to guests. All registered operations
// export the same flat shape: (argv, argc, retptr) -> status.
type Module struct {
	reg   *script.Registry
	table *Table
	abi   cellABI

	mu   sync.Mutex
	last *errors.Error
}

// NewModule builds a host module over reg, lowering the declared boundary
// contract into the cell layout every call uses.
func NewModule(reg *script.Registry) (*Module, error) {
	abi, err := lowerCells(cellType(), valueType())
	if err != nil {
		return nil, errors.InvalidInput(errors.PhaseGuest, err.Error())
	}
	return &Module{reg: reg, table: NewTable(), abi: abi}, nil
}

// Instantiate registers every operation plus the handle-drop and last-error
// exports into rt under ModuleName.
func (m *Module) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(ModuleName)

	params := flattenTypes(opParams())
	results := flattenTypes(opResults())

	names := m.reg.Names()
	for _, name := range names {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(m.opHandler(name), params, results).
			Export(name)
	}

	one := flattenTypes(indexParams())
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(m.dropHandler), one, results).
		Export("git-handle-drop")
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(m.lastClassHandler), one, results).
		Export("git-last-error-class")
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(m.lastMessageHandler), one, results).
		Export("git-last-error-message")
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(m.clearHandler), nil, nil).
		Export("git-last-error-clear")

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, err
	}
	Logger().Debug("instantiated host module",
		zap.String("module", ModuleName),
		zap.Int("operations", len(names)))
	return mod, nil
}

// LastError returns the most recent signal, for host-side inspection.
func (m *Module) LastError() *errors.Error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Handles returns the number of live guest handles.
func (m *Module) Handles() int {
	return m.table.Len()
}

// Close releases every guest-held handle.
func (m *Module) Close() {
	m.table.Close()
}

func (m *Module) opHandler(name string) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		argv := uint32(stack[0])
		argc := uint32(stack[1])
		ret := uint32(stack[2])
		stack[0] = api.EncodeI32(m.call(ctx, mod, name, argv, argc, ret))
	}
}

func (m *Module) call(ctx context.Context, mod api.Module, name string, argv, argc, ret uint32) int32 {
	mem, alloc, err := guestMemory(ctx, mod)
	if err != nil {
		m.setLast(errors.InvalidInput(errors.PhaseGuest, err.Error()))
		return StatusBadCall
	}
	return m.invoke(mem, alloc, name, argv, argc, ret)
}

// maxCallArgs bounds argc before any cell is read. No operation takes more
// than two arguments.
const maxCallArgs = 8

// invoke runs one operation against resolved guest memory.
func (m *Module) invoke(mem Memory, alloc Allocator, name string, argv, argc, ret uint32) int32 {
	if argc > maxCallArgs {
		m.setLast(errors.InvalidInput(errors.PhaseGuest, "argument count out of range"))
		return StatusBadCall
	}

	args := make([]script.Value, 0, argc)
	for i := uint32(0); i < argc; i++ {
		v, err := readCell(m.abi, mem, m.table, argv+i*m.abi.size)
		if err != nil {
			m.setLast(liftError(name, err))
			return StatusBadCall
		}
		args = append(args, v)
	}

	out, err := m.reg.Call(name, args...)
	if err != nil {
		m.setLast(asSignal(err))
		Logger().Debug("operation signaled", zap.String("op", name), zap.Error(err))
		return StatusSignaled
	}

	if err := writeCell(m.abi, mem, alloc, m.table, ret, out); err != nil {
		m.setLast(errors.InvalidInput(errors.PhaseGuest, err.Error()))
		return StatusBadCall
	}
	return StatusOK
}

func (m *Module) dropHandler(_ context.Context, _ api.Module, stack []uint64) {
	idx := Index(uint32(stack[0]))
	if !m.table.Drop(idx) {
		m.setLast(errors.Released("git-handle-drop"))
		stack[0] = api.EncodeI32(StatusBadCall)
		return
	}
	stack[0] = api.EncodeI32(StatusOK)
}

func (m *Module) lastClassHandler(ctx context.Context, mod api.Module, stack []uint64) {
	ret := uint32(stack[0])
	stack[0] = api.EncodeI32(m.writeLast(ctx, mod, ret, func(e *errors.Error) script.Value {
		if e.Class == "" {
			return script.Nil
		}
		return script.String(e.Class)
	}))
}

func (m *Module) lastMessageHandler(ctx context.Context, mod api.Module, stack []uint64) {
	ret := uint32(stack[0])
	stack[0] = api.EncodeI32(m.writeLast(ctx, mod, ret, func(e *errors.Error) script.Value {
		return script.String(e.Error())
	}))
}

func (m *Module) clearHandler(_ context.Context, _ api.Module, _ []uint64) {
	m.mu.Lock()
	m.last = nil
	m.mu.Unlock()
}

func (m *Module) writeLast(ctx context.Context, mod api.Module, ret uint32, field func(*errors.Error) script.Value) int32 {
	mem, alloc, err := guestMemory(ctx, mod)
	if err != nil {
		return StatusBadCall
	}
	return m.renderLast(mem, alloc, ret, field)
}

// renderLast writes one last-error field into the ret cell. Nil when no
// signal is parked.
func (m *Module) renderLast(mem Memory, alloc Allocator, ret uint32, field func(*errors.Error) script.Value) int32 {
	m.mu.Lock()
	last := m.last
	m.mu.Unlock()

	v := script.Nil
	if last != nil {
		v = field(last)
	}
	if err := writeCell(m.abi, mem, alloc, m.table, ret, v); err != nil {
		return StatusBadCall
	}
	return StatusOK
}

func (m *Module) setLast(e *errors.Error) {
	m.mu.Lock()
	m.last = e
	m.mu.Unlock()
}

// liftError classifies argument-decoding failures.
func liftError(op string, err error) *errors.Error {
	if stderrors.Is(err, ErrBadHandle) {
		return errors.Released(op)
	}
	return errors.InvalidInput(errors.PhaseGuest, err.Error())
}

// asSignal normalizes a registry failure for the last-error register.
func asSignal(err error) *errors.Error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e
	}
	return errors.New(errors.PhaseDispatch, errors.KindInvalidInput).
		Cause(err).
		Detail("unclassified failure").
		Build()
}
