package guest

import (
	"context"
	"strings"
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/git-bridge/errors"
	"github.com/wippyai/git-bridge/native"
	"github.com/wippyai/git-bridge/script"
	"github.com/wippyai/git-bridge/store"
)

// fixture registry: echo returns its argument, fail signals a git error,
// wrap returns a fresh repository handle.
func fixtureModule(t *testing.T) (*Module, *store.Store, *tableRes) {
	t.Helper()

	st := store.New()
	res := &tableRes{}
	reg := script.NewRegistry()

	reg.MustRegister(script.Op{
		Name: "echo", Min: 1, Max: 1, Doc: "Return ARG.",
		Call: script.Fn1(func(v script.Value) (script.Value, error) {
			return v, nil
		}),
	})
	reg.MustRegister(script.Op{
		Name: "fail", Min: 0, Max: 1, Doc: "Signal a native failure.",
		Call: script.Fn1(func(script.Value) (script.Value, error) {
			return script.Nil, errors.Git("fail", native.CodeNotFound, native.ClassReference, "reference 'refs/heads/x' not found")
		}),
	})
	reg.MustRegister(script.Op{
		Name: "wrap", Min: 0, Max: 1, Doc: "Return a fresh repository handle.",
		Call: script.Fn1(func(script.Value) (script.Value, error) {
			return script.Handle(st.Wrap(native.KindRepository, res)), nil
		}),
	})

	m, err := NewModule(reg)
	if err != nil {
		t.Fatalf("NewModule failed: %v", err)
	}
	return m, st, res
}

func TestInvokeEchoInt(t *testing.T) {
	m, _, _ := fixtureModule(t)
	mem := newTestMemory(256)
	alloc := &testAllocator{offset: 128}

	if err := writeCell(m.abi, mem, alloc, m.table, 0, script.Int(42)); err != nil {
		t.Fatalf("arg write failed: %v", err)
	}

	status := m.invoke(mem, alloc, "echo", 0, 1, 64)
	if status != StatusOK {
		t.Fatalf("status = %d, want %d", status, StatusOK)
	}

	out, err := readCell(m.abi, mem, m.table, 64)
	if err != nil {
		t.Fatalf("result read failed: %v", err)
	}
	if out.Int() != 42 {
		t.Errorf("result = %v, want 42", out)
	}
}

func TestInvokeEchoString(t *testing.T) {
	m, _, _ := fixtureModule(t)
	mem := newTestMemory(512)
	alloc := &testAllocator{offset: 256}

	if err := writeCell(m.abi, mem, alloc, m.table, 0, script.String("refs/heads/main")); err != nil {
		t.Fatalf("arg write failed: %v", err)
	}

	if status := m.invoke(mem, alloc, "echo", 0, 1, 64); status != StatusOK {
		t.Fatalf("status = %d, want %d", status, StatusOK)
	}

	out, err := readCell(m.abi, mem, m.table, 64)
	if err != nil {
		t.Fatalf("result read failed: %v", err)
	}
	if out.Text() != "refs/heads/main" {
		t.Errorf("result = %v", out)
	}
}

func TestInvokeSignalParksLastError(t *testing.T) {
	m, _, _ := fixtureModule(t)
	mem := newTestMemory(256)
	alloc := &testAllocator{offset: 128}

	status := m.invoke(mem, alloc, "fail", 0, 0, 0)
	if status != StatusSignaled {
		t.Fatalf("status = %d, want %d", status, StatusSignaled)
	}

	last := m.LastError()
	if last == nil || last.Kind != errors.KindGitError {
		t.Fatalf("last error = %v", last)
	}

	if st := m.renderLast(mem, alloc, 64, func(e *errors.Error) script.Value {
		return script.String(e.Class)
	}); st != StatusOK {
		t.Fatalf("render status = %d", st)
	}
	out, _ := readCell(m.abi, mem, m.table, 64)
	if out.Text() != native.ClassReference {
		t.Errorf("class register = %v, want %s", out, native.ClassReference)
	}

	if st := m.renderLast(mem, alloc, 80, func(e *errors.Error) script.Value {
		return script.String(e.Error())
	}); st != StatusOK {
		t.Fatalf("render status = %d", st)
	}
	out, _ = readCell(m.abi, mem, m.table, 80)
	if !strings.Contains(out.Text(), "refs/heads/x") {
		t.Errorf("message register = %v", out)
	}
}

func TestInvokeUnknownOperation(t *testing.T) {
	m, _, _ := fixtureModule(t)
	mem := newTestMemory(256)

	status := m.invoke(mem, nil, "missing", 0, 0, 0)
	if status != StatusSignaled {
		t.Fatalf("status = %d, want %d", status, StatusSignaled)
	}
	if last := m.LastError(); last == nil || last.Kind != errors.KindNotRegistered {
		t.Fatalf("last error = %v", last)
	}
}

func TestInvokeArityViolation(t *testing.T) {
	m, _, _ := fixtureModule(t)
	mem := newTestMemory(256)

	status := m.invoke(mem, nil, "echo", 0, 0, 64)
	if status != StatusSignaled {
		t.Fatalf("status = %d, want %d", status, StatusSignaled)
	}
	if last := m.LastError(); last == nil || last.Kind != errors.KindArity {
		t.Fatalf("last error = %v", last)
	}
}

func TestInvokeRejectsHugeArgc(t *testing.T) {
	m, _, _ := fixtureModule(t)
	mem := newTestMemory(256)

	status := m.invoke(mem, nil, "echo", 0, 1<<30, 64)
	if status != StatusBadCall {
		t.Fatalf("status = %d, want %d", status, StatusBadCall)
	}
}

func TestInvokeMalformedArgCell(t *testing.T) {
	m, _, _ := fixtureModule(t)
	mem := newTestMemory(256)
	mem.WriteU32(0, 99)

	status := m.invoke(mem, nil, "echo", 0, 1, 64)
	if status != StatusBadCall {
		t.Fatalf("status = %d, want %d", status, StatusBadCall)
	}
	if last := m.LastError(); last == nil || last.Kind != errors.KindInvalidInput {
		t.Fatalf("last error = %v", last)
	}
}

func TestInvokeUnknownHandleArg(t *testing.T) {
	m, _, _ := fixtureModule(t)
	mem := newTestMemory(256)
	mem.WriteU32(0, TagHandle)
	mem.WriteU32(4, 9)

	status := m.invoke(mem, nil, "echo", 0, 1, 64)
	if status != StatusBadCall {
		t.Fatalf("status = %d, want %d", status, StatusBadCall)
	}
	if last := m.LastError(); last == nil || last.Kind != errors.KindReleased {
		t.Fatalf("last error = %v", last)
	}
}

func TestHandleResultEntersTable(t *testing.T) {
	m, st, res := fixtureModule(t)
	mem := newTestMemory(256)
	alloc := &testAllocator{offset: 128}

	if status := m.invoke(mem, alloc, "wrap", 0, 0, 0); status != StatusOK {
		t.Fatalf("status = %d, want %d", status, StatusOK)
	}
	if m.Handles() != 1 {
		t.Fatalf("table holds %d handles, want 1", m.Handles())
	}

	out, err := readCell(m.abi, mem, m.table, 0)
	if err != nil {
		t.Fatalf("result read failed: %v", err)
	}
	if out.Handle().Kind() != native.KindRepository {
		t.Errorf("result kind = %v", out.Handle().Kind())
	}
	if !st.Contains(res) {
		t.Error("resource missing from store")
	}
}

func TestDropHandlerReleases(t *testing.T) {
	m, st, res := fixtureModule(t)
	mem := newTestMemory(256)
	alloc := &testAllocator{offset: 128}

	if status := m.invoke(mem, alloc, "wrap", 0, 0, 0); status != StatusOK {
		t.Fatal("wrap failed")
	}
	idx, _ := mem.ReadU32(4)

	stack := []uint64{uint64(idx)}
	m.dropHandler(context.Background(), nil, stack)
	if api.DecodeI32(stack[0]) != StatusOK {
		t.Fatalf("drop status = %d", api.DecodeI32(stack[0]))
	}
	if !res.freed {
		t.Error("resource not freed")
	}
	if st.Len() != 0 {
		t.Errorf("store holds %d entries", st.Len())
	}

	stack[0] = uint64(idx)
	m.dropHandler(context.Background(), nil, stack)
	if api.DecodeI32(stack[0]) != StatusBadCall {
		t.Error("second drop did not report bad call")
	}
	if last := m.LastError(); last == nil || last.Kind != errors.KindReleased {
		t.Fatalf("last error = %v", last)
	}
}

func TestClearLastError(t *testing.T) {
	m, _, _ := fixtureModule(t)
	mem := newTestMemory(256)

	m.invoke(mem, nil, "fail", 0, 0, 0)
	if m.LastError() == nil {
		t.Fatal("no last error parked")
	}

	m.clearHandler(context.Background(), nil, nil)
	if m.LastError() != nil {
		t.Fatal("last error survived clear")
	}

	if st := m.renderLast(mem, nil, 64, func(e *errors.Error) script.Value {
		return script.String(e.Class)
	}); st != StatusOK {
		t.Fatalf("render status = %d", st)
	}
	out, _ := readCell(m.abi, mem, m.table, 64)
	if !out.IsNil() {
		t.Errorf("cleared register = %v, want nil", out)
	}
}

func TestModuleCloseReleasesGuestHandles(t *testing.T) {
	m, st, res := fixtureModule(t)
	mem := newTestMemory(256)
	alloc := &testAllocator{offset: 128}

	if status := m.invoke(mem, alloc, "wrap", 0, 0, 0); status != StatusOK {
		t.Fatal("wrap failed")
	}

	m.Close()
	if !res.freed {
		t.Error("resource not freed on close")
	}
	if st.Len() != 0 {
		t.Errorf("store holds %d entries after close", st.Len())
	}
	if m.Handles() != 0 {
		t.Errorf("table holds %d handles after close", m.Handles())
	}
}

func TestStringResultWithoutAllocator(t *testing.T) {
	m, _, _ := fixtureModule(t)
	mem := newTestMemory(512)
	alloc := &testAllocator{offset: 256}

	if err := writeCell(m.abi, mem, alloc, m.table, 0, script.String("payload")); err != nil {
		t.Fatalf("arg write failed: %v", err)
	}

	status := m.invoke(mem, nil, "echo", 0, 1, 64)
	if status != StatusBadCall {
		t.Fatalf("status = %d, want %d", status, StatusBadCall)
	}
	if last := m.LastError(); last == nil || last.Kind != errors.KindInvalidInput {
		t.Fatalf("last error = %v", last)
	}
}
