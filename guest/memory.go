package guest

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// Memory is the slice of guest linear memory the cell codec needs.
type Memory interface {
	Read(offset, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
}

// Allocator allocates guest linear memory for host-written payloads.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
}

// Allocator export names, canonical first.
const (
	cabiRealloc   = "cabi_realloc"
	legacyRealloc = "canonical_abi_realloc"
)

// wazeroMemory wraps wazero memory to implement Memory.
type wazeroMemory struct {
	mem api.Memory
}

func (m *wazeroMemory) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

func (m *wazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *wazeroMemory) ReadU32(offset uint32) (uint32, error) {
	val, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds: offset=%d", offset)
	}
	return val, nil
}

func (m *wazeroMemory) ReadU64(offset uint32) (uint64, error) {
	val, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds: offset=%d", offset)
	}
	return val, nil
}

func (m *wazeroMemory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return fmt.Errorf("write out of bounds: offset=%d", offset)
	}
	return nil
}

func (m *wazeroMemory) WriteU64(offset uint32, value uint64) error {
	if !m.mem.WriteUint64Le(offset, value) {
		return fmt.Errorf("write out of bounds: offset=%d", offset)
	}
	return nil
}

// wazeroAllocator calls the guest's exported realloc.
type wazeroAllocator struct {
	ctx     context.Context
	allocFn api.Function
}

func (a *wazeroAllocator) Alloc(size, align uint32) (uint32, error) {
	results, err := a.allocFn.Call(a.ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, err
	}
	return uint32(results[0]), nil
}

// guestMemory resolves mod's linear memory and allocator for one call.
func guestMemory(ctx context.Context, mod api.Module) (Memory, Allocator, error) {
	mem := mod.Memory()
	if mem == nil {
		return nil, nil, fmt.Errorf("module %s exports no memory", mod.Name())
	}

	var alloc Allocator
	for _, name := range []string{cabiRealloc, legacyRealloc} {
		if fn := mod.ExportedFunction(name); fn != nil {
			alloc = &wazeroAllocator{ctx: ctx, allocFn: fn}
			break
		}
	}
	return &wazeroMemory{mem: mem}, alloc, nil
}

var _ Memory = (*wazeroMemory)(nil)
var _ Allocator = (*wazeroAllocator)(nil)
