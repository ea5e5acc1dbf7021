package guest

import (
	stderrors "errors"
	"fmt"
	"math"

	"github.com/wippyai/git-bridge/script"
)

// Values cross the boundary as fixed-size tagged cells. The wire layout is
// the canonical lowering of the cell record declared in wit.go:
//
//	+0  u32 tag
//	+4  u32 aux    string ptr or table index
//	+8  u64 datum  int64 bits, bool 0/1, or string byte length
//
// lowerCells rederives the offsets from the declaration and rejects a
// declaration that no longer produces this layout.
const CellSize = 16

// Cell tags.
const (
	TagNil uint32 = iota
	TagBool
	TagInt
	TagString
	TagHandle
)

var (
	ErrBadCell     = stderrors.New("malformed cell")
	ErrBadHandle   = stderrors.New("unknown guest handle")
	ErrNoAllocator = stderrors.New("guest exports no allocator")
	ErrBadContract = stderrors.New("invalid boundary contract")
)

// readCell decodes the cell at addr. Handle cells resolve through table.
func readCell(a cellABI, mem Memory, table *Table, addr uint32) (script.Value, error) {
	tag, err := mem.ReadU32(addr + a.tagOff)
	if err != nil {
		return script.Nil, err
	}
	aux, err := mem.ReadU32(addr + a.auxOff)
	if err != nil {
		return script.Nil, err
	}
	datum, err := mem.ReadU64(addr + a.datumOff)
	if err != nil {
		return script.Nil, err
	}

	switch tag {
	case TagNil:
		return script.Nil, nil
	case TagBool:
		return script.Bool(datum != 0), nil
	case TagInt:
		return script.Int(int64(datum)), nil
	case TagString:
		if datum > math.MaxUint32 {
			return script.Nil, fmt.Errorf("%w: string length %d", ErrBadCell, datum)
		}
		data, err := mem.Read(aux, uint32(datum))
		if err != nil {
			return script.Nil, err
		}
		return script.String(string(data)), nil
	case TagHandle:
		h, ok := table.Get(Index(aux))
		if !ok {
			return script.Nil, fmt.Errorf("%w: index %d", ErrBadHandle, aux)
		}
		return script.Handle(h), nil
	}
	return script.Nil, fmt.Errorf("%w: tag %d", ErrBadCell, tag)
}

// writeCell encodes v into the cell at addr. Strings are copied into guest
// memory through alloc; handle values are parked in table and cross as
// indexes.
func writeCell(a cellABI, mem Memory, alloc Allocator, table *Table, addr uint32, v script.Value) error {
	var tag, aux uint32
	var datum uint64

	switch v.Type() {
	case script.TypeNil:
		tag = TagNil
	case script.TypeBool:
		tag = TagBool
		if v.Bool() {
			datum = 1
		}
	case script.TypeInt:
		tag = TagInt
		datum = uint64(v.Int())
	case script.TypeString:
		tag = TagString
		data := []byte(v.Text())
		datum = uint64(len(data))
		if len(data) > 0 {
			if alloc == nil {
				return ErrNoAllocator
			}
			ptr, err := alloc.Alloc(uint32(len(data)), 1)
			if err != nil {
				return err
			}
			if err := mem.Write(ptr, data); err != nil {
				return err
			}
			aux = ptr
		}
	case script.TypeHandle:
		tag = TagHandle
		idx, err := table.Put(v.Handle())
		if err != nil {
			return err
		}
		aux = uint32(idx)
	}

	if err := mem.WriteU32(addr+a.tagOff, tag); err != nil {
		return err
	}
	if err := mem.WriteU32(addr+a.auxOff, aux); err != nil {
		return err
	}
	return mem.WriteU64(addr+a.datumOff, datum)
}
