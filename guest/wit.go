package guest

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
)

// The boundary contract is declared in WIT and lowered when a module is
// built. The cell record's canonical layout yields the field offsets the
// codec reads and writes at, the value variant is checked against that
// layout case by case, and the flat export signatures come from flattening
// the declared operation shape.

// valueType declares the variant of values that cross the boundary.
func valueType() *wit.Variant {
	return &wit.Variant{
		Cases: []wit.Case{
			{Name: "nil"},
			{Name: "bool", Type: wit.Bool{}},
			{Name: "int", Type: wit.S64{}},
			{Name: "str", Type: wit.String{}},
			{Name: "handle", Type: wit.U32{}},
		},
	}
}

// cellType declares the fixed record a value is lowered into.
func cellType() *wit.Record {
	return &wit.Record{
		Fields: []wit.Field{
			{Name: "tag", Type: wit.U32{}},
			{Name: "aux", Type: wit.U32{}},
			{Name: "datum", Type: wit.U64{}},
		},
	}
}

// Operations export the flat shape (argv, argc, retptr) -> status. The
// drop and last-error exports take a single index or pointer.
func opParams() []wit.Type    { return []wit.Type{wit.U32{}, wit.U32{}, wit.U32{}} }
func opResults() []wit.Type   { return []wit.Type{wit.S32{}} }
func indexParams() []wit.Type { return []wit.Type{wit.U32{}} }

// cellABI is the lowered contract: where each cell field sits and how wide
// one cell is.
type cellABI struct {
	tagOff   uint32
	auxOff   uint32
	datumOff uint32
	size     uint32
}

// lowerCells computes the cell record's canonical layout and checks the
// value variant fits it: scalar payloads must fit the datum field, string
// payloads split their pointer into aux and their byte length into datum.
// A declaration that does not lower is rejected before any export is
// built.
func lowerCells(cell *wit.Record, value *wit.Variant) (cellABI, error) {
	lay := recordLayout(cell)

	fields := make(map[string]layoutInfo, len(cell.Fields))
	for _, f := range cell.Fields {
		fields[f.Name] = layoutOf(f.Type)
	}
	for _, name := range []string{"tag", "aux", "datum"} {
		if _, ok := fields[name]; !ok {
			return cellABI{}, fmt.Errorf("%w: cell record lacks a %q field", ErrBadContract, name)
		}
	}
	if fields["tag"].size != 4 || fields["aux"].size != 4 {
		return cellABI{}, fmt.Errorf("%w: tag and aux fields must lower to u32", ErrBadContract)
	}
	if fields["datum"].size != 8 {
		return cellABI{}, fmt.Errorf("%w: datum field must lower to u64", ErrBadContract)
	}
	if lay.size != CellSize {
		return cellABI{}, fmt.Errorf("%w: cell record lowers to %d bytes, the wire uses %d", ErrBadContract, lay.size, CellSize)
	}

	for _, c := range value.Cases {
		if c.Type == nil {
			continue
		}
		if _, ok := c.Type.(wit.String); ok {
			continue
		}
		if pl := layoutOf(c.Type); pl.size > fields["datum"].size {
			return cellABI{}, fmt.Errorf("%w: case %q payload is %d bytes, datum holds %d", ErrBadContract, c.Name, pl.size, fields["datum"].size)
		}
	}

	return cellABI{
		tagOff:   lay.fieldOffs["tag"],
		auxOff:   lay.fieldOffs["aux"],
		datumOff: lay.fieldOffs["datum"],
		size:     lay.size,
	}, nil
}

// layoutInfo is a type's canonical size and alignment, with per-field
// offsets for records.
type layoutInfo struct {
	size      uint32
	align     uint32
	fieldOffs map[string]uint32
}

// layoutOf computes the canonical layout of t.
func layoutOf(t wit.Type) layoutInfo {
	switch v := t.(type) {
	case wit.Bool, wit.U8, wit.S8:
		return layoutInfo{size: 1, align: 1}
	case wit.U16, wit.S16:
		return layoutInfo{size: 2, align: 2}
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return layoutInfo{size: 4, align: 4}
	case wit.U64, wit.S64, wit.F64:
		return layoutInfo{size: 8, align: 8}
	case wit.String:
		return layoutInfo{size: 8, align: 4} // ptr + len
	case *wit.TypeDef:
		return layoutOfTypeDef(v)
	default:
		return layoutInfo{size: 0, align: 1}
	}
}

func layoutOfTypeDef(t *wit.TypeDef) layoutInfo {
	switch kind := t.Kind.(type) {
	case *wit.Record:
		return recordLayout(kind)
	case wit.Type:
		return layoutOf(kind)
	default:
		return layoutInfo{size: 0, align: 1}
	}
}

// recordLayout lays fields out in order, each aligned to its own
// requirement, the record as a whole to the widest field.
func recordLayout(r *wit.Record) layoutInfo {
	if len(r.Fields) == 0 {
		return layoutInfo{size: 0, align: 1}
	}

	offs := make(map[string]uint32, len(r.Fields))
	maxAlign := uint32(1)
	offset := uint32(0)

	for _, f := range r.Fields {
		fl := layoutOf(f.Type)
		offset = alignTo(offset, fl.align)
		offs[f.Name] = offset
		if fl.align > maxAlign {
			maxAlign = fl.align
		}
		offset += fl.size
	}

	return layoutInfo{size: alignTo(offset, maxAlign), align: maxAlign, fieldOffs: offs}
}

func alignTo(offset, align uint32) uint32 {
	return (offset + align - 1) &^ (align - 1)
}

// flattenType maps a WIT type to the core value types it lowers to.
func flattenType(t wit.Type) []api.ValueType {
	switch v := t.(type) {
	case wit.Bool, wit.U8, wit.U16, wit.U32, wit.S8, wit.S16, wit.S32, wit.Char:
		return []api.ValueType{api.ValueTypeI32}
	case wit.U64, wit.S64:
		return []api.ValueType{api.ValueTypeI64}
	case wit.F32:
		return []api.ValueType{api.ValueTypeF32}
	case wit.F64:
		return []api.ValueType{api.ValueTypeF64}
	case wit.String:
		return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32} // ptr, len
	case *wit.TypeDef:
		if inner, ok := v.Kind.(wit.Type); ok {
			return flattenType(inner)
		}
		return nil
	default:
		return nil
	}
}

// flattenTypes flattens each type in order.
func flattenTypes(types []wit.Type) []api.ValueType {
	var out []api.ValueType
	for _, t := range types {
		out = append(out, flattenType(t)...)
	}
	return out
}
