package script

import (
	"strconv"

	"github.com/wippyai/git-bridge/store"
)

// Type tags the payload of a Value.
type Type uint8

const (
	TypeNil Type = iota
	TypeBool
	TypeInt
	TypeString
	TypeHandle
)

func (t Type) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeHandle:
		return "handle"
	}
	return "invalid"
}

// Value is the tagged union crossing the host boundary. The zero value is
// Nil.
type Value struct {
	typ Type
	b   bool
	i   int64
	s   string
	h   *store.Handle
}

// Nil is the absent value and the omitted-argument sentinel.
var Nil = Value{}

// Bool wraps a boolean.
func Bool(v bool) Value { return Value{typ: TypeBool, b: v} }

// Int wraps an integer.
func Int(v int64) Value { return Value{typ: TypeInt, i: v} }

// String wraps a string.
func String(s string) Value { return Value{typ: TypeString, s: s} }

// Handle wraps a store handle. A nil handle yields Nil.
func Handle(h *store.Handle) Value {
	if h == nil {
		return Nil
	}
	return Value{typ: TypeHandle, h: h}
}

// Type returns the payload tag.
func (v Value) Type() Type { return v.typ }

// IsNil reports whether v is the absent value.
func (v Value) IsNil() bool { return v.typ == TypeNil }

// Truthy reports whether v counts as true in a flag position: everything
// except Nil and false.
func (v Value) Truthy() bool {
	if v.typ == TypeBool {
		return v.b
	}
	return v.typ != TypeNil
}

// Bool returns the boolean payload, false for any other type.
func (v Value) Bool() bool { return v.typ == TypeBool && v.b }

// Int returns the integer payload, 0 for any other type.
func (v Value) Int() int64 {
	if v.typ != TypeInt {
		return 0
	}
	return v.i
}

// Text returns the string payload, "" for any other type.
func (v Value) Text() string {
	if v.typ != TypeString {
		return ""
	}
	return v.s
}

// Handle returns the wrapped store handle, nil for any other type.
func (v Value) Handle() *store.Handle {
	if v.typ != TypeHandle {
		return nil
	}
	return v.h
}

// String renders v for logs and interactive output.
func (v Value) String() string {
	switch v.typ {
	case TypeNil:
		return "nil"
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeString:
		return strconv.Quote(v.s)
	case TypeHandle:
		return "#<" + v.h.Kind().String() + ">"
	}
	return "#<invalid>"
}
