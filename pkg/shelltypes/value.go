// Package shelltypes defines the data model shared by the cmdshell interpreter packages.
// It contains parameter type tags, typed values, command descriptors, execution results
// and the error taxonomy reported by the tokenizer, binder, registry and dispatcher.
package shelltypes

import (
	"strconv"
	"strings"
)

// ParamType is the closed set of argument types a command parameter may declare.
type ParamType int

const (
	// TypeString accepts any token verbatim.
	TypeString ParamType = iota
	// TypeInt accepts signed decimal or 0x-prefixed hexadecimal integers.
	TypeInt
	// TypeUint accepts unsigned decimal or 0x-prefixed hexadecimal integers.
	TypeUint
	// TypeFloat accepts decimal and exponential floating-point notation.
	TypeFloat
	// TypeBool accepts the literals true/True/t/T/1 and false/False/f/F/0.
	TypeBool
	// TypeChoice accepts one member of an enumerated set of strings.
	TypeChoice
)

// String returns the lowercase name of the type tag.
func (t ParamType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Value is a typed argument value produced by the binder.
// A variadic parameter binds to a list Value whose items carry the element type.
type Value struct {
	kind  ParamType
	text  string
	i     int64
	u     uint64
	f     float64
	b     bool
	list  bool
	items []Value
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{kind: TypeString, text: s}
}

// ChoiceValue returns a choice Value holding the selected member.
func ChoiceValue(s string) Value {
	return Value{kind: TypeChoice, text: s}
}

// IntValue returns a signed integer Value.
func IntValue(v int64) Value {
	return Value{kind: TypeInt, text: strconv.FormatInt(v, 10), i: v}
}

// UintValue returns an unsigned integer Value.
func UintValue(v uint64) Value {
	return Value{kind: TypeUint, text: strconv.FormatUint(v, 10), u: v}
}

// FloatValue returns a floating-point Value.
func FloatValue(v float64) Value {
	return Value{kind: TypeFloat, text: strconv.FormatFloat(v, 'g', -1, 64), f: v}
}

// BoolValue returns a boolean Value.
func BoolValue(v bool) Value {
	return Value{kind: TypeBool, text: strconv.FormatBool(v), b: v}
}

// ListValue returns a list Value of the given element type. The items slice is copied.
func ListValue(kind ParamType, items []Value) Value {
	copied := make([]Value, len(items))
	copy(copied, items)
	return Value{kind: kind, list: true, items: copied}
}

// WithText returns a copy of v that remembers the token it was parsed from.
func (v Value) WithText(text string) Value {
	v.text = text
	return v
}

// Kind returns the type tag of the value, or of its items for a list.
func (v Value) Kind() ParamType { return v.kind }

// IsList reports whether the value was bound by a variadic parameter.
func (v Value) IsList() bool { return v.list }

// Text returns the source token, or the canonical text for values built in code.
func (v Value) Text() string { return v.text }

// Int returns the signed integer payload. Unsigned values are converted.
func (v Value) Int() int64 {
	if v.kind == TypeUint {
		return int64(v.u)
	}
	return v.i
}

// Uint returns the unsigned integer payload. Non-negative signed values are converted.
func (v Value) Uint() uint64 {
	if v.kind == TypeInt && v.i >= 0 {
		return uint64(v.i)
	}
	return v.u
}

// Float returns the floating-point payload. Integer values are converted.
func (v Value) Float() float64 {
	switch v.kind {
	case TypeInt:
		return float64(v.i)
	case TypeUint:
		return float64(v.u)
	default:
		return v.f
	}
}

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// Items returns a copy of the list items. Scalars return nil.
func (v Value) Items() []Value {
	if !v.list {
		return nil
	}
	items := make([]Value, len(v.items))
	copy(items, v.items)
	return items
}

// Interface returns the payload as a plain Go value:
// string, int64, uint64, float64, bool, or []any for lists.
func (v Value) Interface() any {
	if v.list {
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	}
	switch v.kind {
	case TypeInt:
		return v.i
	case TypeUint:
		return v.u
	case TypeFloat:
		return v.f
	case TypeBool:
		return v.b
	default:
		return v.text
	}
}

// String implements fmt.Stringer. Lists are rendered space separated.
func (v Value) String() string {
	if !v.list {
		return v.text
	}
	parts := make([]string, len(v.items))
	for i, item := range v.items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

// Equal reports whether two values have the same kind, shape and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.list != other.list {
		return false
	}
	if v.list {
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	}
	switch v.kind {
	case TypeInt:
		return v.i == other.i
	case TypeUint:
		return v.u == other.u
	case TypeFloat:
		return v.f == other.f
	case TypeBool:
		return v.b == other.b
	default:
		return v.text == other.text
	}
}
