package wlang

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// ValueKind enumerates the runtime value variants.
type ValueKind int

const (
	KindNil ValueKind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindArray
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// ElementKind is the element type an array is fixed to at creation.
type ElementKind int

const (
	ElementNumeric ElementKind = iota
	ElementString
)

func (k ElementKind) String() string {
	if k == ElementString {
		return "string"
	}
	return "numeric"
}

type arrayData struct {
	elem  ElementKind
	items []Value
}

// Value is the runtime representation of every W datum.
type Value struct {
	kind ValueKind
	data any
}

func NewInt(i int64) Value { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }
func NewBool(b bool) Value { return Value{kind: KindBool, data: b} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }

func NewArray(elem ElementKind, items []Value) Value {
	return Value{kind: KindArray, data: arrayData{elem: elem, items: slices.Clone(items)}}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.data.(int64)
	case KindFloat:
		return int64(v.data.(float64))
	default:
		return 0
	}
}

func (v Value) Float() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.data.(int64))
	case KindFloat:
		return v.data.(float64)
	default:
		return 0
	}
}

func (v Value) Bool() bool {
	if v.kind != KindBool {
		return false
	}
	return v.data.(bool)
}

// Str returns the string payload; use String for display text.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.data.(string)
}

// Elements returns a copy of an array's items.
func (v Value) Elements() []Value {
	if v.kind != KindArray {
		return nil
	}
	return slices.Clone(v.data.(arrayData).items)
}

// ElementKind returns the element kind of an array value.
func (v Value) ElementKind() ElementKind {
	if v.kind != KindArray {
		return ElementNumeric
	}
	return v.data.(arrayData).elem
}

// Len returns the number of items in an array value.
func (v Value) Len() int {
	if v.kind != KindArray {
		return 0
	}
	return len(v.data.(arrayData).items)
}

func (v Value) IsNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// Copy returns a value that shares no storage with v.
func (v Value) Copy() Value {
	if v.kind != KindArray {
		return v
	}
	arr := v.data.(arrayData)
	return NewArray(arr.elem, arr.items)
}

// String returns the display text used by show.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return ""
	case KindInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case KindFloat:
		return formatFloat(v.data.(float64))
	case KindBool:
		if v.data.(bool) {
			return "true"
		}
		return "false"
	case KindString:
		return v.data.(string)
	case KindArray:
		items := v.data.(arrayData).items
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}

// Equal reports whether two values are the same kind and content. Int and
// Float compare by numeric value.
func (v Value) Equal(other Value) bool {
	if v.IsNumeric() && other.IsNumeric() {
		if v.kind == KindInt && other.kind == KindInt {
			return v.data.(int64) == other.data.(int64)
		}
		return v.Float() == other.Float()
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.data.(bool) == other.data.(bool)
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindArray:
		a, b := v.data.(arrayData), other.data.(arrayData)
		if a.elem != b.elem || len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !a.items[i].Equal(b.items[i]) {
				return false
			}
		}
		return true
	}
	return false
}
