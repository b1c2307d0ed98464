package interpreter

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindUndefined ValueKind = iota
	KindNumber
	KindBool
	KindString
	KindArray
	KindObject
	KindFunction
	KindNative
	KindVariable // symbol reference, only seen by the assembler
)

var kindNames = map[ValueKind]string{
	KindUndefined: "undefined",
	KindNumber:    "number",
	KindBool:      "bool",
	KindString:    "string",
	KindArray:     "array",
	KindObject:    "object",
	KindFunction:  "function",
	KindNative:    "function",
	KindVariable:  "variable",
}

// String returns the user facing name of the kind
func (k ValueKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Object maps keys to values. Treated as immutable once wrapped in a Value.
type Object map[string]Value

// NativeFunc is a host callback. It receives the gathered call arguments
// and pushes any results onto the operand stack itself.
type NativeFunc func(vm *VirtualMachine, args *Array) error

// NativeFunction is a named host callback.
type NativeFunction struct {
	Name string
	Fn   NativeFunc
}

// Value represents a dynamically-typed value in the virtual machine.
// The zero Value is undefined and is used for instructions without an operand.
type Value struct {
	Kind     ValueKind
	Number   float64
	Boolean  bool
	Str      string // string contents, or the symbol name for KindVariable
	Array    *Array
	Object   Object
	Function *Function
	Native   *NativeFunction
}

// NewNumber creates a new number Value.
func NewNumber(n float64) Value {
	return Value{Kind: KindNumber, Number: n}
}

// NewBool creates a new boolean Value.
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Boolean: b}
}

// NewString creates a new string Value.
func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NewArray creates a new array Value holding items.
func NewArray(items ...Value) Value {
	return Value{Kind: KindArray, Array: &Array{Items: items}}
}

// NewSpread creates an array Value flagged as a variadic spread bundle.
func NewSpread(items []Value) Value {
	return Value{Kind: KindArray, Array: &Array{Items: items, Spread: true}}
}

// NewObject creates a new object Value.
func NewObject(obj Object) Value {
	if obj == nil {
		obj = Object{}
	}
	return Value{Kind: KindObject, Object: obj}
}

// NewFunction wraps a compiled function.
func NewFunction(fn *Function) Value {
	return Value{Kind: KindFunction, Function: fn}
}

// NewNative wraps a host callback.
func NewNative(name string, fn NativeFunc) Value {
	return Value{Kind: KindNative, Native: &NativeFunction{Name: name, Fn: fn}}
}

// NewVariable creates a symbol reference used during assembly.
func NewVariable(name string) Value {
	return Value{Kind: KindVariable, Str: name}
}

// IsUndefined reports whether the value carries nothing.
func (v Value) IsUndefined() bool {
	return v.Kind == KindUndefined
}

// IsNumber reports whether the value is a number.
func (v Value) IsNumber() bool {
	return v.Kind == KindNumber
}

// IsFunction reports whether the value can be invoked.
func (v Value) IsFunction() bool {
	return v.Kind == KindFunction || v.Kind == KindNative
}

// IsLabel reports whether the value is a `:label` symbol.
func (v Value) IsLabel() bool {
	return v.Kind == KindVariable && strings.HasPrefix(v.Str, ":")
}

// TypeName returns the name of the value's type.
func (v Value) TypeName() string {
	return v.Kind.String()
}

// String renders the value as a string.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		if v.Boolean {
			return "true"
		}
		return "false"
	case KindString, KindVariable:
		return v.Str
	case KindArray:
		parts := make([]string, len(v.Array.Items))
		for i, item := range v.Array.Items {
			parts[i] = item.nestedString()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindObject:
		keys := slices.Sorted(maps.Keys(v.Object))
		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = strconv.Quote(key) + ":" + v.Object[key].nestedString()
		}
		return "{" + strings.Join(parts, ",") + "}"
	case KindFunction:
		return "function:" + v.Function.Name
	case KindNative:
		return "function:" + v.Native.Name
	default:
		return "<undefined>"
	}
}

// nestedString quotes strings that appear inside arrays and objects.
func (v Value) nestedString() string {
	if v.Kind == KindString {
		return strconv.Quote(v.Str)
	}
	return v.String()
}

// AsNumber converts the value to float64 if possible.
func (v Value) AsNumber() (float64, error) {
	switch v.Kind {
	case KindNumber:
		return v.Number, nil
	case KindBool:
		if v.Boolean {
			return 1, nil
		}
		return 0, nil
	case KindUndefined, KindString, KindArray, KindObject, KindFunction, KindNative, KindVariable:
		return 0, fmt.Errorf("%w: expected number, got %s", ErrTypeMismatch, v.TypeName())
	}
	return 0, fmt.Errorf("%w: unknown kind %d", ErrTypeMismatch, int(v.Kind))
}

// AsBool converts the value to bool if possible.
func (v Value) AsBool() (bool, error) {
	switch v.Kind {
	case KindBool:
		return v.Boolean, nil
	case KindNumber:
		return v.Number != 0, nil
	case KindUndefined, KindString, KindArray, KindObject, KindFunction, KindNative, KindVariable:
		return false, fmt.Errorf("%w: expected bool, got %s", ErrTypeMismatch, v.TypeName())
	}
	return false, fmt.Errorf("%w: unknown kind %d", ErrTypeMismatch, int(v.Kind))
}

// Equals compares two values structurally. Functions compare by identity.
func (v Value) Equals(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}

	switch v.Kind {
	case KindUndefined:
		return true
	case KindNumber:
		return v.Number == other.Number
	case KindBool:
		return v.Boolean == other.Boolean
	case KindString, KindVariable:
		return v.Str == other.Str
	case KindArray:
		if v.Array == other.Array {
			return true
		}
		return slices.EqualFunc(v.Array.Items, other.Array.Items, Value.Equals)
	case KindObject:
		return maps.EqualFunc(v.Object, other.Object, Value.Equals)
	case KindFunction:
		return v.Function == other.Function
	case KindNative:
		return v.Native == other.Native
	}
	return false
}
