package interpreter

import "fmt"

// Array is an ordered sequence of values. Spread marks a `...name`
// argument bundle that call sites flatten into the argument list.
type Array struct {
	Items  []Value
	Spread bool
}

// Len returns the number of items.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Items)
}

// CalcIndex resolves negative indexes from the end of the array.
func (a *Array) CalcIndex(index int) int {
	if index < 0 {
		return a.Len() + index
	}
	return index
}

// Get returns the item at index, allowing negative indexes.
func (a *Array) Get(index int) (Value, bool) {
	index = a.CalcIndex(index)
	if index < 0 || index >= a.Len() {
		return Value{}, false
	}
	return a.Items[index], true
}

// Arg returns the argument at index or an error naming the missing position.
func (a *Array) Arg(index int) (Value, error) {
	v, ok := a.Get(index)
	if !ok {
		return Value{}, fmt.Errorf("%w: missing argument %d", ErrTypeMismatch, index)
	}
	return v, nil
}

// Number returns the argument at index as a number.
func (a *Array) Number(index int) (float64, error) {
	v, err := a.Arg(index)
	if err != nil {
		return 0, err
	}
	if v.Kind != KindNumber {
		return 0, fmt.Errorf("%w: argument %d expected number, got %s", ErrTypeMismatch, index, v.TypeName())
	}
	return v.Number, nil
}

// Int returns the argument at index as an integer.
func (a *Array) Int(index int) (int, error) {
	n, err := a.Number(index)
	return int(n), err
}

// Bool returns the argument at index as a bool.
func (a *Array) Bool(index int) (bool, error) {
	v, err := a.Arg(index)
	if err != nil {
		return false, err
	}
	if v.Kind != KindBool {
		return false, fmt.Errorf("%w: argument %d expected bool, got %s", ErrTypeMismatch, index, v.TypeName())
	}
	return v.Boolean, nil
}

// Str returns the argument at index as a string.
func (a *Array) Str(index int) (string, error) {
	v, err := a.Arg(index)
	if err != nil {
		return "", err
	}
	if v.Kind != KindString {
		return "", fmt.Errorf("%w: argument %d expected string, got %s", ErrTypeMismatch, index, v.TypeName())
	}
	return v.Str, nil
}

// ArrayArg returns the argument at index as an array.
func (a *Array) ArrayArg(index int) (*Array, error) {
	v, err := a.Arg(index)
	if err != nil {
		return nil, err
	}
	if v.Kind != KindArray {
		return nil, fmt.Errorf("%w: argument %d expected array, got %s", ErrTypeMismatch, index, v.TypeName())
	}
	return v.Array, nil
}

// ObjectArg returns the argument at index as an object.
func (a *Array) ObjectArg(index int) (Object, error) {
	v, err := a.Arg(index)
	if err != nil {
		return nil, err
	}
	if v.Kind != KindObject {
		return nil, fmt.Errorf("%w: argument %d expected object, got %s", ErrTypeMismatch, index, v.TypeName())
	}
	return v.Object, nil
}
