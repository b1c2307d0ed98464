package stdlib

import (
	"fmt"
	"slices"
	"strings"

	"lysithea/pkg/interpreter"
)

// arrayIndex resolves a possibly negative index. inclusive allows index == length.
func arrayIndex(a *interpreter.Array, index int, inclusive bool) (int, error) {
	index = a.CalcIndex(index)
	limit := a.Len()
	if inclusive {
		limit++
	}
	if index < 0 || index >= limit {
		return 0, fmt.Errorf("%w: %d of array length %d", ErrOutOfRange, index, a.Len())
	}
	return index, nil
}

// arrayAndIndex reads an (array, index) argument pair
func arrayAndIndex(args *interpreter.Array, inclusive bool) (*interpreter.Array, int, error) {
	arr, err := args.ArrayArg(0)
	if err != nil {
		return nil, 0, err
	}
	index, err := args.Int(1)
	if err != nil {
		return nil, 0, err
	}
	index, err = arrayIndex(arr, index, inclusive)
	return arr, index, err
}

// NewArrayScope defines the array object. Functions return new arrays.
func NewArrayScope() *interpreter.Scope {
	s := interpreter.NewScope(nil)

	obj := object("array", map[string]interpreter.NativeFunc{
		"length": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			arr, err := args.ArrayArg(0)
			if err != nil {
				return err
			}
			return vm.PushOperand(interpreter.NewNumber(float64(arr.Len())))
		},

		"get": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			arr, index, err := arrayAndIndex(args, false)
			if err != nil {
				return err
			}
			return vm.PushOperand(arr.Items[index])
		},

		"set": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			arr, index, err := arrayAndIndex(args, false)
			if err != nil {
				return err
			}
			v, err := args.Arg(2)
			if err != nil {
				return err
			}
			items := slices.Clone(arr.Items)
			items[index] = v
			return vm.PushOperand(interpreter.NewArray(items...))
		},

		"insert": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			arr, index, err := arrayAndIndex(args, true)
			if err != nil {
				return err
			}
			v, err := args.Arg(2)
			if err != nil {
				return err
			}
			items := slices.Insert(slices.Clone(arr.Items), index, v)
			return vm.PushOperand(interpreter.NewArray(items...))
		},

		"removeAt": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			arr, index, err := arrayAndIndex(args, false)
			if err != nil {
				return err
			}
			items := slices.Delete(slices.Clone(arr.Items), index, index+1)
			return vm.PushOperand(interpreter.NewArray(items...))
		},

		"contains": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			index, err := indexOf(args)
			if err != nil {
				return err
			}
			return vm.PushOperand(interpreter.NewBool(index >= 0))
		},

		"indexOf": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			index, err := indexOf(args)
			if err != nil {
				return err
			}
			return vm.PushOperand(interpreter.NewNumber(float64(index)))
		},

		// sublist(array, start, length)
		"sublist": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			arr, start, err := arrayAndIndex(args, true)
			if err != nil {
				return err
			}
			length, err := args.Int(2)
			if err != nil {
				return err
			}
			if length < 0 || start+length > arr.Len() {
				return fmt.Errorf("%w: sublist %d+%d of array length %d", ErrOutOfRange, start, length, arr.Len())
			}
			return vm.PushOperand(interpreter.NewArray(slices.Clone(arr.Items[start : start+length])...))
		},

		// join(array, separator)
		"join": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			arr, err := args.ArrayArg(0)
			if err != nil {
				return err
			}
			sep, err := args.Str(1)
			if err != nil {
				return err
			}
			parts := make([]string, arr.Len())
			for i, v := range arr.Items {
				parts[i] = v.String()
			}
			return vm.PushOperand(interpreter.NewString(strings.Join(parts, sep)))
		},
	})

	s.Define("array", interpreter.NewObject(obj))
	return s
}

func indexOf(args *interpreter.Array) (int, error) {
	arr, err := args.ArrayArg(0)
	if err != nil {
		return 0, err
	}
	v, err := args.Arg(1)
	if err != nil {
		return 0, err
	}
	return slices.IndexFunc(arr.Items, v.Equals), nil
}
