package stdlib

import (
	"fmt"
	"maps"
	"slices"

	"lysithea/pkg/interpreter"
)

func objectAndKey(args *interpreter.Array) (interpreter.Object, string, error) {
	obj, err := args.ObjectArg(0)
	if err != nil {
		return nil, "", err
	}
	key, err := args.Arg(1)
	if err != nil {
		return nil, "", err
	}
	return obj, key.String(), nil
}

// NewObjectScope defines the object object. Functions return new objects.
func NewObjectScope() *interpreter.Scope {
	s := interpreter.NewScope(nil)

	obj := object("object", map[string]interpreter.NativeFunc{
		// get(object, key, default?)
		"get": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			o, key, err := objectAndKey(args)
			if err != nil {
				return err
			}
			if v, ok := o[key]; ok {
				return vm.PushOperand(v)
			}
			if fallback, ok := args.Get(2); ok {
				return vm.PushOperand(fallback)
			}
			return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		},

		"set": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			o, key, err := objectAndKey(args)
			if err != nil {
				return err
			}
			v, err := args.Arg(2)
			if err != nil {
				return err
			}
			result := maps.Clone(o)
			if result == nil {
				result = interpreter.Object{}
			}
			result[key] = v
			return vm.PushOperand(interpreter.NewObject(result))
		},

		"removeKey": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			o, key, err := objectAndKey(args)
			if err != nil {
				return err
			}
			result := maps.Clone(o)
			delete(result, key)
			return vm.PushOperand(interpreter.NewObject(result))
		},

		"keys": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			o, err := args.ObjectArg(0)
			if err != nil {
				return err
			}
			keys := slices.Sorted(maps.Keys(o))
			items := make([]interpreter.Value, len(keys))
			for i, key := range keys {
				items[i] = interpreter.NewString(key)
			}
			return vm.PushOperand(interpreter.NewArray(items...))
		},

		// values are ordered by key
		"values": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			o, err := args.ObjectArg(0)
			if err != nil {
				return err
			}
			keys := slices.Sorted(maps.Keys(o))
			items := make([]interpreter.Value, len(keys))
			for i, key := range keys {
				items[i] = o[key]
			}
			return vm.PushOperand(interpreter.NewArray(items...))
		},

		"length": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			o, err := args.ObjectArg(0)
			if err != nil {
				return err
			}
			return vm.PushOperand(interpreter.NewNumber(float64(len(o))))
		},
	})

	s.Define("object", interpreter.NewObject(obj))
	return s
}
