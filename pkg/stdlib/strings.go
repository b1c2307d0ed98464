package stdlib

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"lysithea/pkg/interpreter"
)

// NewStringScope defines the string object. Indexes count runes.
func NewStringScope() *interpreter.Scope {
	s := interpreter.NewScope(nil)

	obj := object("string", map[string]interpreter.NativeFunc{
		"length": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			str, err := args.Str(0)
			if err != nil {
				return err
			}
			return vm.PushOperand(interpreter.NewNumber(float64(utf8.RuneCountInString(str))))
		},

		"get": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			str, err := args.Str(0)
			if err != nil {
				return err
			}
			index, err := args.Int(1)
			if err != nil {
				return err
			}
			runes := []rune(str)
			if index < 0 {
				index += len(runes)
			}
			if index < 0 || index >= len(runes) {
				return fmt.Errorf("%w: %d of string length %d", ErrOutOfRange, index, len(runes))
			}
			return vm.PushOperand(interpreter.NewString(string(runes[index])))
		},

		// join(separator, values...)
		"join": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			sep, err := args.Str(0)
			if err != nil {
				return err
			}
			parts := make([]string, 0, args.Len()-1)
			for _, v := range args.Items[1:] {
				parts = append(parts, v.String())
			}
			return vm.PushOperand(interpreter.NewString(strings.Join(parts, sep)))
		},

		// substring(str, start, length)
		"substring": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			str, err := args.Str(0)
			if err != nil {
				return err
			}
			start, err := args.Int(1)
			if err != nil {
				return err
			}
			length, err := args.Int(2)
			if err != nil {
				return err
			}
			runes := []rune(str)
			if start < 0 {
				start += len(runes)
			}
			if start < 0 || length < 0 || start+length > len(runes) {
				return fmt.Errorf("%w: substring %d+%d of length %d", ErrOutOfRange, start, length, len(runes))
			}
			return vm.PushOperand(interpreter.NewString(string(runes[start : start+length])))
		},

		"toUpper": mapString(strings.ToUpper),
		"toLower": mapString(strings.ToLower),

		"contains": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			str, err := args.Str(0)
			if err != nil {
				return err
			}
			sub, err := args.Str(1)
			if err != nil {
				return err
			}
			return vm.PushOperand(interpreter.NewBool(strings.Contains(str, sub)))
		},
	})

	s.Define("string", interpreter.NewObject(obj))
	return s
}

func mapString(fn func(string) string) interpreter.NativeFunc {
	return func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
		str, err := args.Str(0)
		if err != nil {
			return err
		}
		return vm.PushOperand(interpreter.NewString(fn(str)))
	}
}
