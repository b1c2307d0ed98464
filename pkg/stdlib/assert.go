package stdlib

import (
	"fmt"

	"lysithea/pkg/interpreter"
)

func assertBool(want bool) interpreter.NativeFunc {
	return func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
		v, err := args.Arg(0)
		if err != nil {
			return err
		}
		got, err := v.AsBool()
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("%w: expected %t", ErrAssertion, want)
		}
		return nil
	}
}

// NewAssertScope defines the assert object. Failed assertions stop the script with ErrAssertion.
func NewAssertScope() *interpreter.Scope {
	s := interpreter.NewScope(nil)

	obj := object("assert", map[string]interpreter.NativeFunc{
		"true":  assertBool(true),
		"false": assertBool(false),

		"equals": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			expected, err := args.Arg(0)
			if err != nil {
				return err
			}
			actual, err := args.Arg(1)
			if err != nil {
				return err
			}
			if !expected.Equals(actual) {
				return fmt.Errorf("%w: expected %s, actual %s", ErrAssertion, expected, actual)
			}
			return nil
		},

		"notEquals": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			expected, err := args.Arg(0)
			if err != nil {
				return err
			}
			actual, err := args.Arg(1)
			if err != nil {
				return err
			}
			if expected.Equals(actual) {
				return fmt.Errorf("%w: expected not %s", ErrAssertion, actual)
			}
			return nil
		},
	})

	s.Define("assert", interpreter.NewObject(obj))
	return s
}
