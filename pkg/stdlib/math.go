package stdlib

import (
	"fmt"
	"math"

	"lysithea/pkg/interpreter"
)

func unary(fn func(float64) float64) interpreter.NativeFunc {
	return func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
		n, err := args.Number(0)
		if err != nil {
			return err
		}
		return vm.PushOperand(interpreter.NewNumber(fn(n)))
	}
}

// fold reduces every numeric argument with fn
func fold(name string, fn func(a, b float64) float64) interpreter.NativeFunc {
	return func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
		if args.Len() == 0 {
			return fmt.Errorf("%w: %s needs at least one argument", interpreter.ErrTypeMismatch, name)
		}
		result, err := args.Number(0)
		if err != nil {
			return err
		}
		for i := 1; i < args.Len(); i++ {
			n, err := args.Number(i)
			if err != nil {
				return err
			}
			result = fn(result, n)
		}
		return vm.PushOperand(interpreter.NewNumber(result))
	}
}

// NewMathScope defines the math object
func NewMathScope() *interpreter.Scope {
	s := interpreter.NewScope(nil)

	obj := object("math", map[string]interpreter.NativeFunc{
		"abs":   unary(math.Abs),
		"floor": unary(math.Floor),
		"ceil":  unary(math.Ceil),
		"round": unary(math.Round),
		"sqrt":  unary(math.Sqrt),
		"sin":   unary(math.Sin),
		"cos":   unary(math.Cos),
		"tan":   unary(math.Tan),
		"min":   fold("min", math.Min),
		"max":   fold("max", math.Max),
		"pow": func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
			x, err := args.Number(0)
			if err != nil {
				return err
			}
			y, err := args.Number(1)
			if err != nil {
				return err
			}
			return vm.PushOperand(interpreter.NewNumber(math.Pow(x, y)))
		},
	})
	obj["PI"] = interpreter.NewNumber(math.Pi)
	obj["E"] = interpreter.NewNumber(math.E)

	s.Define("math", interpreter.NewObject(obj))
	return s
}
