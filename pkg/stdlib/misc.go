package stdlib

import (
	"fmt"
	"strings"

	"lysithea/pkg/interpreter"
)

// NewMiscScope defines print, toString, typeof and exit
func NewMiscScope() *interpreter.Scope {
	s := interpreter.NewScope(nil)

	s.DefineFunc("print", func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
		var b strings.Builder
		for _, arg := range args.Items {
			b.WriteString(arg.String())
		}
		_, err := fmt.Fprintln(vm.Output(), b.String())
		return err
	})

	s.DefineFunc("toString", func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
		v, err := args.Arg(0)
		if err != nil {
			return err
		}
		return vm.PushOperand(interpreter.NewString(v.String()))
	})

	s.DefineFunc("typeof", func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
		v, err := args.Arg(0)
		if err != nil {
			return err
		}
		return vm.PushOperand(interpreter.NewString(v.TypeName()))
	})

	// exit halts the script after the current instruction
	s.DefineFunc("exit", func(vm *interpreter.VirtualMachine, args *interpreter.Array) error {
		vm.Stop()
		return nil
	})

	return s
}
