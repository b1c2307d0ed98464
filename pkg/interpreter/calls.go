package interpreter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNativeFailed wraps errors returned by host callbacks.
var ErrNativeFailed = errors.New("native function failed")

// gatherArgs pops count values in push order, flattening spread bundles one level.
func (i *VirtualMachine) gatherArgs(count int) (*Array, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative argument count %d", ErrTypeMismatch, count)
	}

	popped := make([]Value, count)
	spread := false
	for idx := count - 1; idx >= 0; idx-- {
		v, err := i.stack.Pop()
		if err != nil {
			return nil, err
		}
		if v.Kind == KindArray && v.Array.Spread {
			spread = true
		}
		popped[idx] = v
	}

	if !spread {
		return &Array{Items: popped}, nil
	}

	args := make([]Value, 0, count)
	for _, v := range popped {
		if v.Kind == KindArray && v.Array.Spread {
			args = append(args, v.Array.Items...)
			continue
		}
		args = append(args, v)
	}
	return &Array{Items: args}, nil
}

// callValue gathers count arguments and invokes fn with them
func (i *VirtualMachine) callValue(fn Value, count int) error {
	if !fn.IsFunction() {
		return fmt.Errorf("%w: %s", ErrNotAFunction, fn.TypeName())
	}
	args, err := i.gatherArgs(count)
	if err != nil {
		return err
	}
	return i.invoke(fn, args)
}

func (i *VirtualMachine) invoke(fn Value, args *Array) error {
	switch fn.Kind {
	case KindNative:
		if err := fn.Native.Fn(i, args); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrNativeFailed, fn.Native.Name, err)
		}
		return nil
	case KindFunction:
		return i.executeFunction(fn.Function, args)
	}
	return fmt.Errorf("%w: %s", ErrNotAFunction, fn.TypeName())
}

// executeFunction saves the caller in a frame and enters fn with a fresh scope
func (i *VirtualMachine) executeFunction(fn *Function, args *Array) error {
	err := i.callStack.Push(Frame{
		ReturnPC: i.pc,
		Function: i.function,
		Scope:    i.scope,
	})
	if err != nil {
		return err
	}

	i.function = fn
	i.scope = NewScope(i.globals)
	i.pc = 0

	for idx, name := range fn.Parameters {
		if rest, ok := strings.CutPrefix(name, UnpackPrefix); ok {
			var remaining []Value
			if idx < args.Len() {
				remaining = append(remaining, args.Items[idx:]...)
			}
			i.scope.Define(rest, NewArray(remaining...))
			break
		}
		if idx >= args.Len() {
			break
		}
		i.scope.Define(name, args.Items[idx])
	}

	return nil
}

// callReturn restores the caller saved by the nearest frame
func (i *VirtualMachine) callReturn() error {
	top, err := i.callStack.Pop()
	if err != nil {
		return ErrCallStackEmpty
	}

	i.function = top.Function
	i.scope = top.Scope
	i.pc = top.ReturnPC
	return nil
}

// CallFunction invokes fn with args and runs it to completion before returning.
// Host callbacks use it to call back into script functions.
func (i *VirtualMachine) CallFunction(fn Value, args *Array) error {
	if !fn.IsFunction() {
		return fmt.Errorf("%w: %s", ErrNotAFunction, fn.TypeName())
	}
	if args == nil {
		args = &Array{}
	}

	depth := i.callStack.Size()
	if err := i.invoke(fn, args); err != nil {
		return err
	}

	for i.callStack.Size() > depth {
		if _, err := i.Step(); err != nil {
			return err
		}
	}
	return nil
}
