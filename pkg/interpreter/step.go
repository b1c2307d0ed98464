package interpreter

import (
	"fmt"
	"strings"
)

// coreStep executes a single decoded instruction. The program counter
// already points past in when coreStep is called.
func coreStep(i *VirtualMachine, in Instruction) error {
	switch in.Op {
	case OpPush:
		if in.Arg.IsUndefined() {
			top, err := i.stack.Peek()
			if err != nil {
				return err
			}
			return i.stack.Push(top)
		}
		return i.stack.Push(in.Arg)

	case OpToArgument:
		v, err := i.operand(in)
		if err != nil {
			return err
		}
		if v.Kind != KindArray {
			return fmt.Errorf("%w: unable to convert %s to argument", ErrTypeMismatch, v.TypeName())
		}
		return i.stack.Push(NewSpread(v.Array.Items))

	case OpGet:
		key, err := i.operand(in)
		if err != nil {
			return err
		}
		if key.Kind != KindString {
			return fmt.Errorf("%w: get needs a string name, got %s", ErrTypeMismatch, key.TypeName())
		}
		v, err := i.lookup(key.Str)
		if err != nil {
			return err
		}
		return i.stack.Push(v)

	case OpGetProperty:
		path, err := i.operand(in)
		if err != nil {
			return err
		}
		if path.Kind != KindArray {
			return fmt.Errorf("%w: property path needs to be an array, got %s", ErrTypeMismatch, path.TypeName())
		}
		target, err := i.stack.Pop()
		if err != nil {
			return err
		}
		found, ok := GetProperty(target, path.Array)
		if !ok {
			return fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyPath(path.Array))
		}
		return i.stack.Push(found)

	case OpDefine:
		key, err := i.operand(in)
		if err != nil {
			return err
		}
		v, err := i.stack.Pop()
		if err != nil {
			return err
		}
		i.scope.Define(key.String(), v)
		return nil

	case OpSet:
		key, err := i.operand(in)
		if err != nil {
			return err
		}
		v, err := i.stack.Pop()
		if err != nil {
			return err
		}
		if !i.scope.TrySet(key.String(), v) {
			return fmt.Errorf("%w: unable to set %s", ErrUndefinedVariable, key.String())
		}
		return nil

	case OpJump:
		label, err := i.operand(in)
		if err != nil {
			return err
		}
		return i.jump(label.String())

	case OpJumpTrue, OpJumpFalse:
		label, err := i.operand(in)
		if err != nil {
			return err
		}
		cond, err := i.stack.Pop()
		if err != nil {
			return err
		}
		truthy, err := cond.AsBool()
		if err != nil {
			return err
		}
		if truthy == (in.Op == OpJumpTrue) {
			return i.jump(label.String())
		}
		return nil

	case OpCall:
		if in.Arg.Kind != KindNumber {
			return fmt.Errorf("%w: call needs an argument count", ErrTypeMismatch)
		}
		fn, err := i.stack.Pop()
		if err != nil {
			return err
		}
		return i.callValue(fn, int(in.Arg.Number))

	case OpCallDirect:
		fn, count, err := directCall(in.Arg)
		if err != nil {
			return err
		}
		return i.callValue(fn, count)

	case OpCallReturn:
		return i.callReturn()

	case OpAdd, OpSub, OpMultiply, OpDivide,
		OpLessThan, OpLessThanEquals, OpGreaterThan, OpGreaterThanEquals,
		OpEquals, OpNotEquals, OpAnd, OpOr:
		right, err := i.operand(in)
		if err != nil {
			return err
		}
		left, err := i.stack.Pop()
		if err != nil {
			return err
		}
		result, err := evalBinary(in.Op, left, right)
		if err != nil {
			return err
		}
		return i.stack.Push(result)

	case OpUnaryNegative:
		v, err := i.operand(in)
		if err != nil {
			return err
		}
		n, err := v.AsNumber()
		if err != nil {
			return err
		}
		return i.stack.Push(NewNumber(-n))

	case OpNot:
		v, err := i.operand(in)
		if err != nil {
			return err
		}
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		return i.stack.Push(NewBool(!b))

	case OpInc, OpDec:
		key, err := i.operand(in)
		if err != nil {
			return err
		}
		return i.increment(key.String(), in.Op)

	case OpStringConcat:
		count, err := i.operand(in)
		if err != nil {
			return err
		}
		n, err := count.AsNumber()
		if err != nil {
			return err
		}
		return i.concat(int(n))
	}

	return fmt.Errorf("%w: %q", ErrUnknownOpcode, in.Op)
}

// operand returns the embedded argument, or pops it from the stack when absent
func (i *VirtualMachine) operand(in Instruction) (Value, error) {
	if !in.Arg.IsUndefined() {
		return in.Arg, nil
	}
	return i.stack.Pop()
}

// increment adds or subtracts one from a numeric variable in place
func (i *VirtualMachine) increment(name string, op Opcode) error {
	v, ok := i.scope.TryGet(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUndefinedVariable, name)
	}
	n, err := v.AsNumber()
	if err != nil {
		return err
	}
	if op == OpInc {
		n++
	} else {
		n--
	}
	i.scope.TrySet(name, NewNumber(n))
	return nil
}

// concat pops count values and pushes them joined in push order
func (i *VirtualMachine) concat(count int) error {
	if count < 0 {
		return fmt.Errorf("%w: negative concat count %d", ErrTypeMismatch, count)
	}
	parts := make([]string, count)
	for idx := count - 1; idx >= 0; idx-- {
		v, err := i.stack.Pop()
		if err != nil {
			return err
		}
		parts[idx] = v.String()
	}
	return i.stack.Push(NewString(strings.Join(parts, "")))
}

// jump moves the program counter to label within the current function
func (i *VirtualMachine) jump(label string) error {
	target, ok := i.function.Labels[label]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLabel, label)
	}
	i.pc = target
	return nil
}

// directCall unpacks the [function, count] pair embedded by the assembler
func directCall(arg Value) (Value, int, error) {
	if arg.Kind != KindArray || arg.Array.Len() != 2 {
		return Value{}, 0, fmt.Errorf("%w: callDirect needs a [function, count] pair", ErrTypeMismatch)
	}
	fn, count := arg.Array.Items[0], arg.Array.Items[1]
	if count.Kind != KindNumber {
		return Value{}, 0, fmt.Errorf("%w: callDirect needs an argument count", ErrTypeMismatch)
	}
	return fn, int(count.Number), nil
}

func propertyPath(path *Array) string {
	parts := make([]string, path.Len())
	for idx, item := range path.Items {
		parts[idx] = item.String()
	}
	return strings.Join(parts, ".")
}
