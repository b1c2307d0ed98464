package interpreter

import (
	"cmp"
	"fmt"
)

// Compare orders two values numerically. Bools count as 1 and 0.
func (v Value) Compare(other Value) (int, error) {
	a, err := v.AsNumber()
	if err != nil {
		return 0, err
	}
	b, err := other.AsNumber()
	if err != nil {
		return 0, err
	}
	return cmp.Compare(a, b), nil
}

// evalBinary applies a binary opcode to left and right
func evalBinary(op Opcode, left, right Value) (Value, error) {
	switch op {
	case OpEquals:
		return NewBool(left.Equals(right)), nil
	case OpNotEquals:
		return NewBool(!left.Equals(right)), nil

	case OpAnd, OpOr:
		a, err := left.AsBool()
		if err != nil {
			return Value{}, err
		}
		b, err := right.AsBool()
		if err != nil {
			return Value{}, err
		}
		if op == OpAnd {
			return NewBool(a && b), nil
		}
		return NewBool(a || b), nil

	case OpLessThan, OpLessThanEquals, OpGreaterThan, OpGreaterThanEquals:
		c, err := left.Compare(right)
		if err != nil {
			return Value{}, err
		}
		switch op {
		case OpLessThan:
			return NewBool(c < 0), nil
		case OpLessThanEquals:
			return NewBool(c <= 0), nil
		case OpGreaterThan:
			return NewBool(c > 0), nil
		default:
			return NewBool(c >= 0), nil
		}
	}

	a, err := left.AsNumber()
	if err != nil {
		return Value{}, err
	}
	b, err := right.AsNumber()
	if err != nil {
		return Value{}, err
	}

	switch op {
	case OpAdd:
		return NewNumber(a + b), nil
	case OpSub:
		return NewNumber(a - b), nil
	case OpMultiply:
		return NewNumber(a * b), nil
	case OpDivide:
		return NewNumber(a / b), nil
	}

	return Value{}, fmt.Errorf("%w: %q is not a binary operator", ErrUnknownOpcode, op)
}
