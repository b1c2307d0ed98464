package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"lysithea/pkg/lexer"
	"lysithea/pkg/stack"
)

var (
	ErrStackOverflow     = stack.ErrOverflow
	ErrStackUnderflow    = stack.ErrUnderflow
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrNotAFunction      = errors.New("value is not a function")
	ErrUnknownLabel      = errors.New("unknown label")
	ErrPropertyNotFound  = errors.New("unable to get property")
	ErrCallStackEmpty    = errors.New("unable to return, call stack empty")
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrNoScript          = errors.New("no script loaded")
	ErrMaxStepsExceeded  = errors.New("maximum steps exceeded")
)

// RuntimeError is a failure raised while executing an instruction.
type RuntimeError struct {
	Err        error
	SourceName string
	Location   lexer.Position
	SourceLine string   // text of the source line, when known
	Trace      []string // innermost call first
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString("runtime error")
	if !e.Location.IsZero() {
		fmt.Fprintf(&b, " at %s:%s", e.SourceName, e.Location)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
