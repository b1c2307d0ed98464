package interpreter

import (
	"fmt"
	"strings"

	"lysithea/pkg/lexer"
)

type Opcode string

// List of VM operations
const (
	OpPush              Opcode = "push"
	OpToArgument        Opcode = "toArgument"
	OpGet               Opcode = "get"
	OpGetProperty       Opcode = "getProperty"
	OpDefine            Opcode = "define"
	OpSet               Opcode = "set"
	OpJump              Opcode = "jump"
	OpJumpTrue          Opcode = "jumpTrue"
	OpJumpFalse         Opcode = "jumpFalse"
	OpCall              Opcode = "call"
	OpCallDirect        Opcode = "callDirect"
	OpCallReturn        Opcode = "callReturn"
	OpAdd               Opcode = "add"
	OpSub               Opcode = "sub"
	OpMultiply          Opcode = "multiply"
	OpDivide            Opcode = "divide"
	OpUnaryNegative     Opcode = "unaryNegative"
	OpLessThan          Opcode = "lessThan"
	OpLessThanEquals    Opcode = "lessThanEquals"
	OpEquals            Opcode = "equals"
	OpNotEquals         Opcode = "notEquals"
	OpGreaterThan       Opcode = "greaterThan"
	OpGreaterThanEquals Opcode = "greaterThanEquals"
	OpAnd               Opcode = "and"
	OpOr                Opcode = "or"
	OpNot               Opcode = "not"
	OpInc               Opcode = "inc"
	OpDec               Opcode = "dec"
	OpStringConcat      Opcode = "stringConcat"
)

// UnpackPrefix marks a variadic parameter or a spread argument.
const UnpackPrefix = "..."

type Instruction struct {
	Op  Opcode
	Arg Value // undefined when the operand is taken from the stack
}

// String returns a string representation of the instruction
func (i Instruction) String() string {
	if i.Arg.IsUndefined() {
		return string(i.Op)
	}
	return fmt.Sprintf("%s %s", i.Op, i.Arg.nestedString())
}

// Function is a compiled, immutable body shared by every invocation.
type Function struct {
	Code       []Instruction
	Labels     map[string]int
	Parameters []string
	Name       string
	HasName    bool
	Debug      *DebugSymbols
}

// NewCompiledFunction creates a compiled function. An empty name marks an anonymous function.
func NewCompiledFunction(code []Instruction, labels map[string]int, parameters []string, name string, debug *DebugSymbols) *Function {
	if labels == nil {
		labels = make(map[string]int)
	}
	fn := &Function{
		Code:       code,
		Labels:     labels,
		Parameters: parameters,
		Name:       name,
		HasName:    name != "",
		Debug:      debug,
	}
	if !fn.HasName {
		fn.Name = "anonymous"
	}
	return fn
}

// Describe renders the debug location of the instruction at pc.
func (f *Function) Describe(pc int) string {
	if f.Debug == nil {
		return fmt.Sprintf("[%s]:%d", f.Name, pc)
	}

	pos, ok := f.Debug.Location(pc)
	if !ok {
		return fmt.Sprintf("[%s]:%d", f.Name, pc)
	}
	return fmt.Sprintf("[%s] %s:%s: %s", f.Name, f.Debug.SourceName, pos, strings.TrimSpace(f.Debug.Line(pos.Line)))
}

// DebugSymbols maps every instruction of a function back to its source.
type DebugSymbols struct {
	SourceName  string
	SourceLines []string
	Locations   []lexer.Position // parallel to Function.Code
}

// Location returns the source position of the instruction at pc.
func (d *DebugSymbols) Location(pc int) (lexer.Position, bool) {
	if d == nil || pc < 0 || pc >= len(d.Locations) {
		return lexer.Position{}, false
	}
	return d.Locations[pc], true
}

// Line returns the text of a 1-based source line.
func (d *DebugSymbols) Line(line int) string {
	if d == nil || line < 1 || line > len(d.SourceLines) {
		return ""
	}
	return d.SourceLines[line-1]
}

// Script is a compiled program plus the scope it runs in.
type Script struct {
	Scope *Scope
	Code  *Function
}

// NewScript creates a script from its global scope and entry function
func NewScript(scope *Scope, code *Function) *Script {
	return &Script{Scope: scope, Code: code}
}
