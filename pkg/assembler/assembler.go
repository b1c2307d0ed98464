package assembler

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"lysithea/pkg/ast"
	"lysithea/pkg/interpreter"
	"lysithea/pkg/lexer"
	"lysithea/pkg/reader"
	"lysithea/pkg/stack"
)

const globalFunctionName = "global"

// tempCodeLine is either a jump target label or an opcode with its operand token.
type tempCodeLine struct {
	label string
	op    interpreter.Opcode
	token *ast.Token
}

// labelLine keeps t so a duplicate label can be reported at its source position
func labelLine(label string, t *ast.Token) tempCodeLine {
	return tempCodeLine{label: label, token: t}
}

func codeLine(op interpreter.Opcode, t *ast.Token) tempCodeLine {
	return tempCodeLine{op: op, token: t}
}

type loopLabels struct {
	start string
	end   string
}

// Assembler lowers expression trees into compiled functions.
type Assembler struct {
	// BuiltinScope holds values known at compile time. Calls and lookups
	// that resolve in it are embedded directly into the instructions.
	BuiltinScope *interpreter.Scope

	labelCount int
	loops      *stack.Stack[loopLabels] // innermost loop on top
	keywords   *stack.Stack[string]     // special forms being parsed

	sourceName  string
	sourceLines []string
}

// New creates an assembler with an empty builtin scope
func New() *Assembler {
	return &Assembler{
		BuiltinScope: interpreter.NewScope(nil),
		loops:        stack.NewStack[loopLabels](),
		keywords:     stack.NewStack[string](),
	}
}

// ParseFromText reads and compiles source text
func (a *Assembler) ParseFromText(sourceName, text string) (*interpreter.Script, error) {
	a.sourceName = sourceName
	a.sourceLines = strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	root, err := reader.Read(text)
	if err != nil {
		var synErr *reader.SyntaxError
		if errors.As(err, &synErr) {
			return nil, &CompileError{
				SourceName: sourceName,
				Pos:        synErr.Pos,
				Message:    synErr.Message,
				SourceLine: a.sourceLine(synErr.Pos.Line),
				Err:        err,
			}
		}
		return nil, err
	}

	return a.ParseFromToken(root)
}

// ParseFromReader reads everything from r and compiles it
func (a *Assembler) ParseFromReader(sourceName string, r io.Reader) (*interpreter.Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", sourceName, err)
	}
	return a.ParseFromText(sourceName, string(data))
}

// ParseFromToken compiles a top-level list into a script whose scope
// starts with a copy of the builtin scope
func (a *Assembler) ParseFromToken(root *ast.Token) (*interpreter.Script, error) {
	code, err := a.ParseGlobalFunction(root)
	if err != nil {
		return nil, err
	}

	scope := interpreter.NewScope(nil)
	scope.Combine(a.BuiltinScope)
	return interpreter.NewScript(scope, code), nil
}

// ParseGlobalFunction compiles every expression of a top-level list into one function
func (a *Assembler) ParseGlobalFunction(root *ast.Token) (*interpreter.Function, error) {
	if root.Kind != ast.List {
		return nil, a.errorf(root, "Top level input needs to be a list")
	}

	a.loops.Clear()
	a.keywords.Clear()

	var lines []tempCodeLine
	for _, t := range root.List {
		parsed, err := a.parse(t)
		if err != nil {
			return nil, err
		}
		lines = append(lines, parsed...)
	}

	return a.processTempFunction(nil, lines, globalFunctionName)
}

// parse lowers one expression, post-order
func (a *Assembler) parse(t *ast.Token) ([]tempCodeLine, error) {
	switch t.Kind {
	case ast.List:
		if len(t.List) == 0 {
			return []tempCodeLine{codeLine(interpreter.OpPush, t.Copy(interpreter.NewArray()))}, nil
		}

		head := t.List[0]
		name, ok := head.Symbol()
		if !ok {
			break
		}
		if head.IsLabel() {
			return []tempCodeLine{labelLine(name, t)}, nil
		}

		if lines, handled, err := a.parseKeyword(name, t); handled {
			return lines, err
		}

		_ = a.keywords.Push(keywordFunctionCall)
		defer a.keywords.Pop()

		var result []tempCodeLine
		for _, arg := range t.List[1:] {
			lines, err := a.parse(arg)
			if err != nil {
				return nil, err
			}
			result = append(result, lines...)
		}

		call, err := a.optimiseCallSymbolValue(head, name, len(t.List)-1)
		if err != nil {
			return nil, err
		}
		return append(result, call...), nil

	case ast.Value:
		if name, ok := t.Symbol(); ok && !t.IsLabel() {
			return a.optimiseGetSymbolValue(t, name)
		}

	case ast.Empty:
		return nil, nil
	}

	return []tempCodeLine{codeLine(interpreter.OpPush, t)}, nil
}

// parseFlatten compiles a list of lists as a sequence of expressions
func (a *Assembler) parseFlatten(t *ast.Token) ([]tempCodeLine, error) {
	if t.Kind != ast.List {
		return a.parse(t)
	}

	for _, item := range t.List {
		if item.Kind != ast.List {
			return a.parse(t)
		}
	}

	var result []tempCodeLine
	for _, item := range t.List {
		lines, err := a.parse(item)
		if err != nil {
			return nil, err
		}
		result = append(result, lines...)
	}
	return result, nil
}

// processTempFunction resolves labels to instruction indexes and builds the debug symbols
func (a *Assembler) processTempFunction(parameters []string, lines []tempCodeLine, name string) (*interpreter.Function, error) {
	labels := make(map[string]int)
	code := make([]interpreter.Instruction, 0, len(lines))
	locations := make([]lexer.Position, 0, len(lines))

	for _, line := range lines {
		if line.label != "" {
			if _, exists := labels[line.label]; exists {
				return nil, a.errorf(line.token, "Duplicate label %s in function %s", line.label, name)
			}
			labels[line.label] = len(code)
			continue
		}

		var arg interpreter.Value
		var loc lexer.Position
		if line.token != nil {
			arg = line.token.ToValue()
			loc = line.token.Location
		}

		code = append(code, interpreter.Instruction{Op: line.op, Arg: arg})
		locations = append(locations, loc)
	}

	debug := &interpreter.DebugSymbols{
		SourceName:  a.sourceName,
		SourceLines: a.sourceLines,
		Locations:   locations,
	}

	fn := interpreter.NewCompiledFunction(code, labels, parameters, name, debug)
	log.Debug("Assembled function", "name", fn.Name, "instructions", len(code), "labels", len(labels))
	return fn, nil
}

func (a *Assembler) nextLabelNumber() int {
	n := a.labelCount
	a.labelCount++
	return n
}
