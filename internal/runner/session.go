package runner

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"lysithea/internal/config"
	"lysithea/pkg/assembler"
	"lysithea/pkg/interpreter"
)

// Session evaluates inputs one after another against a shared global scope,
// so definitions survive between inputs.
type Session struct {
	asm     *assembler.Assembler
	vm      *interpreter.VirtualMachine
	globals *interpreter.Scope
	inputs  int
}

func NewSession(cfg *config.Config, out io.Writer) (*Session, error) {
	asm, err := NewAssembler(cfg)
	if err != nil {
		return nil, err
	}

	globals := interpreter.NewScope(nil)
	globals.Combine(asm.BuiltinScope)
	return &Session{
		asm:     asm,
		vm:      NewVirtualMachine(cfg, asm, out),
		globals: globals,
	}, nil
}

// Eval compiles and runs src. It returns the value left on top of the
// operand stack, if any.
func (s *Session) Eval(src string) (interpreter.Value, bool, error) {
	s.inputs++
	script, err := s.asm.ParseFromText(fmt.Sprintf("<input %d>", s.inputs), src)
	if err != nil {
		return interpreter.Value{}, false, err
	}

	script.Scope = s.globals
	if err := s.vm.Execute(script); err != nil {
		return interpreter.Value{}, false, err
	}

	if s.vm.OperandCount() == 0 {
		return interpreter.Value{}, false, nil
	}
	v, err := s.vm.PeekOperand()
	return v, err == nil, err
}

// Reset forgets every definition made in the session.
func (s *Session) Reset() {
	s.globals.Clear()
	s.globals.Combine(s.asm.BuiltinScope)
}

// Names lists the defined globals and keywords, sorted, for completion.
func (s *Session) Names() []string {
	names := map[string]struct{}{}
	for _, key := range s.globals.Keys() {
		names[key] = struct{}{}
		if v, ok := s.globals.TryGet(key); ok && v.Kind == interpreter.KindObject {
			for prop := range v.Object {
				names[key+"."+prop] = struct{}{}
			}
		}
	}
	for _, keyword := range assembler.Keywords() {
		names[keyword] = struct{}{}
	}
	return slices.Sorted(maps.Keys(names))
}

// Complete returns the completions for the last word of line.
func (s *Session) Complete(line string) []string {
	start := strings.LastIndexAny(line, " \t\n([{") + 1
	prefix, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	var out []string
	for _, name := range s.Names() {
		if strings.HasPrefix(name, word) {
			out = append(out, prefix+name)
		}
	}
	return out
}

// Format renders a result the way it would be written in source.
func Format(v interpreter.Value) string {
	if v.Kind == interpreter.KindString {
		return strconv.Quote(v.Str)
	}
	return v.String()
}
