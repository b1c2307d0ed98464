package assembler

import (
	"fmt"
	"strings"

	"lysithea/pkg/ast"
	"lysithea/pkg/lexer"
)

// CompileError is returned for every failure while assembling source.
type CompileError struct {
	SourceName string
	Pos        lexer.Position
	Message    string
	SourceLine string
	Err        error // underlying reader error, if any
}

func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile error")
	if !e.Pos.IsZero() {
		fmt.Fprintf(&b, " at %s:%s", e.SourceName, e.Pos)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// errorf creates a compile error located at t
func (a *Assembler) errorf(t *ast.Token, format string, args ...any) error {
	return &CompileError{
		SourceName: a.sourceName,
		Pos:        t.Location,
		Message:    fmt.Sprintf(format, args...),
		SourceLine: a.sourceLine(t.Location.Line),
	}
}

func (a *Assembler) sourceLine(line int) string {
	if line < 1 || line > len(a.sourceLines) {
		return ""
	}
	return a.sourceLines[line-1]
}
