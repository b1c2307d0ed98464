package runner

import (
	"errors"
	"fmt"
	"strings"

	"lysithea/pkg/assembler"
	"lysithea/pkg/color"
	"lysithea/pkg/interpreter"
)

// FormatError renders compile and runtime errors with their source line and call trace.
func FormatError(err error) string {
	var compileErr *assembler.CompileError
	if errors.As(err, &compileErr) && !compileErr.Pos.IsZero() {
		return color.ErrorWithPosition(compileErr.SourceName, compileErr.Pos.Line, compileErr.Pos.Column,
			"compile error: "+compileErr.Message, compileErr.SourceLine)
	}

	var rtErr *interpreter.RuntimeError
	if errors.As(err, &rtErr) {
		var b strings.Builder
		if rtErr.Location.IsZero() {
			b.WriteString(color.Error(rtErr.Error()))
		} else {
			b.WriteString(color.ErrorWithPosition(rtErr.SourceName, rtErr.Location.Line, rtErr.Location.Column,
				"runtime error: "+rtErr.Err.Error(), rtErr.SourceLine))
		}
		for _, frame := range rtErr.Trace {
			fmt.Fprintf(&b, "\n  %s %s", color.GrayText("at"), frame)
		}
		return b.String()
	}

	return color.Error(err.Error())
}
