package reader

import (
	"fmt"

	"lysithea/pkg/lexer"
)

// SyntaxError reports malformed source. Incomplete is set when more input
// could still make the source valid, e.g. an unclosed list.
type SyntaxError struct {
	Pos        lexer.Position
	Message    string
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at Line: %d, Column %d", e.Message, e.Pos.Line, e.Pos.Column)
}

// errorAt records a syntax error at pos
func (r *Reader) errorAt(pos lexer.Position, msg string) error {
	return &SyntaxError{Pos: pos, Message: msg}
}

// incomplete records a syntax error caused by input ending too early
func (r *Reader) incomplete(pos lexer.Position, msg string) error {
	return &SyntaxError{Pos: pos, Message: msg, Incomplete: true}
}
