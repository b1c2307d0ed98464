package reader_test

import (
	"errors"
	"testing"

	"lysithea/pkg/ast"
	"lysithea/pkg/interpreter"
	"lysithea/pkg/reader"
)

func TestReadList(t *testing.T) {
	root, err := reader.Read(`(define x 1.5) ; comment
(print "hi" true)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Kind != ast.List || len(root.List) != 2 {
		t.Fatalf("expected 2 top-level expressions, got %s", root)
	}

	first := root.List[0]
	if name, ok := first.List[0].Symbol(); !ok || name != "define" {
		t.Errorf("expected define symbol, got %s", first.List[0])
	}
	if !first.List[2].Value.Equals(interpreter.NewNumber(1.5)) {
		t.Errorf("expected 1.5, got %s", first.List[2])
	}

	second := root.List[1]
	if second.Location.Line != 2 || second.Location.Column != 1 {
		t.Errorf("expected second expression at 2:1, got %s", second.Location)
	}
	if !second.List[1].Value.Equals(interpreter.NewString("hi")) {
		t.Errorf("expected string hi, got %s", second.List[1])
	}
	if !second.List[2].Value.Equals(interpreter.NewBool(true)) {
		t.Errorf("expected true, got %s", second.List[2])
	}
}

func TestReadMap(t *testing.T) {
	root, err := reader.Read(`{name: "bob" age 30 tags (a b)}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := root.List[0]
	if m.Kind != ast.Map {
		t.Fatalf("expected map, got %s", m.Kind)
	}
	if len(m.MapKeys) != 3 || m.MapKeys[0] != "name" || m.MapKeys[2] != "tags" {
		t.Errorf("unexpected keys %v", m.MapKeys)
	}

	want := interpreter.NewObject(interpreter.Object{
		"name": interpreter.NewString("bob"),
		"age":  interpreter.NewNumber(30),
		"tags": interpreter.NewArray(interpreter.NewString("a"), interpreter.NewString("b")),
	})
	if got := m.ToValue(); !got.Equals(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		incomplete bool
	}{
		{"unclosed list", "(print 1", true},
		{"unclosed map", "{a 1", true},
		{"unterminated string", `(print "abc`, true},
		{"stray close", "1)", false},
		{"mismatched", "(a}", false},
		{"odd map", "{a}", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.Read(tt.input)
			var synErr *reader.SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("expected syntax error, got %v", err)
			}
			if synErr.Incomplete != tt.incomplete {
				t.Errorf("expected incomplete=%v, got %v", tt.incomplete, synErr.Incomplete)
			}
			if got := reader.IsIncomplete(tt.input); got != tt.incomplete {
				t.Errorf("IsIncomplete: expected %v, got %v", tt.incomplete, got)
			}
		})
	}
}

func TestIsIncompleteComplete(t *testing.T) {
	if reader.IsIncomplete("(+ 1 2)") {
		t.Error("expected complete input")
	}
	if reader.IsIncomplete("") {
		t.Error("expected empty input to be complete")
	}
}
