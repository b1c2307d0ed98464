package color_test

import (
	"strings"
	"testing"

	"lysithea/pkg/color"
)

func TestErrorWithPosition(t *testing.T) {
	color.EnableColor(false)
	defer color.EnableColor(true)

	tests := []struct {
		name    string
		context string
		want    string
	}{
		{"no context", "", "Error at main.lys:2:5: bad"},
		{"context", "(+ 1 x)", "Error at main.lys:2:5: bad\n(+ 1 x)\n    ^"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := color.ErrorWithPosition("main.lys", 2, 5, "bad", tt.context); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestColorToggle(t *testing.T) {
	color.EnableColor(false)
	if got := color.RedText("x"); got != "x" {
		t.Errorf("expected plain text, got %q", got)
	}

	color.EnableColor(true)
	defer color.EnableColor(false)
	if got := color.RedText("x"); !strings.Contains(got, "\x1b[") || !strings.Contains(got, "x") {
		t.Errorf("expected escape sequence, got %q", got)
	}
}
