package runner_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lysithea/internal/config"
	"lysithea/internal/runner"
	"lysithea/pkg/assembler"
	"lysithea/pkg/color"
	"lysithea/pkg/interpreter"
)

func init() {
	color.EnableColor(false)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lysithea.toml", `libraries = ["misc", "math"]`)
	script := writeFile(t, dir, "main.lys", `
(function square (x) (return (* x x)))
(define i 0)
(define total 0)
(loop (< i 4) (+= total (square i)) (++ i))
(print "total " total " max " (math.max 3 9))
`)

	var out bytes.Buffer
	r := &runner.Runner{SourceFile: script, Stdout: &out}
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}
	if want := "total 14 max 9\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestRunOverrides(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "spin.lys", "(define i 0) (loop (< 0 1) (++ i))")

	r := &runner.Runner{SourceFile: script, MaxSteps: 50, Stdout: &bytes.Buffer{}}
	if err := r.Run(); !errors.Is(err, interpreter.ErrMaxStepsExceeded) {
		t.Errorf("expected step limit, got %v", err)
	}

	cfgPath := writeFile(t, dir, "custom.yaml", "vm:\n  call-stack-size: 4\n")
	r = &runner.Runner{ConfigPath: cfgPath, StackSize: 8}
	cfg, err := r.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.VM.StackSize != 8 || cfg.VM.CallStackSize != 4 {
		t.Errorf("unexpected vm config %+v", cfg.VM)
	}
}

func TestRunErrors(t *testing.T) {
	if err := (&runner.Runner{ConfigPath: filepath.Join(t.TempDir(), "none.toml")}).Run(); err == nil {
		t.Error("expected missing config error")
	}

	dir := t.TempDir()
	writeFile(t, dir, "lysithea.toml", "")
	r := &runner.Runner{ConfigPath: filepath.Join(dir, "lysithea.toml")}
	if err := r.Run(); !errors.Is(err, runner.ErrNoInput) {
		t.Errorf("expected no input, got %v", err)
	}

	r.SourceFile = filepath.Join(dir, "missing.lys")
	if err := r.Run(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected missing file, got %v", err)
	}
}

func TestFormatError(t *testing.T) {
	r := &runner.Runner{Stdout: &bytes.Buffer{}}
	cfg := config.Default()

	_, err := r.Execute(cfg, "bad.lys", "(define x 1)\n(if (< x 2))")
	var compileErr *assembler.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected compile error, got %v", err)
	}
	msg := runner.FormatError(err)
	for _, want := range []string{"bad.lys:2:1", "compile error:", "(if (< x 2))", "^"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}

	_, err = r.Execute(cfg, "fail.lys", "(function f () (return missing))\n(f)")
	var rtErr *interpreter.RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	msg = runner.FormatError(err)
	for _, want := range []string{"fail.lys:1:", "undefined variable: missing", "(function f () (return missing))", "at "} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}

	if msg := runner.FormatError(errors.New("plain")); msg != "Error: plain" {
		t.Errorf("unexpected plain error %q", msg)
	}
}

func TestDisassemble(t *testing.T) {
	var out bytes.Buffer
	r := &runner.Runner{Stdout: &out, Disassemble: true}
	if _, err := r.Execute(config.Default(), "dis.lys", "(define i 0) (loop (< i 2) (++ i)) (function f (a) (return a))"); err != nil {
		t.Fatal(err)
	}

	text := out.String()
	for _, want := range []string{
		"=== Assembly ===",
		"function global",
		":LoopStart_0",
		"jumpFalse :LoopEnd_0",
		"inc i",
		"function f [a]",
		"callReturn",
		"=== Program Output ===",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in disassembly:\n%s", want, text)
		}
	}
}

func TestSession(t *testing.T) {
	var out bytes.Buffer
	session, err := runner.NewSession(config.Default(), &out)
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		src  string
		want string
		ok   bool
	}{
		{"(define x 41)", "", false},
		{"(function inc (n) (return (+ n 1)))", "", false},
		{"(inc x)", "42", true},
		{`($ "x=" x)`, `"x=41"`, true},
		{"(print x)", "", false},
	}
	for _, step := range steps {
		v, ok, err := session.Eval(step.src)
		if err != nil {
			t.Fatalf("%s: %v", step.src, err)
		}
		if ok != step.ok || (ok && runner.Format(v) != step.want) {
			t.Errorf("%s: expected %q (%t), got %q (%t)", step.src, step.want, step.ok, runner.Format(v), ok)
		}
	}
	if out.String() != "41\n" {
		t.Errorf("unexpected output %q", out.String())
	}

	if _, _, err := session.Eval("(+ x missing)"); !errors.Is(err, interpreter.ErrUndefinedVariable) {
		t.Errorf("expected undefined variable, got %v", err)
	}
	if v, _, err := session.Eval("x"); err != nil || runner.Format(v) != "41" {
		t.Errorf("expected session to survive errors, got %v %v", v, err)
	}

	session.Reset()
	if _, _, err := session.Eval("x"); !errors.Is(err, interpreter.ErrUndefinedVariable) {
		t.Errorf("expected x to be forgotten, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	session, err := runner.NewSession(config.Default(), &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := session.Eval("(define counter 0)"); err != nil {
		t.Fatal(err)
	}

	got := session.Complete("(print (cou")
	if len(got) != 1 || got[0] != "(print (counter" {
		t.Errorf("unexpected completion %v", got)
	}

	got = session.Complete("(math.ab")
	if len(got) != 1 || got[0] != "(math.abs" {
		t.Errorf("unexpected completion %v", got)
	}

	if got := session.Complete("(lo"); len(got) != 1 || got[0] != "(loop" {
		t.Errorf("expected keyword completion, got %v", got)
	}
}
