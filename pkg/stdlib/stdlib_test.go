package stdlib_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"lysithea/pkg/assembler"
	"lysithea/pkg/interpreter"
	"lysithea/pkg/stdlib"
)

func run(t *testing.T, src string) (*interpreter.VirtualMachine, *bytes.Buffer, error) {
	t.Helper()

	asm := assembler.New()
	if err := stdlib.AddToScope(asm.BuiltinScope); err != nil {
		t.Fatal(err)
	}
	script, err := asm.ParseFromText("stdlib_test", src)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	var out bytes.Buffer
	vm := interpreter.NewVirtualMachine(interpreter.WithWriter(&out), interpreter.WithBuiltinScope(asm.BuiltinScope))
	return vm, &out, vm.Execute(script)
}

func TestLibraries(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want interpreter.Value
	}{
		{"toString", "(toString 1.5)", interpreter.NewString("1.5")},
		{"typeof", "(typeof (1 2))", interpreter.NewString("array")},
		{"math constant", "math.PI", interpreter.NewNumber(math.Pi)},
		{"math abs", "(math.abs -3)", interpreter.NewNumber(3)},
		{"math max", "(math.max 1 7 3)", interpreter.NewNumber(7)},
		{"math pow", "(math.pow 2 10)", interpreter.NewNumber(1024)},
		{"string length", `(string.length "héllo")`, interpreter.NewNumber(5)},
		{"string get", `(string.get "abc" -1)`, interpreter.NewString("c")},
		{"string join", `(string.join ", " 1 "b" true)`, interpreter.NewString("1, b, true")},
		{"string substring", `(string.substring "abcdef" 1 3)`, interpreter.NewString("bcd")},
		{"string upper", `(string.toUpper "abc")`, interpreter.NewString("ABC")},
		{"string contains", `(string.contains "abc" "bc")`, interpreter.NewBool(true)},
		{"array length", "(array.length (1 2 3))", interpreter.NewNumber(3)},
		{"array get", "(array.get (1 2 3) -1)", interpreter.NewNumber(3)},
		{"array set", "(array.set (1 2 3) 0 9)", interpreter.NewArray(interpreter.NewNumber(9), interpreter.NewNumber(2), interpreter.NewNumber(3))},
		{"array insert end", "(array.insert (1 2) 2 3)", interpreter.NewArray(interpreter.NewNumber(1), interpreter.NewNumber(2), interpreter.NewNumber(3))},
		{"array removeAt", "(array.removeAt (1 2 3) 1)", interpreter.NewArray(interpreter.NewNumber(1), interpreter.NewNumber(3))},
		{"array indexOf", "(array.indexOf (1 2 3) 4)", interpreter.NewNumber(-1)},
		{"array contains", "(array.contains (1 2 3) 2)", interpreter.NewBool(true)},
		{"array sublist", "(array.sublist (1 2 3 4) 1 2)", interpreter.NewArray(interpreter.NewNumber(2), interpreter.NewNumber(3))},
		{"array join", `(array.join (1 2 3) "-")`, interpreter.NewString("1-2-3")},
		{"object get", `(object.get {a 1} "a")`, interpreter.NewNumber(1)},
		{"object get default", `(object.get {a 1} "b" 0)`, interpreter.NewNumber(0)},
		{"object set", `(object.length (object.set {a 1} "b" 2))`, interpreter.NewNumber(2)},
		{"object keys", "(object.keys {b 1 a 2})", interpreter.NewArray(interpreter.NewString("a"), interpreter.NewString("b"))},
		{"object values", "(object.values {b 1 a 2})", interpreter.NewArray(interpreter.NewNumber(2), interpreter.NewNumber(1))},
		{"object removeKey", `(object.length (object.removeKey {a 1 b 2} "a"))`, interpreter.NewNumber(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, _, err := run(t, tt.src)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			got, err := vm.PeekOperand()
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equals(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	_, out, err := run(t, `(define name "world") (print "hello " name "!") (print 1 (2 "x"))`)
	if err != nil {
		t.Fatal(err)
	}
	if want := "hello world!\n1[2,\"x\"]\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestValuesAreNotMutated(t *testing.T) {
	vm, _, err := run(t, "(define xs (1 2 3)) (define ys (array.set xs 0 9)) xs")
	if err != nil {
		t.Fatal(err)
	}
	got, _ := vm.PeekOperand()
	want := interpreter.NewArray(interpreter.NewNumber(1), interpreter.NewNumber(2), interpreter.NewNumber(3))
	if !got.Equals(want) {
		t.Errorf("expected original array %s, got %s", want, got)
	}
}

func TestFailures(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"assert true", "(assert.true (== 1 2))", stdlib.ErrAssertion},
		{"assert false", "(assert.false true)", stdlib.ErrAssertion},
		{"assert equals", "(assert.equals 1 2)", stdlib.ErrAssertion},
		{"assert not equals", `(assert.notEquals "a" "a")`, stdlib.ErrAssertion},
		{"array range", "(array.get (1 2) 5)", stdlib.ErrOutOfRange},
		{"string range", `(string.substring "abc" 2 5)`, stdlib.ErrOutOfRange},
		{"object key", "(object.get {a 1} \"b\")", stdlib.ErrKeyNotFound},
		{"type", `(math.abs "x")`, interpreter.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, interpreter.ErrNativeFailed) {
				t.Errorf("expected native failure wrapper, got %v", err)
			}
		})
	}

	_, _, err := run(t, "(assert.true (== 1 1)) (assert.equals (1 2) (1 2))")
	if err != nil {
		t.Errorf("expected passing assertions, got %v", err)
	}
}

func TestAddToScope(t *testing.T) {
	scope := interpreter.NewScope(nil)
	if err := stdlib.AddToScope(scope, "math"); err != nil {
		t.Fatal(err)
	}
	if _, ok := scope.TryGet("math"); !ok {
		t.Error("expected math to be defined")
	}
	if _, ok := scope.TryGet("print"); ok {
		t.Error("expected misc to be left out")
	}

	if err := stdlib.AddToScope(scope, "nope"); !errors.Is(err, stdlib.ErrUnknownLibrary) {
		t.Errorf("expected unknown library, got %v", err)
	}
}

func TestExit(t *testing.T) {
	vm, out, err := run(t, `(print "before") (exit) (print "after")`)
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "before\n" {
		t.Errorf("expected output to stop at exit, got %q", out.String())
	}
	if vm.Running() {
		t.Error("expected the machine to be halted")
	}
}
