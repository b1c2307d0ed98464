package stdlib

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"lysithea/pkg/interpreter"
)

var (
	ErrAssertion      = errors.New("assertion failed")
	ErrOutOfRange     = errors.New("index out of range")
	ErrKeyNotFound    = errors.New("key not found")
	ErrUnknownLibrary = errors.New("unknown library")
)

// Library builds a scope holding the values of one library.
type Library func() *interpreter.Scope

// Libraries lists every library by the name used in configuration.
var Libraries = map[string]Library{
	"misc":   NewMiscScope,
	"math":   NewMathScope,
	"string": NewStringScope,
	"array":  NewArrayScope,
	"object": NewObjectScope,
	"assert": NewAssertScope,
}

// Names returns the library names, sorted
func Names() []string {
	return slices.Sorted(maps.Keys(Libraries))
}

// AddToScope copies the named libraries into scope. No names means all of them.
func AddToScope(scope *interpreter.Scope, names ...string) error {
	if len(names) == 0 {
		names = Names()
	}

	for _, name := range names {
		lib, ok := Libraries[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownLibrary, name)
		}
		scope.Combine(lib())
	}
	return nil
}

// object wraps native functions into an object value, naming each one parent.key
func object(parent string, fns map[string]interpreter.NativeFunc) interpreter.Object {
	obj := make(interpreter.Object, len(fns))
	for key, fn := range fns {
		obj[key] = interpreter.NewNative(parent+"."+key, fn)
	}
	return obj
}
