package interpreter

import (
	"maps"
	"slices"
)

// Scope maps names to values with an optional parent for lexical lookup.
type Scope struct {
	values map[string]Value
	parent *Scope
}

// NewScope creates a scope whose lookups fall back to parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Define binds name in this scope, shadowing any outer binding.
func (s *Scope) Define(name string, v Value) {
	s.values[name] = v
}

// DefineFunc binds a host callback under name.
func (s *Scope) DefineFunc(name string, fn NativeFunc) {
	s.values[name] = NewNative(name, fn)
}

// TryGet looks name up in this scope and then its parents.
func (s *Scope) TryGet(name string) (Value, bool) {
	for current := s; current != nil; current = current.parent {
		if v, ok := current.values[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// TrySet updates the nearest existing binding of name.
// It reports false when name is not defined anywhere in the chain.
func (s *Scope) TrySet(name string, v Value) bool {
	for current := s; current != nil; current = current.parent {
		if _, ok := current.values[name]; ok {
			current.values[name] = v
			return true
		}
	}
	return false
}

// Combine copies every binding of other into s.
func (s *Scope) Combine(other *Scope) {
	if other == nil {
		return
	}
	maps.Copy(s.values, other.values)
}

// Keys returns the names defined directly in this scope, sorted.
func (s *Scope) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Clear removes every binding from this scope.
func (s *Scope) Clear() {
	clear(s.values)
}
