package ast

import (
	"strconv"
	"strings"

	"lysithea/pkg/interpreter"
	"lysithea/pkg/lexer"
)

type Kind int

const (
	Empty Kind = iota
	Value
	List
	Map
)

var kindNames = map[Kind]string{
	Empty: "empty",
	Value: "value",
	List:  "list",
	Map:   "map",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Token is a node of the expression tree produced by the reader.
type Token struct {
	Location lexer.Position
	Kind     Kind
	Value    interpreter.Value
	List     []*Token
	Map      map[string]*Token
	MapKeys  []string // insertion order of Map
}

// NewEmpty creates a token that carries only a location
func NewEmpty(loc lexer.Position) *Token {
	return &Token{Location: loc, Kind: Empty}
}

// NewValue creates a scalar token
func NewValue(loc lexer.Position, v interpreter.Value) *Token {
	return &Token{Location: loc, Kind: Value, Value: v}
}

// NewList creates a list token
func NewList(loc lexer.Position, items []*Token) *Token {
	return &Token{Location: loc, Kind: List, List: items}
}

// NewMap creates a map token; keys gives the order entries were read in
func NewMap(loc lexer.Position, keys []string, entries map[string]*Token) *Token {
	return &Token{Location: loc, Kind: Map, Map: entries, MapKeys: keys}
}

// Copy returns a value token at the same location
func (t *Token) Copy(v interpreter.Value) *Token {
	return NewValue(t.Location, v)
}

// ToEmpty returns an empty token at the same location
func (t *Token) ToEmpty() *Token {
	return NewEmpty(t.Location)
}

// Symbol returns the name of a symbol token
func (t *Token) Symbol() (string, bool) {
	if t.Kind != Value || t.Value.Kind != interpreter.KindVariable {
		return "", false
	}
	return t.Value.Str, true
}

// IsLabel reports whether the token is a `:name` symbol
func (t *Token) IsLabel() bool {
	return t.Kind == Value && t.Value.IsLabel()
}

// IsList reports whether the token is a list
func (t *Token) IsList() bool {
	return t.Kind == List
}

// ToValue converts the token to a runtime value. Lists become arrays and
// maps become objects; symbols become strings.
func (t *Token) ToValue() interpreter.Value {
	switch t.Kind {
	case Value:
		if t.Value.Kind == interpreter.KindVariable {
			return interpreter.NewString(t.Value.Str)
		}
		return t.Value
	case List:
		items := make([]interpreter.Value, len(t.List))
		for i, item := range t.List {
			items[i] = item.ToValue()
		}
		return interpreter.NewArray(items...)
	case Map:
		obj := make(interpreter.Object, len(t.Map))
		for key, item := range t.Map {
			obj[key] = item.ToValue()
		}
		return interpreter.NewObject(obj)
	}
	return interpreter.Value{}
}

// String renders the token back as source text
func (t *Token) String() string {
	switch t.Kind {
	case Value:
		if t.Value.Kind == interpreter.KindString {
			return strconv.Quote(t.Value.Str)
		}
		return t.Value.String()
	case List:
		parts := make([]string, len(t.List))
		for i, item := range t.List {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	case Map:
		parts := make([]string, 0, len(t.MapKeys))
		for _, key := range t.MapKeys {
			parts = append(parts, key, t.Map[key].String())
		}
		return "{" + strings.Join(parts, " ") + "}"
	}
	return ""
}
