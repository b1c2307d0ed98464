package lexer

import (
	"fmt"
)

type TokenType int

type Token struct {
	Type    TokenType // Type of the token
	Lexeme  string    // Actual string from source code
	Literal string    // Literal value (unescaped strings), empty string if not applicable
	Pos     Position  // Position in source code
}

// NewToken creates a new Token instance
func NewToken(tokenType TokenType, lexeme string, literal string, Pos Position) Token {
	return Token{
		Type:    tokenType,
		Lexeme:  lexeme,
		Literal: literal,
		Pos:     Pos,
	}
}

const (
	EOF TokenType = iota // End of file

	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }

	NUM    // number literal
	STRING // string literal
	TRUE   // true
	FALSE  // false
	SYMBOL // any other atom: names, labels, operators, property paths

	ILLEGAL // illegal token (e.g. unterminated string)
)

var Keywords = map[string]TokenType{
	"true":  TRUE,
	"false": FALSE,
}

var tokenNames = map[TokenType]string{
	EOF:     "$",
	LPAREN:  "(",
	RPAREN:  ")",
	LBRACE:  "{",
	RBRACE:  "}",
	NUM:     "num",
	STRING:  "string",
	TRUE:    "true",
	FALSE:   "false",
	SYMBOL:  "symbol",
	ILLEGAL: "illegal",
}

// String returns a string representation of the Token
func (t Token) String() string {
	if t.Literal == "" {
		return fmt.Sprintf("T_{%s, %v, nil, %s}", t.Type, t.Lexeme, t.Pos.String())
	}

	return fmt.Sprintf("T_{%s, %v, %q, %s}", t.Type, t.Lexeme, t.Literal, t.Pos.String())
}

// String returns a string representation of the TokenType
func (t TokenType) String() string {
	if str, ok := tokenNames[t]; ok {
		return str
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// IsKeyword checks if the given atom is a keyword and returns its TokenType if it is
func IsKeyword(atom string) (TokenType, bool) {
	tokenType, ok := Keywords[atom]
	return tokenType, ok
}
