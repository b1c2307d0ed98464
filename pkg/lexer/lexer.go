package lexer

import (
	"strings"
	"unicode/utf8"
)

type Lexer struct {
	input    string // input string to be tokenized
	length   int    // length of the input string
	position int    // current position in the input string
	line     int    // current line number for error reporting
	column   int    // current column number for error reporting
}

// Create a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:    s,
		length:   len(s),
		position: 0,
		line:     1,
		column:   1,
	}
}

// Get the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		if l.position >= l.length {
			return NewToken(EOF, "", "", l.currentPosition())
		}

		// Regex match the first token it sees from the remaining input
		remaining := l.input[l.position:]
		tokenType, lexeme, matched := MatchToken(remaining)

		if tokenType == EOF && matched {
			// whitespace or comment
			l.advance(len(lexeme))
			continue
		}

		pos := l.currentPosition()
		if !matched {
			l.advance(len(lexeme))
			return NewToken(ILLEGAL, lexeme, "", pos)
		}

		literal := lexeme
		if tokenType == STRING {
			literal = unescape(lexeme[1 : len(lexeme)-1])
		}

		l.advance(len(lexeme))
		return NewToken(tokenType, lexeme, literal, pos)
	}
}

// View next token without advancing the position
func (l *Lexer) Peek() Token {
	// save state
	cpos := l.position
	cline := l.line
	ccol := l.column

	token := l.NextToken()

	// restore state
	l.position = cpos
	l.line = cline
	l.column = ccol

	return token
}

// Tokenize reads every token up to and including EOF
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// Advance the lexer position by n bytes. Columns count runes.
func (l *Lexer) advance(n int) {
	for range n {
		if l.position >= l.length {
			break
		}

		if ch := l.input[l.position]; ch == '\n' {
			l.line++
			l.column = 1
		} else if utf8.RuneStart(ch) {
			l.column++
		}

		l.position++
	}
}

// Get the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}

// unescape resolves backslash escapes inside a quoted string body
func unescape(body string) string {
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' || i+1 >= len(body) {
			b.WriteByte(ch)
			continue
		}

		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(body[i])
		}
	}

	return b.String()
}
