package reader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"lysithea/pkg/ast"
	"lysithea/pkg/interpreter"
	"lysithea/pkg/lexer"
	"lysithea/pkg/stack"
)

// openToken is a list or map whose closing bracket has not been read yet.
type openToken struct {
	start  lexer.Position
	closer lexer.TokenType
	items  []*ast.Token
}

type Reader struct {
	lexer        *lexer.Lexer
	currentToken lexer.Token
	open         *stack.Stack[*openToken] // innermost open list on top
}

// NewReader creates a new reader over text
func NewReader(text string) *Reader {
	r := &Reader{
		lexer: lexer.NewLexer(text),
		open:  stack.NewStack[*openToken](),
	}

	r.nextToken()

	return r
}

// Read parses text into one list token holding every top-level expression
func Read(text string) (*ast.Token, error) {
	return NewReader(text).Read()
}

// Read consumes the whole input. The result is always a list token.
func (r *Reader) Read() (*ast.Token, error) {
	root := &openToken{start: lexer.NewPosition(1, 1, 0), closer: lexer.EOF}
	if err := r.open.Push(root); err != nil {
		return nil, err
	}

	for r.currentToken.Type != lexer.EOF {
		if err := r.readToken(); err != nil {
			return nil, err
		}
		r.nextToken()
	}

	if r.open.Size() > 1 {
		top, _ := r.open.Peek()
		return nil, r.incomplete(top.start, fmt.Sprintf("Missing closing %s", top.closer))
	}

	log.Debug("Read expressions", "count", len(root.items))
	return ast.NewList(root.start, root.items), nil
}

// IsIncomplete reports whether text ends inside an open list, map or string
func IsIncomplete(text string) bool {
	_, err := Read(text)
	var synErr *SyntaxError
	return errors.As(err, &synErr) && synErr.Incomplete
}

func (r *Reader) readToken() error {
	tok := r.currentToken
	switch tok.Type {
	case lexer.LPAREN:
		return r.open.Push(&openToken{start: tok.Pos, closer: lexer.RPAREN})

	case lexer.LBRACE:
		return r.open.Push(&openToken{start: tok.Pos, closer: lexer.RBRACE})

	case lexer.RPAREN, lexer.RBRACE:
		return r.closeToken(tok)

	case lexer.NUM:
		n, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return r.errorAt(tok.Pos, fmt.Sprintf("Invalid number '%s'", tok.Lexeme))
		}
		r.append(ast.NewValue(tok.Pos, interpreter.NewNumber(n)))

	case lexer.STRING:
		r.append(ast.NewValue(tok.Pos, interpreter.NewString(tok.Literal)))

	case lexer.TRUE, lexer.FALSE:
		r.append(ast.NewValue(tok.Pos, interpreter.NewBool(tok.Type == lexer.TRUE)))

	case lexer.SYMBOL:
		r.append(ast.NewValue(tok.Pos, interpreter.NewVariable(tok.Lexeme)))

	case lexer.ILLEGAL:
		if tok.Lexeme == `"` || tok.Lexeme == `'` {
			return r.incomplete(tok.Pos, "Unterminated string")
		}
		return r.errorAt(tok.Pos, fmt.Sprintf("Unexpected character '%s'", tok.Lexeme))

	default:
		return r.errorAt(tok.Pos, fmt.Sprintf("Unexpected token '%s'", tok.Type))
	}

	return nil
}

// closeToken finishes the innermost open list or map
func (r *Reader) closeToken(tok lexer.Token) error {
	top, err := r.open.Peek()
	if err != nil || top.closer == lexer.EOF {
		return r.errorAt(tok.Pos, fmt.Sprintf("Unexpected '%s'", tok.Type))
	}
	if top.closer != tok.Type {
		return r.errorAt(tok.Pos, fmt.Sprintf("Expected '%s' but found '%s'", top.closer, tok.Type))
	}

	_, _ = r.open.Pop()

	if top.closer == lexer.RPAREN {
		r.append(ast.NewList(top.start, top.items))
		return nil
	}

	m, err := r.buildMap(top)
	if err != nil {
		return err
	}
	r.append(m)
	return nil
}

func (r *Reader) buildMap(top *openToken) (*ast.Token, error) {
	if len(top.items)%2 != 0 {
		return nil, r.errorAt(top.start, "Map needs a value for every key")
	}

	keys := make([]string, 0, len(top.items)/2)
	entries := make(map[string]*ast.Token, len(top.items)/2)
	for i := 0; i < len(top.items); i += 2 {
		keyToken := top.items[i]
		if keyToken.Kind != ast.Value {
			return nil, r.errorAt(keyToken.Location, "Map key needs to be a value")
		}

		key := strings.TrimSuffix(keyToken.Value.String(), ":")
		if _, exists := entries[key]; !exists {
			keys = append(keys, key)
		}
		entries[key] = top.items[i+1]
	}

	return ast.NewMap(top.start, keys, entries), nil
}

func (r *Reader) append(t *ast.Token) {
	top, _ := r.open.Peek()
	top.items = append(top.items, t)
}

func (r *Reader) nextToken() {
	r.currentToken = r.lexer.NextToken()
}
