package lexer

import (
	"regexp"
)

// Token regex patterns
var tokenRegexes = map[TokenType]*regexp.Regexp{
	LPAREN: regexp.MustCompile(`^\(`),
	RPAREN: regexp.MustCompile(`^\)`),
	LBRACE: regexp.MustCompile(`^\{`),
	RBRACE: regexp.MustCompile(`^\}`),

	STRING: regexp.MustCompile(`^("([^"\\]|\\.)*"|'([^'\\]|\\.)*')`),
	SYMBOL: regexp.MustCompile(`^[^\s(){}"';]+`),
}

var (
	whitespaceRegex = regexp.MustCompile(`^\s+`)
	commentRegex    = regexp.MustCompile(`^;[^\n]*`)
	numberRegex     = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

// Token precedence order for matching
var tokenPrecedenceOrder = []TokenType{
	LPAREN, RPAREN, LBRACE, RBRACE, STRING, SYMBOL,
}

// MatchToken matches the token at the start of the string.
// Whitespace and comments are reported as EOF with the skipped text as lexeme.
// Atoms are classified into numbers, keywords or symbols.
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	} else if match := whitespaceRegex.FindString(s); match != "" {
		return EOF, match, true
	} else if match := commentRegex.FindString(s); match != "" {
		return EOF, match, true
	}

	for _, tokenType := range tokenPrecedenceOrder {
		match := tokenRegexes[tokenType].FindString(s)
		if match == "" {
			continue
		}

		if tokenType != SYMBOL {
			return tokenType, match, true
		}

		if numberRegex.MatchString(match) {
			return NUM, match, true
		}
		if keyword, ok := IsKeyword(match); ok {
			return keyword, match, true
		}
		return SYMBOL, match, true
	}

	return ILLEGAL, string(s[0]), false
}
