package lexer

import (
	"regexp"
	"strings"
)

type tokenRegex struct {
	Pattern *regexp.Regexp
	Raw     string
}

// Token regex patterns. A word never holds whitespace or '#': string
// literals must escape both.
var tokenRegexes = map[TokenType]tokenRegex{
	HEADER: {regexp.MustCompile(`^(?i)\.ippcode19\b`), `^(?i)\.ippcode19\b`},
	VAR:    {regexp.MustCompile(`^(GF|TF|LF)@[^\s#]*`), `^(GF|TF|LF)@[^\s#]*`},
	CONST:  {regexp.MustCompile(`^(int|bool|string|nil|float)@[^\s#]*`), `^(int|bool|string|nil|float)@[^\s#]*`},
	IDENT:  {regexp.MustCompile(`^[^\s#[:cntrl:]]+`), `^[^\s#[:cntrl:]]+`},
}

var (
	whitespaceRegex = regexp.MustCompile(`^[ \t\r\f\v]+`)
	commentRegex    = regexp.MustCompile(`^#[^\n]*`)
)

// Token precedence order for matching
var tokenPrecedenceOrder = []TokenType{
	HEADER, VAR, CONST, IDENT,
}

// Get the regex pattern for a token type
func (t TokenType) Regex() *regexp.Regexp {
	if regex, ok := tokenRegexes[t]; ok {
		return regex.Pattern
	}

	return nil
}

// Get the raw regex string for a token type
func (t TokenType) RawRegex() string {
	if regex, ok := tokenRegexes[t]; ok {
		return regex.Raw
	}

	return ""
}

// MatchToken matches the token at the start of the string. Whitespace and
// comments come back as EOF with a non-empty lexeme so the caller can skip them.
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	} else if match := whitespaceRegex.FindString(s); match != "" {
		return EOF, match, true
	} else if match := commentRegex.FindString(s); match != "" {
		return EOF, match, true
	} else if s[0] == '\n' {
		return NEWLINE, "\n", true
	}

	for _, tokenType := range tokenPrecedenceOrder {
		if regex, ok := tokenRegexes[tokenType]; ok {
			if match := regex.Pattern.FindString(s); match != "" {
				return tokenType, match, true
			}
		}
	}

	return ILLEGAL, string(s[0]), false
}

// literalOf returns the value part of a VAR or CONST lexeme
func literalOf(lexeme string) string {
	_, after, _ := strings.Cut(lexeme, "@")
	return after
}
