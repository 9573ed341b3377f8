package lexer

import (
	"fmt"
)

type TokenType int

type Token struct {
	Type    TokenType // Type of the token
	Lexeme  string    // Actual string from source code
	Literal string    // Text after the '@' for VAR and CONST, the lexeme otherwise
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

	HEADER  // .IPPcode19
	NEWLINE // \n
	VAR     // GF@name, TF@name, LF@name
	CONST   // int@1, string@abc, nil@nil ...
	IDENT   // opcodes, labels and type names

	ILLEGAL // illegal token
)

var tokenNames = map[TokenType]string{
	EOF:     "$",
	HEADER:  "header",
	NEWLINE: "newline",
	VAR:     "var",
	CONST:   "const",
	IDENT:   "ident",
	ILLEGAL: "illegal",
}

// Prefix returns the part of a VAR or CONST lexeme before the '@' (frame or type)
func (t Token) Prefix() string {
	if t.Type != VAR && t.Type != CONST {
		return ""
	}
	return t.Lexeme[:len(t.Lexeme)-len(t.Literal)-1]
}

// String returns a string representation of the Token
func (t Token) String() string {
	if t.Literal == "" {
		return fmt.Sprintf("T_{%s, %q, nil, %s}",
			t.Type, t.Lexeme, t.Pos.String())
	}

	return fmt.Sprintf("T_{%s, %q, %q, %s}",
		t.Type, t.Lexeme, t.Literal, t.Pos.String())
}

// String returns a string representation of the TokenType
func (t TokenType) String() string {
	if str, ok := tokenNames[t]; ok {
		return str
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// Position locates a token; Line and Column are 1-based, Offset is a byte index.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
