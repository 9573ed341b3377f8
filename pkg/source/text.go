package source

import (
	"fmt"

	"ippi/pkg/color"
	"ippi/pkg/fault"
	"ippi/pkg/lexer"
	"ippi/pkg/program"
)

// SyntaxError is a text source error tied to a line and column.
type SyntaxError struct {
	Pos     lexer.Position
	Msg     string
	Context string // the offending source line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Pretty renders the error with the source line, colored when enabled.
func (e *SyntaxError) Pretty() string {
	return color.ErrorWithPosition(e.Pos.Line, e.Pos.Column, e.Msg, e.Context)
}

type textParser struct {
	lexer        *lexer.Lexer
	currentToken lexer.Token
	order        int
}

// LoadText parses the textual IPPcode19 form: a .IPPcode19 header line, then
// one instruction per line. Orders are assigned by position.
func LoadText(data []byte) ([]program.Instruction, error) {
	p := &textParser{lexer: lexer.NewLexer(string(data))}
	p.nextToken()

	if err := p.header(); err != nil {
		return nil, err
	}

	var pb []program.Instruction
	for p.currentToken.Type != lexer.EOF {
		if p.currentToken.Type == lexer.NEWLINE {
			p.nextToken()
			continue
		}

		in, err := p.instruction()
		if err != nil {
			return nil, err
		}
		pb = append(pb, in)
	}

	return finish(pb)
}

func (p *textParser) nextToken() {
	p.currentToken = p.lexer.NextToken()
}

func (p *textParser) errorf(tok lexer.Token, format string, args ...any) error {
	return fault.Wrap(fault.LexicalOrSyntax, &SyntaxError{
		Pos:     tok.Pos,
		Msg:     fmt.Sprintf(format, args...),
		Context: p.lexer.Line(tok.Pos.Line),
	})
}

// endOfLine consumes the line terminator after a header or instruction
func (p *textParser) endOfLine() error {
	switch p.currentToken.Type {
	case lexer.NEWLINE:
		p.nextToken()
		return nil
	case lexer.EOF:
		return nil
	default:
		return p.errorf(p.currentToken, "unexpected %q at end of line", p.currentToken.Lexeme)
	}
}

func (p *textParser) header() error {
	for p.currentToken.Type == lexer.NEWLINE {
		p.nextToken()
	}

	if p.currentToken.Type != lexer.HEADER {
		return p.errorf(p.currentToken, "missing .IPPcode19 header")
	}
	p.nextToken()

	return p.endOfLine()
}

func (p *textParser) instruction() (program.Instruction, error) {
	opTok := p.currentToken
	if opTok.Type != lexer.IDENT {
		return program.Instruction{}, p.errorf(opTok, "expected an opcode, got %s %q", opTok.Type, opTok.Lexeme)
	}

	op, ok := program.ParseOpcode(opTok.Lexeme)
	if !ok {
		return program.Instruction{}, p.errorf(opTok, "unknown opcode %q", opTok.Lexeme)
	}
	p.nextToken()

	sig, _ := program.Signature(op)
	args := make([]program.Arg, 0, len(sig))
	for _, operand := range sig {
		tok := p.currentToken
		if tok.Type == lexer.NEWLINE || tok.Type == lexer.EOF {
			return program.Instruction{}, p.errorf(tok, "%s expects %d arguments, got %d", op, len(sig), len(args))
		}

		arg, err := p.argument(operand, tok)
		if err != nil {
			return program.Instruction{}, err
		}
		args = append(args, arg)
		p.nextToken()
	}

	if err := p.endOfLine(); err != nil {
		return program.Instruction{}, err
	}

	p.order++
	return program.Instruction{Order: p.order, Op: op, Args: args}, nil
}

// argument decodes tok as the operand class the signature expects
func (p *textParser) argument(operand program.Operand, tok lexer.Token) (program.Arg, error) {
	var (
		arg program.Arg
		err error
	)

	switch {
	case tok.Type == lexer.VAR && (operand == program.OperandVar || operand == program.OperandSymb):
		arg, err = program.ParseLiteral(program.ArgVar, tok.Lexeme)

	case tok.Type == lexer.CONST && operand == program.OperandSymb:
		t, _ := program.ParseArgType(tok.Prefix())
		arg, err = program.ParseLiteral(t, tok.Literal)

	case tok.Type == lexer.IDENT && operand == program.OperandLabel:
		arg, err = program.ParseLiteral(program.ArgLabel, tok.Lexeme)

	case tok.Type == lexer.IDENT && operand == program.OperandType:
		arg, err = program.ParseLiteral(program.ArgTypeName, tok.Lexeme)

	default:
		return program.Arg{}, p.errorf(tok, "expected %s, got %q", operand, tok.Lexeme)
	}

	if err != nil {
		return program.Arg{}, p.errorf(tok, "%v", err)
	}
	return arg, nil
}
