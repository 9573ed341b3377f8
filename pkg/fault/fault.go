package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure and selects the process exit status.
type Kind int

const (
	KindNone Kind = iota
	MissingParameter
	InputFile
	OutputFile
	MalformedSource
	LexicalOrSyntax
	Semantic
	OperandType
	UndefinedVariable
	UndefinedFrame
	MissingValue
	OperandValue
	StringOperation
	Runtime
)

var exitCodes = map[Kind]int{
	KindNone:          0,
	MissingParameter:  10,
	InputFile:         11,
	OutputFile:        12,
	MalformedSource:   31,
	LexicalOrSyntax:   32,
	Semantic:          52,
	OperandType:       53,
	UndefinedVariable: 54,
	UndefinedFrame:    55,
	MissingValue:      56,
	OperandValue:      57,
	StringOperation:   58,
	Runtime:           99,
}

var messages = map[Kind]string{
	KindNone:          "ok",
	MissingParameter:  "Invalid input parameters",
	InputFile:         "Invalid input file",
	OutputFile:        "Invalid output file",
	MalformedSource:   "XML not well-formed",
	LexicalOrSyntax:   "Lexical or syntax",
	Semantic:          "Semantic error of input code",
	OperandType:       "Incompatible operand types",
	UndefinedVariable: "Using undefined variable",
	UndefinedFrame:    "Using undefined frame",
	MissingValue:      "Missing value",
	OperandValue:      "Invalid operand value",
	StringOperation:   "Invalid string operation",
	Runtime:           "Runtime",
}

// ExitCode returns the fixed process status for the kind.
func (k Kind) ExitCode() int {
	if code, ok := exitCodes[k]; ok {
		return code
	}
	return exitCodes[Runtime]
}

// String renders the kind as its user facing message.
func (k Kind) String() string {
	if msg, ok := messages[k]; ok {
		return msg
	}
	return messages[Runtime]
}

// Error is a classified failure, optionally bound to the instruction that raised it.
type Error struct {
	Kind  Kind
	Order int    // 1-based instruction order, 0 when not tied to an instruction
	Op    string // opcode of that instruction
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	if e.Order > 0 {
		if e.Op != "" {
			return fmt.Sprintf("Error at inst %d (%s): %s", e.Order, e.Op, msg)
		}
		return fmt.Sprintf("Error at inst %d: %s", e.Order, msg)
	}

	return "Error: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap classifies err under kind, keeping it in the chain.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// At binds err to an instruction. Errors already bound keep their position;
// unclassified errors become Runtime.
func At(err error, order int, op string) error {
	if err == nil {
		return nil
	}

	var fe *Error
	if errors.As(err, &fe) {
		if fe.Order > 0 {
			return err
		}
		return &Error{Kind: fe.Kind, Order: order, Op: op, Err: fe.Err}
	}

	return &Error{Kind: Runtime, Order: order, Op: op, Err: err}
}

// KindOf reports the kind of err; unclassified errors are Runtime.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Runtime
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	return KindOf(err).ExitCode()
}
