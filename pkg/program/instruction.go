package program

import (
	"fmt"
	"strconv"
	"strings"
)

type Opcode string

// List of IPPcode19 operations
const (
	OpMove        Opcode = "MOVE"
	OpCreateFrame Opcode = "CREATEFRAME"
	OpPushFrame   Opcode = "PUSHFRAME"
	OpPopFrame    Opcode = "POPFRAME"
	OpDefVar      Opcode = "DEFVAR"
	OpCall        Opcode = "CALL"
	OpReturn      Opcode = "RETURN"

	OpPushS  Opcode = "PUSHS"
	OpPopS   Opcode = "POPS"
	OpClearS Opcode = "CLEARS"

	OpAdd  Opcode = "ADD"
	OpSub  Opcode = "SUB"
	OpMul  Opcode = "MUL"
	OpIDiv Opcode = "IDIV"
	OpDiv  Opcode = "DIV"
	OpLt   Opcode = "LT"
	OpGt   Opcode = "GT"
	OpEq   Opcode = "EQ"
	OpAnd  Opcode = "AND"
	OpOr   Opcode = "OR"
	OpNot  Opcode = "NOT"

	OpInt2Char  Opcode = "INT2CHAR"
	OpStri2Int  Opcode = "STRI2INT"
	OpInt2Float Opcode = "INT2FLOAT"
	OpFloat2Int Opcode = "FLOAT2INT"

	OpAddS       Opcode = "ADDS"
	OpSubS       Opcode = "SUBS"
	OpMulS       Opcode = "MULS"
	OpIDivS      Opcode = "IDIVS"
	OpDivS       Opcode = "DIVS"
	OpLtS        Opcode = "LTS"
	OpGtS        Opcode = "GTS"
	OpEqS        Opcode = "EQS"
	OpAndS       Opcode = "ANDS"
	OpOrS        Opcode = "ORS"
	OpNotS       Opcode = "NOTS"
	OpInt2CharS  Opcode = "INT2CHARS"
	OpStri2IntS  Opcode = "STRI2INTS"
	OpInt2FloatS Opcode = "INT2FLOATS"
	OpFloat2IntS Opcode = "FLOAT2INTS"

	OpRead  Opcode = "READ"
	OpWrite Opcode = "WRITE"

	OpConcat  Opcode = "CONCAT"
	OpStrLen  Opcode = "STRLEN"
	OpGetChar Opcode = "GETCHAR"
	OpSetChar Opcode = "SETCHAR"

	OpType Opcode = "TYPE"

	OpLabel      Opcode = "LABEL"
	OpJump       Opcode = "JUMP"
	OpJumpIfEq   Opcode = "JUMPIFEQ"
	OpJumpIfNeq  Opcode = "JUMPIFNEQ"
	OpJumpIfEqS  Opcode = "JUMPIFEQS"
	OpJumpIfNeqS Opcode = "JUMPIFNEQS"
	OpExit       Opcode = "EXIT"

	OpDPrint Opcode = "DPRINT"
	OpBreak  Opcode = "BREAK"
)

// stackForms maps a stack flavored opcode to the explicit-operand opcode it mirrors.
var stackForms = map[Opcode]Opcode{
	OpAddS:       OpAdd,
	OpSubS:       OpSub,
	OpMulS:       OpMul,
	OpIDivS:      OpIDiv,
	OpDivS:       OpDiv,
	OpLtS:        OpLt,
	OpGtS:        OpGt,
	OpEqS:        OpEq,
	OpAndS:       OpAnd,
	OpOrS:        OpOr,
	OpNotS:       OpNot,
	OpInt2CharS:  OpInt2Char,
	OpStri2IntS:  OpStri2Int,
	OpInt2FloatS: OpInt2Float,
	OpFloat2IntS: OpFloat2Int,
	OpJumpIfEqS:  OpJumpIfEq,
	OpJumpIfNeqS: OpJumpIfNeq,
}

// Base returns the explicit-operand form of op and whether op takes its
// operands from the value stack.
func (op Opcode) Base() (Opcode, bool) {
	if base, ok := stackForms[op]; ok {
		return base, true
	}
	return op, false
}

// ParseOpcode maps a case-insensitive mnemonic to a known opcode.
func ParseOpcode(s string) (Opcode, bool) {
	op := Opcode(strings.ToUpper(s))
	_, ok := signatures[op]
	return op, ok
}

type ArgType int

const (
	ArgNil ArgType = iota
	ArgInt
	ArgBool
	ArgString
	ArgFloat
	ArgTypeName
	ArgLabel
	ArgVar
)

var argTypeNames = map[ArgType]string{
	ArgNil:      "nil",
	ArgInt:      "int",
	ArgBool:     "bool",
	ArgString:   "string",
	ArgFloat:    "float",
	ArgTypeName: "type",
	ArgLabel:    "label",
	ArgVar:      "var",
}

func (t ArgType) String() string {
	return argTypeNames[t]
}

// ParseArgType maps a type attribute ("int", "var", ...) to an ArgType.
func ParseArgType(s string) (ArgType, bool) {
	for t, name := range argTypeNames {
		if name == s {
			return t, true
		}
	}
	return ArgNil, false
}

// IsConstant reports whether t is a literal symbol type.
func (t ArgType) IsConstant() bool {
	switch t {
	case ArgNil, ArgInt, ArgBool, ArgString, ArgFloat:
		return true
	default:
		return false
	}
}

type Frame string

const (
	GF Frame = "GF"
	TF Frame = "TF"
	LF Frame = "LF"
)

// Arg is a decoded instruction argument. Literal payloads are parsed once at load time.
type Arg struct {
	Type  ArgType
	Frame Frame   // var only
	Name  string  // var, label and type names
	Int   int64   // int literal
	Float float64 // float literal
	Bool  bool    // bool literal
	Str   string  // string literal, escapes already decoded
}

// Var builds a variable reference argument.
func Var(frame Frame, name string) Arg {
	return Arg{Type: ArgVar, Frame: frame, Name: name}
}

// Label builds a label argument.
func Label(name string) Arg {
	return Arg{Type: ArgLabel, Name: name}
}

// TypeName builds a type argument.
func TypeName(name string) Arg {
	return Arg{Type: ArgTypeName, Name: name}
}

// Int builds an int literal argument.
func Int(i int64) Arg {
	return Arg{Type: ArgInt, Int: i}
}

// Float builds a float literal argument.
func Float(f float64) Arg {
	return Arg{Type: ArgFloat, Float: f}
}

// Bool builds a bool literal argument.
func Bool(b bool) Arg {
	return Arg{Type: ArgBool, Bool: b}
}

// String builds a string literal argument.
func String(s string) Arg {
	return Arg{Type: ArgString, Str: s}
}

// Nil builds the nil literal argument.
func Nil() Arg {
	return Arg{Type: ArgNil}
}

// String renders the argument in IPPcode19 source notation
func (a Arg) String() string {
	switch a.Type {
	case ArgVar:
		return string(a.Frame) + "@" + a.Name
	case ArgLabel, ArgTypeName:
		return a.Name
	case ArgInt:
		return "int@" + strconv.FormatInt(a.Int, 10)
	case ArgBool:
		return "bool@" + strconv.FormatBool(a.Bool)
	case ArgFloat:
		return "float@" + strconv.FormatFloat(a.Float, 'x', -1, 64)
	case ArgString:
		return "string@" + a.Str
	default:
		return "nil@nil"
	}
}

type Instruction struct {
	Order int // 1-based order number from the source
	Op    Opcode
	Args  []Arg
}

// String returns a string representation of the instruction
func (i Instruction) String() string {
	parts := make([]string, 0, len(i.Args)+1)
	parts = append(parts, string(i.Op))
	for _, a := range i.Args {
		parts = append(parts, a.String())
	}

	return fmt.Sprintf("%d: %s", i.Order, strings.Join(parts, " "))
}

// Arg returns the n-th argument (1-based), or the zero Arg if absent
func (i Instruction) Arg(n int) Arg {
	if n < 1 || n > len(i.Args) {
		return Arg{}
	}
	return i.Args[n-1]
}
