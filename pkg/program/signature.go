package program

import "fmt"

// Operand is the syntactic class an instruction argument must belong to.
type Operand int

const (
	OperandVar   Operand = iota // <var>
	OperandSymb                 // <var> or a literal
	OperandLabel                // <label>
	OperandType                 // <type>
)

func (o Operand) String() string {
	switch o {
	case OperandVar:
		return "var"
	case OperandSymb:
		return "symb"
	case OperandLabel:
		return "label"
	default:
		return "type"
	}
}

// Accepts reports whether an argument of type t fits the operand class.
func (o Operand) Accepts(t ArgType) bool {
	switch o {
	case OperandVar:
		return t == ArgVar
	case OperandSymb:
		return t == ArgVar || t.IsConstant()
	case OperandLabel:
		return t == ArgLabel
	default:
		return t == ArgTypeName
	}
}

var (
	none        = []Operand{}
	varOnly     = []Operand{OperandVar}
	labelOnly   = []Operand{OperandLabel}
	symbOnly    = []Operand{OperandSymb}
	varSymb     = []Operand{OperandVar, OperandSymb}
	varType     = []Operand{OperandVar, OperandType}
	varSymbSymb = []Operand{OperandVar, OperandSymb, OperandSymb}
	labSymbSymb = []Operand{OperandLabel, OperandSymb, OperandSymb}
)

var signatures = map[Opcode][]Operand{
	OpCreateFrame: none,
	OpPushFrame:   none,
	OpPopFrame:    none,
	OpReturn:      none,
	OpBreak:       none,
	OpClearS:      none,
	OpAddS:        none,
	OpSubS:        none,
	OpMulS:        none,
	OpIDivS:       none,
	OpDivS:        none,
	OpLtS:         none,
	OpGtS:         none,
	OpEqS:         none,
	OpAndS:        none,
	OpOrS:         none,
	OpNotS:        none,
	OpInt2CharS:   none,
	OpStri2IntS:   none,
	OpInt2FloatS:  none,
	OpFloat2IntS:  none,

	OpDefVar: varOnly,
	OpPopS:   varOnly,

	OpLabel:      labelOnly,
	OpJump:       labelOnly,
	OpCall:       labelOnly,
	OpJumpIfEqS:  labelOnly,
	OpJumpIfNeqS: labelOnly,

	OpPushS:  symbOnly,
	OpWrite:  symbOnly,
	OpExit:   symbOnly,
	OpDPrint: symbOnly,

	OpMove:      varSymb,
	OpInt2Char:  varSymb,
	OpInt2Float: varSymb,
	OpFloat2Int: varSymb,
	OpStrLen:    varSymb,
	OpType:      varSymb,
	OpNot:       varSymb,

	OpRead: varType,

	OpAdd:      varSymbSymb,
	OpSub:      varSymbSymb,
	OpMul:      varSymbSymb,
	OpIDiv:     varSymbSymb,
	OpDiv:      varSymbSymb,
	OpLt:       varSymbSymb,
	OpGt:       varSymbSymb,
	OpEq:       varSymbSymb,
	OpAnd:      varSymbSymb,
	OpOr:       varSymbSymb,
	OpStri2Int: varSymbSymb,
	OpConcat:   varSymbSymb,
	OpGetChar:  varSymbSymb,
	OpSetChar:  varSymbSymb,

	OpJumpIfEq:  labSymbSymb,
	OpJumpIfNeq: labSymbSymb,
}

// Signature returns the operand classes op expects, in argument order.
func Signature(op Opcode) ([]Operand, bool) {
	sig, ok := signatures[op]
	return sig, ok
}

// Check validates an instruction's arity and argument classes.
func (i Instruction) Check() error {
	sig, ok := signatures[i.Op]
	if !ok {
		return fmt.Errorf("unknown opcode %q", i.Op)
	}

	if len(i.Args) != len(sig) {
		return fmt.Errorf("%s expects %d arguments, got %d", i.Op, len(sig), len(i.Args))
	}

	for n, operand := range sig {
		if !operand.Accepts(i.Args[n].Type) {
			return fmt.Errorf("%s argument %d: expected %s, got %s", i.Op, n+1, operand, i.Args[n].Type)
		}
	}

	return nil
}
