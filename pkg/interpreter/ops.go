package interpreter

import (
	"math"
	"unicode/utf8"

	"ippi/pkg/fault"
	"ippi/pkg/program"
)

func typeMismatch(op program.Opcode, a, b Value) error {
	return fault.Errorf(fault.OperandType, "%s cannot take %s and %s", op, a.Kind, b.Kind)
}

// evalArith evaluates ADD, SUB, MUL, IDIV and DIV
func evalArith(op program.Opcode, a, b Value) (Value, error) {
	switch op {
	case program.OpIDiv:
		if a.Kind != KindInt || b.Kind != KindInt {
			return Value{}, typeMismatch(op, a, b)
		}
		if b.Int == 0 {
			return Value{}, fault.Errorf(fault.OperandValue, "integer division by zero")
		}
		// Go division truncates toward zero
		return NewInt(a.Int / b.Int), nil

	case program.OpDiv:
		if a.Kind != KindFloat || b.Kind != KindFloat {
			return Value{}, typeMismatch(op, a, b)
		}
		if b.Float == 0 {
			return Value{}, fault.Errorf(fault.OperandValue, "division by zero")
		}
		return NewFloat(a.Float / b.Float), nil
	}

	switch {
	case a.Kind == KindInt && b.Kind == KindInt:
		switch op {
		case program.OpAdd:
			return NewInt(a.Int + b.Int), nil
		case program.OpSub:
			return NewInt(a.Int - b.Int), nil
		case program.OpMul:
			return NewInt(a.Int * b.Int), nil
		}

	case a.Kind == KindFloat && b.Kind == KindFloat:
		switch op {
		case program.OpAdd:
			return NewFloat(a.Float + b.Float), nil
		case program.OpSub:
			return NewFloat(a.Float - b.Float), nil
		case program.OpMul:
			return NewFloat(a.Float * b.Float), nil
		}

	default:
		return Value{}, typeMismatch(op, a, b)
	}

	return Value{}, fault.Errorf(fault.Runtime, "unsupported arithmetic op: %s", op)
}

// evalRelational evaluates LT and GT. false < true, strings compare by code point.
func evalRelational(op program.Opcode, a, b Value) (Value, error) {
	if a.Kind != b.Kind {
		return Value{}, typeMismatch(op, a, b)
	}
	if op == program.OpGt {
		a, b = b, a
	}

	switch a.Kind {
	case KindInt:
		return NewBool(a.Int < b.Int), nil
	case KindBool:
		return NewBool(!a.Bool && b.Bool), nil
	case KindString:
		return NewBool(a.Str < b.Str), nil
	default:
		return Value{}, typeMismatch(op, a, b)
	}
}

// equal implements EQ and the JUMPIFEQ family. nil equals only nil.
func equal(op program.Opcode, a, b Value) (bool, error) {
	if a.Kind == KindNil || b.Kind == KindNil {
		return a.Kind == b.Kind, nil
	}
	if a.Kind != b.Kind {
		return false, typeMismatch(op, a, b)
	}

	switch a.Kind {
	case KindInt:
		return a.Int == b.Int, nil
	case KindBool:
		return a.Bool == b.Bool, nil
	case KindString:
		return a.Str == b.Str, nil
	default:
		return false, typeMismatch(op, a, b)
	}
}

// evalLogic evaluates AND and OR
func evalLogic(op program.Opcode, a, b Value) (Value, error) {
	if a.Kind != KindBool || b.Kind != KindBool {
		return Value{}, typeMismatch(op, a, b)
	}

	if op == program.OpAnd {
		return NewBool(a.Bool && b.Bool), nil
	}
	return NewBool(a.Bool || b.Bool), nil
}

func evalNot(a Value) (Value, error) {
	if a.Kind != KindBool {
		return Value{}, fault.Errorf(fault.OperandType, "NOT cannot take %s", a.Kind)
	}
	return NewBool(!a.Bool), nil
}

func evalInt2Char(a Value) (Value, error) {
	if a.Kind != KindInt {
		return Value{}, fault.Errorf(fault.OperandType, "INT2CHAR cannot take %s", a.Kind)
	}
	// surrogates (U+D800-U+DFFF) have no UTF-8 encoding, so they fail like out-of-range values
	if a.Int < 0 || a.Int > utf8.MaxRune || !utf8.ValidRune(rune(a.Int)) {
		return Value{}, fault.Errorf(fault.StringOperation, "%d is not a valid code point", a.Int)
	}
	return NewString(string(rune(a.Int))), nil
}

func evalInt2Float(a Value) (Value, error) {
	if a.Kind != KindInt {
		return Value{}, fault.Errorf(fault.OperandType, "INT2FLOAT cannot take %s", a.Kind)
	}
	return NewFloat(float64(a.Int)), nil
}

func evalFloat2Int(a Value) (Value, error) {
	if a.Kind != KindFloat {
		return Value{}, fault.Errorf(fault.OperandType, "FLOAT2INT cannot take %s", a.Kind)
	}
	f := math.Trunc(a.Float)
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return Value{}, fault.Errorf(fault.OperandValue, "%s does not fit an int", FormatFloat(a.Float))
	}
	return NewInt(int64(f)), nil
}

// runeAt checks the (string, int) operand pair shared by STRI2INT, GETCHAR
// and SETCHAR and returns the string's code points.
func runeAt(op program.Opcode, s, idx Value) ([]rune, int, error) {
	if s.Kind != KindString || idx.Kind != KindInt {
		return nil, 0, typeMismatch(op, s, idx)
	}

	runes := []rune(s.Str)
	if idx.Int < 0 || idx.Int >= int64(len(runes)) {
		return nil, 0, fault.Errorf(fault.StringOperation, "index %d out of range for length %d", idx.Int, len(runes))
	}
	return runes, int(idx.Int), nil
}

func evalStri2Int(s, idx Value) (Value, error) {
	runes, n, err := runeAt(program.OpStri2Int, s, idx)
	if err != nil {
		return Value{}, err
	}
	return NewInt(int64(runes[n])), nil
}

func evalGetChar(s, idx Value) (Value, error) {
	runes, n, err := runeAt(program.OpGetChar, s, idx)
	if err != nil {
		return Value{}, err
	}
	return NewString(string(runes[n])), nil
}

// setChar replaces one character of the string held in target.
func setChar(target *Value, idx, repl Value) error {
	if target.Kind != KindString || idx.Kind != KindInt || repl.Kind != KindString {
		return fault.Errorf(fault.OperandType, "SETCHAR cannot take %s, %s and %s", target.Kind, idx.Kind, repl.Kind)
	}

	runes, n, err := runeAt(program.OpSetChar, *target, idx)
	if err != nil {
		return err
	}
	if repl.Str == "" {
		return fault.Errorf(fault.StringOperation, "SETCHAR with an empty replacement")
	}

	r, _ := utf8.DecodeRuneInString(repl.Str)
	runes[n] = r
	target.Str = string(runes)
	return nil
}

func evalConcat(a, b Value) (Value, error) {
	if a.Kind != KindString || b.Kind != KindString {
		return Value{}, typeMismatch(program.OpConcat, a, b)
	}
	return NewString(a.Str + b.Str), nil
}

func evalStrLen(a Value) (Value, error) {
	if a.Kind != KindString {
		return Value{}, fault.Errorf(fault.OperandType, "STRLEN cannot take %s", a.Kind)
	}
	return NewInt(int64(utf8.RuneCountInString(a.Str))), nil
}
