package interpreter

import (
	"fmt"
	"math"
	"strconv"

	"ippi/pkg/program"
)

type ValueKind int

const (
	KindNil ValueKind = iota
	KindInt
	KindBool
	KindString
	KindFloat
)

// String returns the type name reported by TYPE.
func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	default:
		return "nil"
	}
}

// Value represents a runtime datum. Variable references never appear here;
// they are resolved through the frame store first.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

// String renders the value the way WRITE prints it.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return FormatFloat(v.Float)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString:
		return v.Str
	default:
		return ""
	}
}

// GoString renders the value with its type, for dumps and test failures.
func (v Value) GoString() string {
	if v.Kind == KindNil {
		return "nil@nil"
	}
	return v.Kind.String() + "@" + v.String()
}

// NewInt creates a new integer Value.
func NewInt(i int64) Value {
	return Value{Kind: KindInt, Int: i}
}

// NewFloat creates a new float Value.
func NewFloat(f float64) Value {
	return Value{Kind: KindFloat, Float: f}
}

// NewBool creates a new boolean Value.
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NewString creates a new string Value.
func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Nil is the nil Value.
func Nil() Value {
	return Value{Kind: KindNil}
}

// constant turns a literal argument into a Value.
func constant(a program.Arg) (Value, error) {
	switch a.Type {
	case program.ArgInt:
		return NewInt(a.Int), nil
	case program.ArgFloat:
		return NewFloat(a.Float), nil
	case program.ArgBool:
		return NewBool(a.Bool), nil
	case program.ArgString:
		return NewString(a.Str), nil
	case program.ArgNil:
		return Nil(), nil
	default:
		return Value{}, fmt.Errorf("%s argument is not a value", a.Type)
	}
}

// FormatFloat renders f as a hexadecimal floating point literal with a
// 13 digit mantissa, e.g. 0x1.8000000000000p+1 for 3.0.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	sign := ""
	if math.Signbit(f) {
		sign = "-"
	}

	bits := math.Float64bits(f)
	exp := int((bits >> 52) & 0x7ff)
	mant := bits & (1<<52 - 1)

	switch {
	case exp == 0 && mant == 0:
		return sign + "0x0.0p+0"
	case exp == 0:
		return fmt.Sprintf("%s0x0.%013xp-1022", sign, mant)
	default:
		return fmt.Sprintf("%s0x1.%013xp%+d", sign, mant, exp-1023)
	}
}
