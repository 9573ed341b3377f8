package interpreter

import (
	"math"
	"testing"

	"ippi/pkg/fault"
	"ippi/pkg/program"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		f        float64
		expected string
	}{
		{0, "0x0.0p+0"},
		{math.Copysign(0, -1), "-0x0.0p+0"},
		{1, "0x1.0000000000000p+0"},
		{3, "0x1.8000000000000p+1"},
		{-0.5, "-0x1.0000000000000p-1"},
		{0.1, "0x1.999999999999ap-4"},
		{math.SmallestNonzeroFloat64, "0x0.0000000000001p-1022"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
	}

	for _, test := range tests {
		if got := FormatFloat(test.f); got != test.expected {
			t.Errorf("FormatFloat(%v): expected %q, got %q", test.f, test.expected, got)
		}
	}
}

func TestFormatFloatRoundTrip(t *testing.T) {
	for _, f := range []float64{1, -7.25, 0.1, 1e300, 5e-324} {
		got, err := program.ParseFloat(FormatFloat(f))
		if err != nil {
			t.Errorf("%v: %v", f, err)
			continue
		}
		if got != f {
			t.Errorf("expected %v after round trip, got %v", f, got)
		}
	}
}

func TestArith(t *testing.T) {
	tests := []struct {
		op       program.Opcode
		a, b     Value
		expected Value
		kind     fault.Kind
	}{
		{program.OpAdd, NewInt(2), NewInt(3), NewInt(5), fault.KindNone},
		{program.OpSub, NewFloat(1.5), NewFloat(0.5), NewFloat(1), fault.KindNone},
		{program.OpMul, NewInt(-4), NewInt(3), NewInt(-12), fault.KindNone},
		{program.OpIDiv, NewInt(-7), NewInt(2), NewInt(-3), fault.KindNone},
		{program.OpIDiv, NewInt(7), NewInt(0), Value{}, fault.OperandValue},
		{program.OpIDiv, NewFloat(7), NewFloat(2), Value{}, fault.OperandType},
		{program.OpDiv, NewFloat(1), NewFloat(0), Value{}, fault.OperandValue},
		{program.OpDiv, NewInt(1), NewInt(1), Value{}, fault.OperandType},
		{program.OpAdd, NewInt(1), NewFloat(1), Value{}, fault.OperandType},
		{program.OpAdd, NewString("a"), NewString("b"), Value{}, fault.OperandType},
	}

	for _, test := range tests {
		got, err := evalArith(test.op, test.a, test.b)
		if kind := fault.KindOf(err); kind != test.kind {
			t.Errorf("%s %#v %#v: expected %s, got %s", test.op, test.a, test.b, test.kind, kind)
			continue
		}
		if err == nil && got != test.expected {
			t.Errorf("%s %#v %#v: expected %#v, got %#v", test.op, test.a, test.b, test.expected, got)
		}
	}
}

func TestRelational(t *testing.T) {
	tests := []struct {
		op       program.Opcode
		a, b     Value
		expected bool
		kind     fault.Kind
	}{
		{program.OpLt, NewInt(1), NewInt(2), true, fault.KindNone},
		{program.OpGt, NewInt(1), NewInt(2), false, fault.KindNone},
		{program.OpLt, NewBool(false), NewBool(true), true, fault.KindNone},
		{program.OpGt, NewBool(false), NewBool(true), false, fault.KindNone},
		{program.OpLt, NewString("abc"), NewString("abd"), true, fault.KindNone},
		{program.OpGt, NewString("b"), NewString("abc"), true, fault.KindNone},
		{program.OpLt, Nil(), Nil(), false, fault.OperandType},
		{program.OpLt, NewInt(1), NewString("1"), false, fault.OperandType},
	}

	for _, test := range tests {
		got, err := evalRelational(test.op, test.a, test.b)
		if kind := fault.KindOf(err); kind != test.kind {
			t.Errorf("%s %#v %#v: expected %s, got %s", test.op, test.a, test.b, test.kind, kind)
			continue
		}
		if err == nil && got.Bool != test.expected {
			t.Errorf("%s %#v %#v: expected %v", test.op, test.a, test.b, test.expected)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b     Value
		expected bool
		kind     fault.Kind
	}{
		{Nil(), Nil(), true, fault.KindNone},
		{Nil(), NewInt(0), false, fault.KindNone},
		{NewString(""), Nil(), false, fault.KindNone},
		{NewInt(3), NewInt(3), true, fault.KindNone},
		{NewBool(true), NewBool(false), false, fault.KindNone},
		{NewInt(1), NewBool(true), false, fault.OperandType},
		{NewFloat(1), NewFloat(1), false, fault.OperandType},
	}

	for _, test := range tests {
		got, err := equal(program.OpEq, test.a, test.b)
		if kind := fault.KindOf(err); kind != test.kind {
			t.Errorf("%#v %#v: expected %s, got %s", test.a, test.b, test.kind, kind)
			continue
		}
		if got != test.expected {
			t.Errorf("%#v %#v: expected %v, got %v", test.a, test.b, test.expected, got)
		}
	}
}

func TestFloat2IntRange(t *testing.T) {
	if _, err := evalFloat2Int(NewFloat(math.NaN())); fault.KindOf(err) != fault.OperandValue {
		t.Errorf("expected NaN to be rejected, got %v", err)
	}
	if _, err := evalFloat2Int(NewFloat(1e19)); fault.KindOf(err) != fault.OperandValue {
		t.Errorf("expected 1e19 to be rejected, got %v", err)
	}
	if v, err := evalFloat2Int(NewFloat(-1e18)); err != nil || v.Int != -1e18 {
		t.Errorf("expected -1e18, got %#v (%v)", v, err)
	}
}

func TestInt2CharSurrogate(t *testing.T) {
	if _, err := evalInt2Char(NewInt(0xD800)); fault.KindOf(err) != fault.StringOperation {
		t.Errorf("expected surrogate to be rejected, got %v", err)
	}
}
