package program

import "testing"

func TestBase(t *testing.T) {
	tests := []struct {
		op       Opcode
		base     Opcode
		stackful bool
	}{
		{OpAddS, OpAdd, true},
		{OpJumpIfNeqS, OpJumpIfNeq, true},
		{OpFloat2IntS, OpFloat2Int, true},
		{OpAdd, OpAdd, false},
		{OpPushS, OpPushS, false},
		{OpPopS, OpPopS, false},
		{OpClearS, OpClearS, false},
	}

	for _, test := range tests {
		base, stackful := test.op.Base()
		if base != test.base || stackful != test.stackful {
			t.Errorf("%s: expected (%s, %v), got (%s, %v)", test.op, test.base, test.stackful, base, stackful)
		}
	}
}

func TestParseOpcode(t *testing.T) {
	if op, ok := ParseOpcode("jumpIfEqs"); !ok || op != OpJumpIfEqS {
		t.Errorf("expected JUMPIFEQS, got %s (%v)", op, ok)
	}
	if _, ok := ParseOpcode("HALT"); ok {
		t.Errorf("HALT should not be a known opcode")
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		ins   Instruction
		valid bool
	}{
		{Instruction{Op: OpCreateFrame}, true},
		{Instruction{Op: OpCreateFrame, Args: []Arg{Int(1)}}, false},
		{Instruction{Op: OpDefVar, Args: []Arg{Var(GF, "x")}}, true},
		{Instruction{Op: OpDefVar, Args: []Arg{Int(1)}}, false},
		{Instruction{Op: OpMove, Args: []Arg{Var(GF, "x"), String("a")}}, true},
		{Instruction{Op: OpMove, Args: []Arg{Var(GF, "x"), Label("a")}}, false},
		{Instruction{Op: OpRead, Args: []Arg{Var(GF, "x"), TypeName("int")}}, true},
		{Instruction{Op: OpRead, Args: []Arg{Var(GF, "x"), Int(1)}}, false},
		{Instruction{Op: OpJumpIfEq, Args: []Arg{Label("l"), Nil(), Var(LF, "y")}}, true},
		{Instruction{Op: OpJumpIfEq, Args: []Arg{Var(GF, "l"), Nil(), Nil()}}, false},
		{Instruction{Op: OpAdd, Args: []Arg{Var(GF, "x"), Int(1)}}, false},
		{Instruction{Op: "HALT"}, false},
	}

	for n, test := range tests {
		err := test.ins.Check()
		if test.valid && err != nil {
			t.Errorf("case %d (%s): unexpected error %v", n, test.ins, err)
		}
		if !test.valid && err == nil {
			t.Errorf("case %d (%s): expected an error", n, test.ins)
		}
	}
}

func TestInstructionString(t *testing.T) {
	ins := Instruction{Order: 3, Op: OpAdd, Args: []Arg{Var(GF, "r"), Int(-2), Bool(true)}}
	if got, want := ins.String(), "3: ADD GF@r int@-2 bool@true"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
