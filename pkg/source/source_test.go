package source_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"ippi/pkg/fault"
	"ippi/pkg/program"
	"ippi/pkg/source"
)

const xmlProgram = `<?xml version="1.0" encoding="UTF-8"?>
<program language="IPPcode19" name="demo">
  <instruction order="3" opcode="write">
    <arg1 type="var">GF@msg</arg1>
  </instruction>
  <instruction order="1" opcode="DEFVAR">
    <arg1 type="var">GF@msg</arg1>
  </instruction>
  <instruction order="2" opcode="MOVE">
    <arg1 type="var">GF@msg</arg1>
    <arg2 type="string">a\032b\035&lt;c&gt;</arg2>
  </instruction>
  <instruction order="4" opcode="READ">
    <arg2 type="type">int</arg2>
    <arg1 type="var">LF@n</arg1>
  </instruction>
  <instruction order="5" opcode="JUMPIFEQ">
    <arg1 type="label">end</arg1>
    <arg2 type="float">0x1.8p+1</arg2>
    <arg3 type="nil">nil</arg3>
  </instruction>
  <instruction order="6" opcode="LABEL">
    <arg1 type="label">end</arg1>
  </instruction>
  <instruction order="7" opcode="CREATEFRAME"/>
</program>
`

const textProgram = `.IPPcode19 # demo
DEFVAR GF@msg
MOVE GF@msg string@a\032b\035<c>
  # comment line

write GF@msg
READ LF@n int
JUMPIFEQ end float@0x1.8p+1 nil@nil
LABEL end
CREATEFRAME`

var expected = []program.Instruction{
	{Order: 1, Op: program.OpDefVar, Args: []program.Arg{program.Var(program.GF, "msg")}},
	{Order: 2, Op: program.OpMove, Args: []program.Arg{program.Var(program.GF, "msg"), program.String("a b#<c>")}},
	{Order: 3, Op: program.OpWrite, Args: []program.Arg{program.Var(program.GF, "msg")}},
	{Order: 4, Op: program.OpRead, Args: []program.Arg{program.Var(program.LF, "n"), program.TypeName("int")}},
	{Order: 5, Op: program.OpJumpIfEq, Args: []program.Arg{program.Label("end"), program.Float(3), program.Nil()}},
	{Order: 6, Op: program.OpLabel, Args: []program.Arg{program.Label("end")}},
	{Order: 7, Op: program.OpCreateFrame},
}

func equalPrograms(t *testing.T, got []program.Instruction) {
	t.Helper()

	if len(got) != len(expected) {
		t.Fatalf("expected %d instructions, got %d", len(expected), len(got))
	}
	for n := range expected {
		e, g := expected[n], got[n]
		if e.Order != g.Order || e.Op != g.Op || len(e.Args) != len(g.Args) {
			t.Errorf("instruction %d: expected %s, got %s", n, e, g)
			continue
		}
		for a := range e.Args {
			if !reflect.DeepEqual(e.Args[a], g.Args[a]) {
				t.Errorf("instruction %d arg %d: expected %#v, got %#v", n, a+1, e.Args[a], g.Args[a])
			}
		}
	}
}

func TestLoadXML(t *testing.T) {
	pb, err := source.Load(strings.NewReader(xmlProgram), source.FormatXML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalPrograms(t, pb)
}

func TestLoadText(t *testing.T) {
	pb, err := source.Load(strings.NewReader(textProgram), source.FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	equalPrograms(t, pb)
}

func TestLoadAuto(t *testing.T) {
	for _, input := range []string{xmlProgram, "\n\n" + textProgram} {
		pb, err := source.Load(strings.NewReader(input), source.FormatAuto)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		equalPrograms(t, pb)
	}
}

func TestDetect(t *testing.T) {
	if f := source.Detect([]byte("  \n<program/>")); f != source.FormatXML {
		t.Errorf("expected xml, got %s", f)
	}
	if f := source.Detect([]byte(".IPPcode19\n")); f != source.FormatText {
		t.Errorf("expected text, got %s", f)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected source.Format
		valid    bool
	}{
		{"", source.FormatAuto, true},
		{"XML", source.FormatXML, true},
		{"text", source.FormatText, true},
		{"yaml", source.FormatAuto, false},
	}

	for _, test := range tests {
		f, err := source.ParseFormat(test.input)
		if (err == nil) != test.valid || f != test.expected {
			t.Errorf("%q: expected (%s, %v), got (%s, %v)", test.input, test.expected, test.valid, f, err)
		}
	}
}

func wrap(body string) string {
	return `<program language="IPPcode19">` + body + `</program>`
}

func TestXMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  fault.Kind
	}{
		{"empty", "", fault.MalformedSource},
		{"unclosed", `<program language="IPPcode19">`, fault.MalformedSource},
		{"two roots", wrap("") + "<program/>", fault.MalformedSource},
		{"wrong root", `<prog language="IPPcode19"/>`, fault.LexicalOrSyntax},
		{"missing language", `<program/>`, fault.LexicalOrSyntax},
		{"wrong language", `<program language="IPPcode20"/>`, fault.LexicalOrSyntax},
		{"stray text", wrap("hello"), fault.LexicalOrSyntax},
		{"unknown child", wrap(`<foo/>`), fault.LexicalOrSyntax},
		{"missing order", wrap(`<instruction opcode="BREAK"/>`), fault.LexicalOrSyntax},
		{"extra attribute", wrap(`<instruction order="1" opcode="BREAK" x="y"/>`), fault.LexicalOrSyntax},
		{"negative order", wrap(`<instruction order="-1" opcode="BREAK"/>`), fault.LexicalOrSyntax},
		{"text order", wrap(`<instruction order="one" opcode="BREAK"/>`), fault.LexicalOrSyntax},
		{"order gap", wrap(`<instruction order="1" opcode="BREAK"/><instruction order="3" opcode="BREAK"/>`), fault.LexicalOrSyntax},
		{"duplicate order", wrap(`<instruction order="1" opcode="BREAK"/><instruction order="1" opcode="BREAK"/>`), fault.LexicalOrSyntax},
		{"unknown opcode", wrap(`<instruction order="1" opcode="HALT"/>`), fault.LexicalOrSyntax},
		{"duplicate arg", wrap(`<instruction order="1" opcode="WRITE"><arg1 type="int">1</arg1><arg1 type="int">2</arg1></instruction>`), fault.LexicalOrSyntax},
		{"arg gap", wrap(`<instruction order="1" opcode="WRITE"><arg2 type="int">1</arg2></instruction>`), fault.LexicalOrSyntax},
		{"arg4", wrap(`<instruction order="1" opcode="WRITE"><arg4 type="int">1</arg4></instruction>`), fault.LexicalOrSyntax},
		{"bad literal", wrap(`<instruction order="1" opcode="WRITE"><arg1 type="int">1.5</arg1></instruction>`), fault.LexicalOrSyntax},
		{"bad string escape", wrap(`<instruction order="1" opcode="WRITE"><arg1 type="string">a\1b</arg1></instruction>`), fault.LexicalOrSyntax},
		{"arity", wrap(`<instruction order="1" opcode="ADD"><arg1 type="var">GF@x</arg1></instruction>`), fault.LexicalOrSyntax},
		{"operand class", wrap(`<instruction order="1" opcode="DEFVAR"><arg1 type="int">1</arg1></instruction>`), fault.LexicalOrSyntax},
		{"arg without type", wrap(`<instruction order="1" opcode="WRITE"><arg1>1</arg1></instruction>`), fault.LexicalOrSyntax},
	}

	for _, test := range tests {
		_, err := source.LoadXML([]byte(test.input))
		if got := fault.KindOf(err); got != test.kind {
			t.Errorf("%s: expected %s, got %s (%v)", test.name, test.kind, got, err)
		}
	}
}

func TestTextErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"missing header", "WRITE int@1", 1},
		{"header not first", "# c\nWRITE int@1\n.IPPcode19", 2},
		{"unknown opcode", ".IPPcode19\nHALT", 2},
		{"too few args", ".IPPcode19\n\nADD GF@x int@1", 3},
		{"too many args", ".IPPcode19\nBREAK now", 2},
		{"symb as var", ".IPPcode19\nDEFVAR int@1", 2},
		{"bad int", ".IPPcode19\nWRITE int@x", 2},
		{"bad frame", ".IPPcode19\nDEFVAR XF@x", 2},
		{"second header", ".IPPcode19\n.IPPcode19", 2},
		{"label with at", ".IPPcode19\nJUMP GF@x", 2},
	}

	for _, test := range tests {
		_, err := source.LoadText([]byte(test.input))
		if got := fault.KindOf(err); got != fault.LexicalOrSyntax {
			t.Errorf("%s: expected %s, got %s (%v)", test.name, fault.LexicalOrSyntax, got, err)
			continue
		}

		var se *source.SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("%s: expected a SyntaxError, got %v", test.name, err)
			continue
		}
		if se.Pos.Line != test.line {
			t.Errorf("%s: expected line %d, got %d", test.name, test.line, se.Pos.Line)
		}
	}
}

func TestEmptyText(t *testing.T) {
	pb, err := source.LoadText([]byte(".IPPcode19\n\n# nothing\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pb) != 0 {
		t.Errorf("expected an empty program, got %d instructions", len(pb))
	}
}
