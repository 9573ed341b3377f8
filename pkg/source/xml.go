package source

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ippi/pkg/fault"
	"ippi/pkg/program"
)

const language = "IPPcode19"

type xmlElement struct {
	XMLName xml.Name
}

type xmlArg struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Text     string       `xml:",chardata"`
	Children []xmlElement `xml:",any"`
}

type xmlInstruction struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Args    []xmlArg   `xml:",any"`
}

type xmlProgram struct {
	XMLName  xml.Name
	Attrs    []xml.Attr       `xml:",any,attr"`
	Text     string           `xml:",chardata"`
	Children []xmlInstruction `xml:",any"`
}

// LoadXML decodes the XML representation. A document that is not
// well-formed is MalformedSource; anything else wrong is LexicalOrSyntax.
func LoadXML(data []byte) ([]program.Instruction, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	if doc.XMLName.Local != "program" {
		return nil, fault.Errorf(fault.LexicalOrSyntax, "root element is <%s>, expected <program>", doc.XMLName.Local)
	}
	if lang, ok := attr(doc.Attrs, "language"); !ok || lang != language {
		return nil, fault.Errorf(fault.LexicalOrSyntax, "program language must be %s", language)
	}
	if strings.TrimSpace(doc.Text) != "" {
		return nil, fault.Errorf(fault.LexicalOrSyntax, "unexpected text in <program>")
	}

	pb := make([]program.Instruction, 0, len(doc.Children))
	for _, el := range doc.Children {
		in, err := decodeInstruction(el)
		if err != nil {
			return nil, err
		}
		pb = append(pb, in)
	}

	return finish(pb)
}

// decodeDocument parses the root element and rejects anything but
// whitespace, comments and processing instructions after it.
func decodeDocument(data []byte) (*xmlProgram, error) {
	d := xml.NewDecoder(bytes.NewReader(data))

	var doc xmlProgram
	if err := d.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fault.Errorf(fault.MalformedSource, "empty document")
		}
		return nil, fault.Wrap(fault.MalformedSource, err)
	}

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		if err != nil {
			return nil, fault.Wrap(fault.MalformedSource, err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, fault.Errorf(fault.MalformedSource, "text after the document element")
			}
		case xml.StartElement:
			return nil, fault.Errorf(fault.MalformedSource, "second document element <%s>", t.Name.Local)
		}
	}
}

func decodeInstruction(el xmlInstruction) (program.Instruction, error) {
	if el.XMLName.Local != "instruction" {
		return program.Instruction{}, fault.Errorf(fault.LexicalOrSyntax, "unexpected element <%s> in <program>", el.XMLName.Local)
	}

	if len(el.Attrs) != 2 {
		return program.Instruction{}, fault.Errorf(fault.LexicalOrSyntax, "<instruction> needs exactly the order and opcode attributes")
	}
	rawOrder, ok := attr(el.Attrs, "order")
	if !ok {
		return program.Instruction{}, fault.Errorf(fault.LexicalOrSyntax, "<instruction> without order")
	}
	rawOp, ok := attr(el.Attrs, "opcode")
	if !ok {
		return program.Instruction{}, fault.Errorf(fault.LexicalOrSyntax, "<instruction> without opcode")
	}

	order, err := strconv.Atoi(strings.TrimSpace(rawOrder))
	if err != nil || order < 1 {
		return program.Instruction{}, fault.Errorf(fault.LexicalOrSyntax, "invalid instruction order %q", rawOrder)
	}

	fail := func(format string, args ...any) (program.Instruction, error) {
		return program.Instruction{}, fault.At(fault.Errorf(fault.LexicalOrSyntax, format, args...), order, strings.ToUpper(rawOp))
	}

	op, ok := program.ParseOpcode(strings.TrimSpace(rawOp))
	if !ok {
		return fail("unknown opcode %q", rawOp)
	}
	if strings.TrimSpace(el.Text) != "" {
		return fail("unexpected text in <instruction>")
	}

	var slots [3]*xmlArg
	for n := range el.Args {
		a := &el.Args[n]

		idx := -1
		switch a.XMLName.Local {
		case "arg1":
			idx = 0
		case "arg2":
			idx = 1
		case "arg3":
			idx = 2
		default:
			return fail("unexpected element <%s> in <instruction>", a.XMLName.Local)
		}
		if slots[idx] != nil {
			return fail("duplicate <%s>", a.XMLName.Local)
		}
		slots[idx] = a
	}

	var args []program.Arg
	for n, a := range slots {
		if a == nil {
			// arguments must be contiguous from arg1
			for _, rest := range slots[n:] {
				if rest != nil {
					return fail("<arg%d> is missing", n+1)
				}
			}
			break
		}

		arg, err := decodeArg(a)
		if err != nil {
			return fail("arg%d: %v", n+1, err)
		}
		args = append(args, arg)
	}

	return program.Instruction{Order: order, Op: op, Args: args}, nil
}

func decodeArg(a *xmlArg) (program.Arg, error) {
	if len(a.Attrs) != 1 || a.Attrs[0].Name.Local != "type" {
		return program.Arg{}, fmt.Errorf("needs exactly one type attribute")
	}
	if len(a.Children) > 0 {
		return program.Arg{}, fmt.Errorf("unexpected element <%s>", a.Children[0].XMLName.Local)
	}

	t, ok := program.ParseArgType(a.Attrs[0].Value)
	if !ok {
		return program.Arg{}, fmt.Errorf("unknown argument type %q", a.Attrs[0].Value)
	}

	return program.ParseLiteral(t, a.Text)
}

func attr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
