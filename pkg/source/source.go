// Package source turns IPPcode19 programs, in their XML or textual form,
// into ordered and validated instruction lists.
package source

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"ippi/pkg/fault"
	"ippi/pkg/program"
)

type Format int

const (
	FormatAuto Format = iota
	FormatXML
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatText:
		return "text"
	default:
		return "auto"
	}
}

// ParseFormat maps a format name from the command line or config file.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "xml":
		return FormatXML, nil
	case "text", "txt", "ippcode19":
		return FormatText, nil
	default:
		return FormatAuto, fmt.Errorf("unknown source format %q", s)
	}
}

// Load reads a whole program from r.
func Load(r io.Reader, format Format) ([]program.Instruction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fault.Wrap(fault.InputFile, err)
	}

	if format == FormatAuto {
		format = Detect(data)
	}

	var pb []program.Instruction
	switch format {
	case FormatText:
		pb, err = LoadText(data)
	default:
		pb, err = LoadXML(data)
	}
	if err != nil {
		return nil, err
	}

	return pb, nil
}

// Detect picks XML when the first non-blank byte opens a tag.
func Detect(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return FormatXML
	}
	return FormatText
}

// finish sorts instructions by order and checks that orders run 1..n and
// every instruction matches its opcode signature.
func finish(pb []program.Instruction) ([]program.Instruction, error) {
	sort.SliceStable(pb, func(a, b int) bool {
		return pb[a].Order < pb[b].Order
	})

	for n, in := range pb {
		if in.Order != n+1 {
			return nil, fault.Errorf(fault.LexicalOrSyntax, "instruction order %d out of sequence, expected %d", in.Order, n+1)
		}
	}

	for _, in := range pb {
		if err := in.Check(); err != nil {
			return nil, fault.At(fault.Wrap(fault.LexicalOrSyntax, err), in.Order, string(in.Op))
		}
	}

	return pb, nil
}
