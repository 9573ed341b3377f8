package interpreter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"ippi/pkg/color"
	"ippi/pkg/program"
)

// readLine returns the next input line without its terminator. ok is false
// once the input is exhausted.
func (i *Interpreter) readLine() (string, bool) {
	line, err := i.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSuffix(line, "\n"), true
}

// readValue implements READ: conversion failures and end of input produce
// the type's default value instead of an error.
func (i *Interpreter) readValue(typ string) Value {
	line, ok := i.readLine()

	switch typ {
	case "int":
		if ok {
			if n, err := program.ParseInt(strings.TrimSpace(line)); err == nil {
				return NewInt(n)
			}
		}
		return NewInt(0)

	case "bool":
		return NewBool(ok && strings.EqualFold(strings.TrimSpace(line), "true"))

	case "float":
		if ok {
			if f, err := program.ParseFloat(line); err == nil {
				return NewFloat(f)
			}
		}
		return NewFloat(0)

	default:
		if ok {
			return NewString(line)
		}
		return NewString("")
	}
}

// Dump writes the BREAK report: position, executed count and every frame.
func (i *Interpreter) Dump(w io.Writer) {
	fmt.Fprintf(w, "%s %d\n", color.CyanText("Instructions order:"), i.order)
	fmt.Fprintf(w, "%s %d\n", color.CyanText("Instructions executed:"), i.steps+1)
	fmt.Fprintf(w, "%s %d\n", color.CyanText("Call stack depth:"), i.labels.Depth())

	fmt.Fprintln(w, color.BoldText("Frame contents:"))
	fmt.Fprintln(w, "Global frame:")
	dumpFrame(w, i.frames.Global(), "\t")

	temp := i.frames.Temp()
	fmt.Fprintf(w, "Temporary frame: defined: %s\n", strconv.FormatBool(temp != nil))
	if temp != nil {
		dumpFrame(w, temp, "\t")
	}

	locals := i.frames.Locals()
	fmt.Fprintf(w, "Local frame: defined: %s\n", strconv.FormatBool(len(locals) > 0))
	for n, f := range locals {
		fmt.Fprintf(w, "\tFrame %d: %d variables\n", n, f.Len())
		dumpFrame(w, f, "\t\t")
	}

	fmt.Fprintf(w, "Value stack: %d\n", i.values.Size())
	for _, v := range i.values.Array() {
		fmt.Fprintf(w, "\t%#v\n", v)
	}
}

func dumpFrame(w io.Writer, f *Frame, indent string) {
	for _, name := range f.Names() {
		v, _ := f.Lookup(name)
		if v == nil {
			fmt.Fprintf(w, "%sVar: %s,\t%s\n", indent, name, color.GrayText("Undefined value"))
			continue
		}
		fmt.Fprintf(w, "%sVar: %s,\ttype: %s,\tvalue: %s\n", indent, name, v.Kind, v.String())
	}
}
