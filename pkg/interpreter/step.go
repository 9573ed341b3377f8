package interpreter

import (
	"fmt"

	"ippi/pkg/fault"
	"ippi/pkg/program"
)

// coreStep is the main single-step execution function
// it returns (halted, error).
func coreStep(i *Interpreter) (bool, error) {
	in := i.pb[i.pc]
	next := i.pc + 1
	op, stackful := in.Op.Base()

	var err error
	switch op {
	case program.OpCreateFrame:
		i.frames.CreateFrame()

	case program.OpPushFrame:
		err = i.frames.PushFrame()

	case program.OpPopFrame:
		err = i.frames.PopFrame()

	case program.OpDefVar:
		err = i.frames.Declare(in.Arg(1))

	case program.OpMove:
		var v Value
		if v, err = i.frames.Resolve(in.Arg(2)); err == nil {
			err = i.frames.Assign(in.Arg(1), v)
		}

	case program.OpCall:
		// continue after the LABEL; RETURN resumes after the CALL
		var target int
		if target, err = i.labels.Call(in.Arg(1).Name, next); err == nil {
			next = target + 1
		}

	case program.OpReturn:
		next, err = i.labels.Return()

	case program.OpLabel:
		// registered by indexProgram

	case program.OpJump:
		var target int
		if target, err = i.labels.Resolve(in.Arg(1).Name); err == nil {
			next = target + 1
		}

	case program.OpJumpIfEq, program.OpJumpIfNeq:
		var target int
		var taken bool
		if taken, err = i.condition(in, op, stackful); err != nil || !taken {
			break
		}
		if target, err = i.labels.Resolve(in.Arg(1).Name); err == nil {
			next = target + 1
		}

	case program.OpPushS:
		var v Value
		if v, err = i.frames.Resolve(in.Arg(1)); err == nil {
			i.values.Push(v)
		}

	case program.OpPopS:
		var v Value
		if v, err = i.pop(); err == nil {
			err = i.frames.Assign(in.Arg(1), v)
		}

	case program.OpClearS:
		i.values.Clear()

	case program.OpAdd, program.OpSub, program.OpMul, program.OpIDiv, program.OpDiv,
		program.OpLt, program.OpGt, program.OpEq,
		program.OpAnd, program.OpOr,
		program.OpStri2Int, program.OpConcat, program.OpGetChar:
		err = i.binary(in, op, stackful)

	case program.OpNot, program.OpInt2Char, program.OpInt2Float, program.OpFloat2Int, program.OpStrLen:
		err = i.unary(in, op, stackful)

	case program.OpSetChar:
		err = i.setChar(in)

	case program.OpType:
		err = i.typeOf(in)

	case program.OpRead:
		err = i.frames.Assign(in.Arg(1), i.readValue(in.Arg(2).Name))

	case program.OpWrite, program.OpDPrint:
		var v Value
		if v, err = i.frames.Resolve(in.Arg(1)); err != nil {
			break
		}
		w := i.out
		if op == program.OpDPrint {
			w = i.errOut
		}
		_, err = fmt.Fprint(w, v.String())

	case program.OpExit:
		return i.exit(in)

	case program.OpBreak:
		i.Dump(i.errOut)

	default:
		err = fault.Errorf(fault.LexicalOrSyntax, "unhandled opcode %s", in.Op)
	}

	if err != nil {
		return false, err
	}

	i.pc = next
	return false, nil
}

// pop takes the top of the value stack
func (i *Interpreter) pop() (Value, error) {
	v, ok := i.values.Pop()
	if !ok {
		return Value{}, fault.Errorf(fault.MissingValue, "value stack is empty")
	}
	return v, nil
}

// operands fetches the two source operands: arguments 2 and 3, or the two
// topmost stack values with the right operand on top.
func (i *Interpreter) operands(in program.Instruction, stackful bool) (Value, Value, error) {
	if stackful {
		b, err := i.pop()
		if err != nil {
			return Value{}, Value{}, err
		}
		a, err := i.pop()
		if err != nil {
			return Value{}, Value{}, err
		}
		return a, b, nil
	}

	a, err := i.frames.Resolve(in.Arg(2))
	if err != nil {
		return Value{}, Value{}, err
	}
	b, err := i.frames.Resolve(in.Arg(3))
	if err != nil {
		return Value{}, Value{}, err
	}
	return a, b, nil
}

// operand fetches the single source operand of a unary instruction
func (i *Interpreter) operand(in program.Instruction, stackful bool) (Value, error) {
	if stackful {
		return i.pop()
	}
	return i.frames.Resolve(in.Arg(2))
}

// store writes a result into argument 1, or pushes it for stack variants
func (i *Interpreter) store(in program.Instruction, stackful bool, v Value) error {
	if stackful {
		i.values.Push(v)
		return nil
	}
	return i.frames.Assign(in.Arg(1), v)
}

func (i *Interpreter) binary(in program.Instruction, op program.Opcode, stackful bool) error {
	a, b, err := i.operands(in, stackful)
	if err != nil {
		return err
	}

	var res Value
	switch op {
	case program.OpAdd, program.OpSub, program.OpMul, program.OpIDiv, program.OpDiv:
		res, err = evalArith(op, a, b)
	case program.OpLt, program.OpGt:
		res, err = evalRelational(op, a, b)
	case program.OpEq:
		var eq bool
		eq, err = equal(op, a, b)
		res = NewBool(eq)
	case program.OpAnd, program.OpOr:
		res, err = evalLogic(op, a, b)
	case program.OpStri2Int:
		res, err = evalStri2Int(a, b)
	case program.OpConcat:
		res, err = evalConcat(a, b)
	case program.OpGetChar:
		res, err = evalGetChar(a, b)
	default:
		err = fault.Errorf(fault.Runtime, "unsupported binary op: %s", op)
	}
	if err != nil {
		return err
	}

	return i.store(in, stackful, res)
}

func (i *Interpreter) unary(in program.Instruction, op program.Opcode, stackful bool) error {
	a, err := i.operand(in, stackful)
	if err != nil {
		return err
	}

	var res Value
	switch op {
	case program.OpNot:
		res, err = evalNot(a)
	case program.OpInt2Char:
		res, err = evalInt2Char(a)
	case program.OpInt2Float:
		res, err = evalInt2Float(a)
	case program.OpFloat2Int:
		res, err = evalFloat2Int(a)
	case program.OpStrLen:
		res, err = evalStrLen(a)
	default:
		err = fault.Errorf(fault.Runtime, "unsupported unary op: %s", op)
	}
	if err != nil {
		return err
	}

	return i.store(in, stackful, res)
}

// condition evaluates the equality test of JUMPIFEQ/JUMPIFNEQ and their stack forms
func (i *Interpreter) condition(in program.Instruction, op program.Opcode, stackful bool) (bool, error) {
	a, b, err := i.operands(in, stackful)
	if err != nil {
		return false, err
	}

	eq, err := equal(op, a, b)
	if err != nil {
		return false, err
	}

	if op == program.OpJumpIfNeq {
		return !eq, nil
	}
	return eq, nil
}

// setChar mutates the string held by argument 1 in place
func (i *Interpreter) setChar(in program.Instruction) error {
	idx, repl, err := i.operands(in, false)
	if err != nil {
		return err
	}

	target, err := i.frames.Slot(in.Arg(1))
	if err != nil {
		return err
	}

	return setChar(target, idx, repl)
}

// typeOf implements TYPE; an unset variable yields the empty string
func (i *Interpreter) typeOf(in program.Instruction) error {
	src := in.Arg(2)

	name := ""
	if src.Type == program.ArgVar {
		v, err := i.frames.ReadRaw(src)
		if err != nil {
			return err
		}
		if v != nil {
			name = v.Kind.String()
		}
	} else {
		v, err := constant(src)
		if err != nil {
			return err
		}
		name = v.Kind.String()
	}

	return i.frames.Assign(in.Arg(1), NewString(name))
}

// exit implements EXIT: an int in [0, 49] halts the program with that status
func (i *Interpreter) exit(in program.Instruction) (bool, error) {
	v, err := i.frames.Resolve(in.Arg(1))
	if err != nil {
		return false, err
	}

	if v.Kind != KindInt {
		return false, fault.Errorf(fault.OperandType, "EXIT cannot take %s", v.Kind)
	}
	if v.Int < 0 || v.Int > 49 {
		return false, fault.Errorf(fault.OperandValue, "exit code %d out of range [0, 49]", v.Int)
	}

	i.exited = true
	i.exitCode = int(v.Int)
	i.pc++
	return true, nil
}
