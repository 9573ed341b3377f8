package interpreter

import (
	"bufio"
	"errors"
	"io"
	"os"

	"ippi/pkg/fault"
	"ippi/pkg/program"
	"ippi/pkg/stack"
)

// Interpreter executes a decoded IPPcode19 program
type Interpreter struct {
	pb []program.Instruction // program block (ordered, validated instructions)
	pc int                   // index of the next instruction

	frames *FrameStore
	labels *Labels
	values *stack.Stack[Value] // operand stack for PUSHS/POPS and the *S opcodes

	in     *bufio.Reader // READ source
	out    io.Writer     // WRITE sink
	errOut io.Writer     // DPRINT and BREAK sink

	// Exec hook, defaults to coreStep
	execStep func(*Interpreter) (halted bool, err error)
	trace    func(in program.Instruction)

	order int // order number of the instruction being executed

	maxSteps int // maximum steps (0 = unlimited)
	steps    int // steps executed

	trackVars bool
	maxVars   int

	exited   bool
	exitCode int
}

type Option func(*Interpreter)

// WithWriter sets the output writer for WRITE
func WithWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithErrWriter sets the diagnostic writer for DPRINT and BREAK
func WithErrWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.errOut = w }
}

// WithReader sets the input consumed by READ
func WithReader(r io.Reader) Option {
	return func(i *Interpreter) { i.in = bufio.NewReader(r) }
}

// WithMaxSteps sets a maximum number of interpreter steps before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// WithTracer installs a hook called before every instruction
func WithTracer(fn func(program.Instruction)) Option {
	return func(i *Interpreter) { i.trace = fn }
}

// WithVarTracking samples the number of initialized variables after every step
func WithVarTracking(enabled bool) Option {
	return func(i *Interpreter) { i.trackVars = enabled }
}

// NewInterpreter creates a new Interpreter instance. It fails when the
// label pre-pass finds a duplicate label.
func NewInterpreter(pb []program.Instruction, opts ...Option) (*Interpreter, error) {
	it := &Interpreter{
		pb:       append([]program.Instruction(nil), pb...),
		maxSteps: 0, // 0 => unlimited
	}
	it.Reset()

	for _, o := range opts {
		o(it)
	}

	if it.out == nil {
		it.out = os.Stdout
	}
	if it.errOut == nil {
		it.errOut = os.Stderr
	}
	if it.in == nil {
		it.in = bufio.NewReader(os.Stdin)
	}

	if it.execStep == nil {
		it.execStep = coreStep
	}

	if err := it.indexProgram(); err != nil {
		return nil, err
	}

	return it, nil
}

// Load replaces the current program block with a new one, resetting state
func (i *Interpreter) Load(pb []program.Instruction) error {
	i.pb = append([]program.Instruction(nil), pb...)
	i.Reset()
	return i.indexProgram()
}

// Reset clears runtime state (frames, stacks, PC, counters)
func (i *Interpreter) Reset() {
	i.pc = 0
	i.order = 0
	i.frames = NewFrameStore()
	i.labels = NewLabels()
	i.values = stack.NewStack[Value]()
	i.steps = 0
	i.maxVars = 0
	i.exited = false
	i.exitCode = 0
}

// Frames exposes the frame store
func (i *Interpreter) Frames() *FrameStore {
	return i.frames
}

// Values returns the operand stack contents, bottom first
func (i *Interpreter) Values() []Value {
	return i.values.Array()
}

// SetExecStep installs the core step function
func (i *Interpreter) SetExecStep(fn func(*Interpreter) (bool, error)) {
	i.execStep = fn
}

// Step executes a single instruction, returning (halted, error)
func (i *Interpreter) Step() (bool, error) {
	if i.execStep == nil {
		return false, ErrNotImplemented
	}

	if i.exited || i.pc < 0 || i.pc >= len(i.pb) {
		return true, nil
	}

	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		return false, fault.Wrap(fault.Runtime, ErrMaxStepsExceeded)
	}

	in := i.pb[i.pc]
	i.order = in.Order
	if i.trace != nil {
		i.trace(in)
	}

	halted, err := i.execStep(i)
	if err != nil {
		return false, fault.At(err, in.Order, string(in.Op))
	}
	// EXIT ends the run before it counts
	if !i.exited {
		i.steps++
	}

	if i.trackVars {
		if n := i.frames.Initialized(); n > i.maxVars {
			i.maxVars = n
		}
	}

	return halted, nil
}

// Run executes until halt or error
func (i *Interpreter) Run() error {
	for {
		halted, err := i.Step()
		if err != nil {
			return err
		}

		if halted {
			return nil
		}
	}
}

// PC returns the index of the next instruction
func (i *Interpreter) PC() int {
	return i.pc
}

// SetPC sets the index of the next instruction
func (i *Interpreter) SetPC(pc int) {
	i.pc = pc
}

// Order returns the order number of the instruction executed last
func (i *Interpreter) Order() int {
	return i.order
}

// Exited reports whether the program ran EXIT, and with which code
func (i *Interpreter) Exited() (bool, int) {
	return i.exited, i.exitCode
}

// Stats are the execution counters exposed to the statistics sink
type Stats struct {
	Instructions int // instructions executed
	MaxVars      int // peak of simultaneously initialized variables
}

// Stats returns the execution counters
func (i *Interpreter) Stats() Stats {
	return Stats{Instructions: i.steps, MaxVars: i.maxVars}
}

// indexProgram registers every label before execution starts
func (i *Interpreter) indexProgram() error {
	i.labels = NewLabels()

	for idx, ins := range i.pb {
		if ins.Op != program.OpLabel {
			continue
		}
		if err := i.labels.Register(ins.Arg(1).Name, idx); err != nil {
			return fault.At(err, ins.Order, string(ins.Op))
		}
	}

	return nil
}

var (
	ErrNotImplemented   = errors.New("interpreter step function not linked")
	ErrMaxStepsExceeded = errors.New("maximum steps exceeded")
)
