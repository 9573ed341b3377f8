package interpreter

import (
	"ippi/pkg/fault"
	"ippi/pkg/program"
	"ippi/pkg/stack"
)

// Frame is a variable scope. A nil slot is a declared variable without a value.
type Frame struct {
	slots map[string]*Value
	names []string // declaration order, for dumps
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{slots: make(map[string]*Value)}
}

// Names returns the declared variable names in declaration order.
func (f *Frame) Names() []string {
	return f.names
}

// Lookup returns the slot for name and whether name is declared.
func (f *Frame) Lookup(name string) (*Value, bool) {
	v, ok := f.slots[name]
	return v, ok
}

// Len is the number of declared variables.
func (f *Frame) Len() int {
	return len(f.names)
}

func (f *Frame) initialized() int {
	n := 0
	for _, v := range f.slots {
		if v != nil {
			n++
		}
	}
	return n
}

// FrameStore holds the global frame, the optional temporary frame and the
// local frame stack.
type FrameStore struct {
	global *Frame
	temp   *Frame // nil until CREATEFRAME
	locals *stack.Stack[*Frame]
}

// NewFrameStore creates a store with an empty global frame and nothing else.
func NewFrameStore() *FrameStore {
	return &FrameStore{
		global: NewFrame(),
		locals: stack.NewStack[*Frame](),
	}
}

// Global returns the global frame.
func (s *FrameStore) Global() *Frame {
	return s.global
}

// Temp returns the temporary frame, or nil when undefined.
func (s *FrameStore) Temp() *Frame {
	return s.temp
}

// Locals returns the local frame stack, bottom first.
func (s *FrameStore) Locals() []*Frame {
	return s.locals.Array()
}

// CreateFrame replaces the temporary frame with an empty one.
func (s *FrameStore) CreateFrame() {
	s.temp = NewFrame()
}

// PushFrame moves the temporary frame onto the local stack.
func (s *FrameStore) PushFrame() error {
	if s.temp == nil {
		return fault.Errorf(fault.UndefinedFrame, "PUSHFRAME without a temporary frame")
	}

	s.locals.Push(s.temp)
	s.temp = nil
	return nil
}

// PopFrame moves the top local frame into the temporary frame.
func (s *FrameStore) PopFrame() error {
	f, ok := s.locals.Pop()
	if !ok {
		return fault.Errorf(fault.UndefinedFrame, "POPFRAME with an empty local frame stack")
	}

	s.temp = f
	return nil
}

// frame returns the frame a reference points into.
func (s *FrameStore) frame(ref program.Arg) (*Frame, error) {
	switch ref.Frame {
	case program.GF:
		return s.global, nil
	case program.TF:
		if s.temp == nil {
			return nil, fault.Errorf(fault.UndefinedFrame, "temporary frame does not exist (%s)", ref)
		}
		return s.temp, nil
	case program.LF:
		f, ok := s.locals.Peek()
		if !ok {
			return nil, fault.Errorf(fault.UndefinedFrame, "local frame does not exist (%s)", ref)
		}
		return f, nil
	default:
		return nil, fault.Errorf(fault.UndefinedFrame, "unknown frame %q", ref.Frame)
	}
}

// Declare adds an unset variable.
func (s *FrameStore) Declare(ref program.Arg) error {
	f, err := s.frame(ref)
	if err != nil {
		return err
	}

	if _, ok := f.slots[ref.Name]; ok {
		return fault.Errorf(fault.Semantic, "variable %s redefined", ref)
	}

	f.slots[ref.Name] = nil
	f.names = append(f.names, ref.Name)
	return nil
}

// ReadRaw returns the slot of a declared variable; nil means unset.
func (s *FrameStore) ReadRaw(ref program.Arg) (*Value, error) {
	f, err := s.frame(ref)
	if err != nil {
		return nil, err
	}

	v, ok := f.slots[ref.Name]
	if !ok {
		return nil, fault.Errorf(fault.UndefinedVariable, "variable %s is not defined", ref)
	}
	return v, nil
}

// Slot returns the stored value of an initialized variable for in-place updates.
func (s *FrameStore) Slot(ref program.Arg) (*Value, error) {
	v, err := s.ReadRaw(ref)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fault.Errorf(fault.MissingValue, "variable %s has no value", ref)
	}
	return v, nil
}

// Read returns a copy of an initialized variable's value.
func (s *FrameStore) Read(ref program.Arg) (Value, error) {
	v, err := s.Slot(ref)
	if err != nil {
		return Value{}, err
	}
	return *v, nil
}

// Assign overwrites a declared variable.
func (s *FrameStore) Assign(ref program.Arg, v Value) error {
	f, err := s.frame(ref)
	if err != nil {
		return err
	}

	if _, ok := f.slots[ref.Name]; !ok {
		return fault.Errorf(fault.UndefinedVariable, "variable %s is not defined", ref)
	}

	f.slots[ref.Name] = &v
	return nil
}

// Resolve reads variables and passes constants through.
func (s *FrameStore) Resolve(arg program.Arg) (Value, error) {
	if arg.Type == program.ArgVar {
		return s.Read(arg)
	}
	return constant(arg)
}

// Initialized counts variables holding a value across every existing frame.
func (s *FrameStore) Initialized() int {
	n := s.global.initialized()
	if s.temp != nil {
		n += s.temp.initialized()
	}
	for _, f := range s.locals.Array() {
		n += f.initialized()
	}
	return n
}
