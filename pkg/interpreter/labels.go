package interpreter

import (
	"ippi/pkg/fault"
	"ippi/pkg/stack"
)

// Labels maps label names to instruction indices and keeps the call stack.
type Labels struct {
	index map[string]int
	calls *stack.Stack[int]
}

func NewLabels() *Labels {
	return &Labels{
		index: make(map[string]int),
		calls: stack.NewStack[int](),
	}
}

// Register records the position of a LABEL instruction.
func (l *Labels) Register(name string, idx int) error {
	if _, ok := l.index[name]; ok {
		return fault.Errorf(fault.Semantic, "label %q redefined", name)
	}

	l.index[name] = idx
	return nil
}

// Resolve returns the instruction index of a label.
func (l *Labels) Resolve(name string) (int, error) {
	idx, ok := l.index[name]
	if !ok {
		return 0, fault.Errorf(fault.Semantic, "label %q is not defined", name)
	}
	return idx, nil
}

// Call pushes ret and returns the label's index.
func (l *Labels) Call(name string, ret int) (int, error) {
	idx, err := l.Resolve(name)
	if err != nil {
		return 0, err
	}

	l.calls.Push(ret)
	return idx, nil
}

// Return pops the most recent return index.
func (l *Labels) Return() (int, error) {
	ret, ok := l.calls.Pop()
	if !ok {
		return 0, fault.Errorf(fault.MissingValue, "RETURN with an empty call stack")
	}
	return ret, nil
}

// Depth is the number of pending returns.
func (l *Labels) Depth() int {
	return l.calls.Size()
}
