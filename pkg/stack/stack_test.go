package stack_test

import (
	"ippi/pkg/stack"
	"testing"
)

func TestStackLIFO(t *testing.T) {
	s := stack.NewStack(1, 2)
	s.Push(3)

	if s.Size() != 3 {
		t.Fatalf("expected size 3, got %d", s.Size())
	}

	if top, ok := s.Peek(); !ok || top != 3 {
		t.Errorf("expected peek 3, got %d (%v)", top, ok)
	}

	for _, expected := range []int{3, 2, 1} {
		got, ok := s.Pop()
		if !ok || got != expected {
			t.Errorf("expected %d, got %d (%v)", expected, got, ok)
		}
	}

	if _, ok := s.Pop(); ok {
		t.Errorf("pop on empty stack should report false")
	}
	if _, ok := s.Peek(); ok {
		t.Errorf("peek on empty stack should report false")
	}
}

func TestStackClear(t *testing.T) {
	s := stack.NewStack[string]()
	s.Push("a")
	s.Push("b")
	s.Clear()

	if s.Size() != 0 || len(s.Array()) != 0 {
		t.Errorf("expected empty stack after Clear, got %v", s.Array())
	}

	s.Push("c")
	if got, _ := s.Pop(); got != "c" {
		t.Errorf("expected c after reuse, got %q", got)
	}
}
