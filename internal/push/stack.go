// Package push implements a multi-stack virtual machine for evolved
// programs. Execution is driven from an exec stack, one instruction at a
// time, and every instruction either returns a new state or an
// *InstructionError carrying the state as it was before the instruction ran.
package push

// Stack is a LIFO sequence of one value kind. Pushes go through State so
// the combined capacity limit always holds.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Size() int {
	return len(s.items)
}

func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}

// Top returns the top item without removing it.
func (s *Stack[T]) Top() (T, error) {
	return s.Get(0)
}

// Get returns the item depth positions below the top.
func (s *Stack[T]) Get(depth int) (T, error) {
	var zero T
	if depth < 0 || depth >= len(s.items) {
		return zero, &StackError{Kind: Underflow, Stack: stackName[T](), Need: depth + 1, Have: len(s.items)}
	}
	return s.items[len(s.items)-1-depth], nil
}

// Top2 returns the top two items, x on top and y beneath it.
func (s *Stack[T]) Top2() (x, y T, err error) {
	if len(s.items) < 2 {
		return x, y, &StackError{Kind: Underflow, Stack: stackName[T](), Need: 2, Have: len(s.items)}
	}
	n := len(s.items)
	return s.items[n-1], s.items[n-2], nil
}

func (s *Stack[T]) Pop() (T, error) {
	top, err := s.Top()
	if err != nil {
		return top, err
	}
	s.items = s.items[:len(s.items)-1]
	return top, nil
}

// Items returns a copy ordered bottom to top.
func (s *Stack[T]) Items() []T {
	copied := make([]T, len(s.items))
	copy(copied, s.items)
	return copied
}

func (s *Stack[T]) drop(n int) {
	s.items = s.items[:len(s.items)-n]
}

func (s *Stack[T]) push(v T) {
	s.items = append(s.items, v)
}

// replaceTop overwrites the top n items with v. Callers check the depth.
func (s *Stack[T]) replaceTop(n int, v T) {
	s.items = append(s.items[:len(s.items)-n], v)
}

// clone copies the backing storage so later pushes cannot write into an
// array shared with another state.
func (s Stack[T]) clone() Stack[T] {
	return Stack[T]{items: append([]T(nil), s.items...)}
}

func stackName[T any]() string {
	var zero T
	switch any(&zero).(type) {
	case *int64:
		return "int"
	case *bool:
		return "bool"
	case *float64:
		return "float"
	case *Instruction:
		return "exec"
	default:
		return "unknown"
	}
}
