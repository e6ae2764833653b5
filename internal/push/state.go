package push

import (
	"errors"
	"fmt"
)

const DefaultMaxStackSize = 1000

var (
	ErrProgramTooLong = errors.New("program exceeds max stack size")
	ErrDuplicateInput = errors.New("input already bound")
	ErrUnboundInput   = errors.New("input is not bound")
)

// State is the whole mutable context of one execution: the typed stacks and
// the named inputs. Instructions take ownership of the State they are given;
// callers continue with the returned State (or the one carried by an
// *InstructionError) and must not reuse the argument. Use Clone to keep a
// snapshot.
type State struct {
	maxStackSize int

	exec   Stack[Instruction]
	ints   Stack[int64]
	bools  Stack[bool]
	floats Stack[float64]

	inputs map[string]Value
}

func (s *State) Exec() *Stack[Instruction] { return &s.exec }
func (s *State) Int() *Stack[int64]        { return &s.ints }
func (s *State) Bool() *Stack[bool]        { return &s.bools }
func (s *State) Float() *Stack[float64]    { return &s.floats }

func (s *State) MaxStackSize() int {
	return s.maxStackSize
}

// Size is the combined number of items across all stacks.
func (s *State) Size() int {
	return s.exec.Size() + s.ints.Size() + s.bools.Size() + s.floats.Size()
}

// Input returns the value bound to name.
func (s *State) Input(name string) (Value, bool) {
	v, ok := s.inputs[name]
	return v, ok
}

func (s *State) checkCapacity(stack string, n int) error {
	if s.Size()+n > s.maxStackSize {
		return &StackError{Kind: Overflow, Stack: stack, Need: s.Size() + n, Have: s.maxStackSize}
	}
	return nil
}

func (s *State) PushInt(v int64) error {
	if err := s.checkCapacity("int", 1); err != nil {
		return err
	}
	s.ints.push(v)
	return nil
}

func (s *State) PushBool(v bool) error {
	if err := s.checkCapacity("bool", 1); err != nil {
		return err
	}
	s.bools.push(v)
	return nil
}

func (s *State) PushFloat(v float64) error {
	if err := s.checkCapacity("float", 1); err != nil {
		return err
	}
	s.floats.push(v)
	return nil
}

func (s *State) PushExec(instruction Instruction) error {
	if err := s.checkCapacity("exec", 1); err != nil {
		return err
	}
	s.exec.push(instruction)
	return nil
}

// PushProgram pushes program onto the exec stack so its first instruction
// runs first.
func (s *State) PushProgram(program Program) error {
	if err := s.checkCapacity("exec", len(program)); err != nil {
		return err
	}
	for i := len(program) - 1; i >= 0; i-- {
		s.exec.push(program[i])
	}
	return nil
}

// Clone returns a state that shares no stack storage with s.
func (s State) Clone() State {
	inputs := make(map[string]Value, len(s.inputs))
	for k, v := range s.inputs {
		inputs[k] = v
	}
	return State{
		maxStackSize: s.maxStackSize,
		exec:         s.exec.clone(),
		ints:         s.ints.clone(),
		bools:        s.bools.clone(),
		floats:       s.floats.clone(),
		inputs:       inputs,
	}
}

// Builder assembles the initial State. Errors are collected and reported by
// Build.
type Builder struct {
	maxStackSize int
	program      Program
	inputs       map[string]Value
	err          error
}

func NewBuilder() *Builder {
	return &Builder{maxStackSize: DefaultMaxStackSize, inputs: map[string]Value{}}
}

func (b *Builder) WithMaxStackSize(n int) *Builder {
	if n < 0 && b.err == nil {
		b.err = fmt.Errorf("max stack size must be >= 0: %d", n)
	}
	b.maxStackSize = n
	return b
}

func (b *Builder) WithProgram(program Program) *Builder {
	b.program = append(Program(nil), program...)
	return b
}

func (b *Builder) WithIntInput(name string, v int64) *Builder {
	return b.withInput(name, IntValue(v))
}

func (b *Builder) WithBoolInput(name string, v bool) *Builder {
	return b.withInput(name, BoolValue(v))
}

func (b *Builder) WithFloatInput(name string, v float64) *Builder {
	return b.withInput(name, FloatValue(v))
}

func (b *Builder) withInput(name string, v Value) *Builder {
	if _, exists := b.inputs[name]; exists && b.err == nil {
		b.err = fmt.Errorf("%w: %s", ErrDuplicateInput, name)
	}
	b.inputs[name] = v
	return b
}

// Build returns the initial state with the program loaded on the exec
// stack. A program longer than the max stack size is rejected, never
// truncated.
func (b *Builder) Build() (State, error) {
	if b.err != nil {
		return State{}, b.err
	}
	if len(b.program) > b.maxStackSize {
		return State{}, fmt.Errorf("%w: program=%d max=%d", ErrProgramTooLong, len(b.program), b.maxStackSize)
	}
	inputs := make(map[string]Value, len(b.inputs))
	for k, v := range b.inputs {
		inputs[k] = v
	}
	state := State{maxStackSize: b.maxStackSize, inputs: inputs}
	if err := state.PushProgram(b.program); err != nil {
		return State{}, err
	}
	return state, nil
}
