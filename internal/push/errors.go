package push

import (
	"errors"
	"fmt"
)

var ErrStepLimit = errors.New("step limit exceeded")

type StackErrorKind int

const (
	// Underflow means an instruction needed more operands than the stack
	// held.
	Underflow StackErrorKind = iota
	// Overflow means a push would exceed the combined max stack size.
	Overflow
)

func (k StackErrorKind) String() string {
	if k == Underflow {
		return "underflow"
	}
	return "overflow"
}

type StackError struct {
	Kind  StackErrorKind
	Stack string
	Need  int
	Have  int
}

func (e *StackError) Error() string {
	if e.Kind == Underflow {
		return fmt.Sprintf("%s stack underflow: need %d items, have %d", e.Stack, e.Need, e.Have)
	}
	return fmt.Sprintf("%s stack overflow: %d items exceeds max %d", e.Stack, e.Need, e.Have)
}

// OverflowError reports an arithmetic result outside the representable
// range.
type OverflowError struct {
	Op Instruction
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("arithmetic overflow in %s", e.Op)
}

// InstructionError is the failure of one instruction. It always carries the
// state as it stood before the instruction touched it, so a caller can skip
// the instruction and go on.
type InstructionError struct {
	state       State
	err         error
	recoverable bool
}

func (e *InstructionError) Error() string {
	kind := "fatal"
	if e.recoverable {
		kind = "recoverable"
	}
	return fmt.Sprintf("%s instruction error: %v", kind, e.err)
}

func (e *InstructionError) Unwrap() error { return e.err }

func (e *InstructionError) State() State { return e.state }

func (e *InstructionError) Err() error { return e.err }

func (e *InstructionError) IsRecoverable() bool { return e.recoverable }

// fail classifies err and bundles it with state. Missing operands and
// arithmetic overflow are recoverable; everything else is fatal.
func fail(state State, err error) (State, error) {
	return state, &InstructionError{state: state, err: err, recoverable: isRecoverable(err)}
}

func overflow(state State, op Instruction) (State, error) {
	return fail(state, &OverflowError{Op: op})
}

func isRecoverable(err error) bool {
	var stackErr *StackError
	if errors.As(err, &stackErr) {
		return stackErr.Kind == Underflow
	}
	var overflowErr *OverflowError
	return errors.As(err, &overflowErr)
}
