package push

import (
	"errors"
	"testing"
)

func TestBuilderRejectsProgramLongerThanMaxStackSize(t *testing.T) {
	program := Program{IntLiteral(1), IntLiteral(2), IntAdd}
	_, err := NewBuilder().WithMaxStackSize(2).WithProgram(program).Build()
	if !errors.Is(err, ErrProgramTooLong) {
		t.Fatalf("expected ErrProgramTooLong, got %v", err)
	}

	state, err := NewBuilder().WithMaxStackSize(3).WithProgram(program).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if state.Exec().Size() != 3 {
		t.Fatalf("expected full program on exec, got %d", state.Exec().Size())
	}
	if top, _ := state.Exec().Top(); top != IntLiteral(1) {
		t.Fatalf("expected first instruction on top, got %v", top)
	}
}

func TestBuilderRejectsDuplicateInput(t *testing.T) {
	_, err := NewBuilder().WithIntInput("x", 1).WithBoolInput("x", true).Build()
	if !errors.Is(err, ErrDuplicateInput) {
		t.Fatalf("expected ErrDuplicateInput, got %v", err)
	}
}

func TestBuilderRejectsNegativeMaxStackSize(t *testing.T) {
	if _, err := NewBuilder().WithMaxStackSize(-1).Build(); err == nil {
		t.Fatal("expected error for negative max stack size")
	}
}

func TestPushRejectedPastCombinedCapacity(t *testing.T) {
	state, err := NewBuilder().WithMaxStackSize(2).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := state.PushInt(1); err != nil {
		t.Fatalf("push int: %v", err)
	}
	if err := state.PushBool(true); err != nil {
		t.Fatalf("push bool: %v", err)
	}
	err = state.PushFloat(1.5)
	var stackErr *StackError
	if !errors.As(err, &stackErr) || stackErr.Kind != Overflow {
		t.Fatalf("expected stack overflow, got %v", err)
	}
	if state.Size() != 2 || state.Float().Size() != 0 {
		t.Fatalf("rejected push must not change the state: size=%d", state.Size())
	}
}

func TestCapacityOverflowIsFatal(t *testing.T) {
	state, err := NewBuilder().WithMaxStackSize(1).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := state.PushInt(4); err != nil {
		t.Fatalf("push: %v", err)
	}
	_, err = IntDup.Perform(state)
	var instructionErr *InstructionError
	if !errors.As(err, &instructionErr) {
		t.Fatalf("expected instruction error, got %v", err)
	}
	if instructionErr.IsRecoverable() {
		t.Fatal("capacity overflow must be fatal")
	}
	prior := instructionErr.State()
	if prior.Int().Size() != 1 {
		t.Fatalf("expected prior state, got %d ints", prior.Int().Size())
	}
}

func TestCloneDoesNotShareStorage(t *testing.T) {
	state := stateWithInts(t, 1, 2)
	snapshot := state.Clone()

	next, err := IntAdd.Perform(state)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := next.PushInt(99); err != nil {
		t.Fatalf("push: %v", err)
	}
	if got := snapshot.Int().Items(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("snapshot changed: %v", got)
	}
}

func TestStackAccessors(t *testing.T) {
	state := stateWithInts(t, 10, 20, 30)
	if v, _ := state.Int().Get(2); v != 10 {
		t.Fatalf("expected bottom 10, got %d", v)
	}
	if _, err := state.Int().Get(3); err == nil {
		t.Fatal("expected underflow past the bottom")
	}
	if v, _ := state.Int().Pop(); v != 30 {
		t.Fatalf("expected 30 popped, got %d", v)
	}
	if state.Int().Size() != 2 {
		t.Fatalf("expected 2 items left, got %d", state.Int().Size())
	}
}
