package push

import (
	"errors"
	"math"
	"testing"
)

func TestRunEvaluatesProgramInOrder(t *testing.T) {
	program := Program{IntLiteral(7), IntLiteral(5), IntSubtract, IntLiteral(3), IntMultiply}
	state, err := RunProgram(NewBuilder().WithMaxStackSize(50), program, RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// 5 - 7 = -2, then 3 * -2.
	if got := state.Int().Items(); len(got) != 1 || got[0] != -6 {
		t.Fatalf("unexpected int stack %v", got)
	}
	if !state.Exec().IsEmpty() {
		t.Fatalf("expected exec consumed, got %d", state.Exec().Size())
	}
}

func TestRunSkipsRecoverableErrors(t *testing.T) {
	program := Program{
		IntLiteral(math.MaxInt64),
		IntInc,
		IntAdd,
		IntLiteral(1),
		IntSwap,
	}
	var recovered []error
	state, err := RunProgram(NewBuilder().WithMaxStackSize(50), program, RunOptions{
		OnRecoverable: func(err *InstructionError) { recovered = append(recovered, err.Err()) },
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(recovered) != 2 {
		t.Fatalf("expected inc overflow and add underflow, got %v", recovered)
	}
	var overflowErr *OverflowError
	if !errors.As(recovered[0], &overflowErr) || overflowErr.Op != IntInc {
		t.Fatalf("expected inc overflow first, got %v", recovered[0])
	}
	if got := state.Int().Items(); len(got) != 2 || got[0] != 1 || got[1] != math.MaxInt64 {
		t.Fatalf("unexpected int stack %v", got)
	}
}

func TestRunResumesAfterAddOverflow(t *testing.T) {
	const x, y = 4_098_586_571_925_584_936, 5_124_785_464_929_190_872
	program := Program{IntLiteral(y), IntLiteral(x), IntAdd, IntLiteral(2)}
	var failed []State
	state, err := RunProgram(NewBuilder().WithMaxStackSize(50), program, RunOptions{
		OnRecoverable: func(err *InstructionError) { failed = append(failed, err.State().Clone()) },
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("expected one recovered failure, got %d", len(failed))
	}
	prior := failed[0]
	if got := prior.Int().Items(); len(got) != 2 || got[0] != y || got[1] != x {
		t.Fatalf("unexpected state at failure %v", got)
	}
	if got := state.Int().Items(); len(got) != 3 || got[0] != y || got[1] != x || got[2] != 2 {
		t.Fatalf("unexpected int stack %v", got)
	}
}

func TestRunStopsOnFatalError(t *testing.T) {
	program := Program{IntLiteral(1), Input{Name: "missing"}, IntLiteral(2)}
	state, err := RunProgram(NewBuilder(), program, RunOptions{})
	if !errors.Is(err, ErrUnboundInput) {
		t.Fatalf("expected ErrUnboundInput, got %v", err)
	}
	var instructionErr *InstructionError
	if !errors.As(err, &instructionErr) || instructionErr.IsRecoverable() {
		t.Fatalf("expected fatal instruction error, got %v", err)
	}
	if state.Int().Size() != 1 || state.Exec().Size() != 1 {
		t.Fatalf("expected state at failure, ints=%d exec=%d", state.Int().Size(), state.Exec().Size())
	}
}

func TestRunStepLimit(t *testing.T) {
	program := Program{IntLiteral(1), IntLiteral(2), IntLiteral(3)}
	state, err := RunProgram(NewBuilder(), program, RunOptions{StepLimit: 2})
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("expected ErrStepLimit, got %v", err)
	}
	if state.Int().Size() != 2 {
		t.Fatalf("expected two executed steps, got %d", state.Int().Size())
	}
}

func TestRunBindsInputs(t *testing.T) {
	builder := NewBuilder().
		WithIntInput("x", 6).
		WithBoolInput("flag", true).
		WithFloatInput("f", 0.5)
	program := Program{Input{Name: "x"}, Input{Name: "x"}, IntMultiply, Input{Name: "flag"}, Input{Name: "f"}}
	state, err := RunProgram(builder, program, RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if top, _ := state.Int().Top(); top != 36 {
		t.Fatalf("expected 36, got %d", top)
	}
	if top, _ := state.Bool().Top(); !top {
		t.Fatal("expected flag on bool stack")
	}
	if top, _ := state.Float().Top(); top != 0.5 {
		t.Fatalf("expected 0.5 on float stack, got %v", top)
	}
}

func TestBoolAndFloatInstructions(t *testing.T) {
	program := Program{
		BoolLiteral(true), BoolLiteral(false), BoolOr, BoolNot,
		FloatLiteral(0), IntLiteral(3), FloatFromInt, FloatProtectedDivide,
	}
	state, err := RunProgram(NewBuilder(), program, RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if top, _ := state.Bool().Top(); top {
		t.Fatal("expected not(false or true) = false")
	}
	if top, _ := state.Float().Top(); top != 1 {
		t.Fatalf("expected protected divide by zero to give 1, got %v", top)
	}
}

func TestFloatOverflowIsRecoverable(t *testing.T) {
	state := emptyState(t)
	_ = state.PushFloat(math.MaxFloat64)
	_ = state.PushFloat(math.MaxFloat64)
	_, err := FloatMultiply.Perform(state)
	var instructionErr *InstructionError
	if !errors.As(err, &instructionErr) || !instructionErr.IsRecoverable() {
		t.Fatalf("expected recoverable overflow, got %v", err)
	}
	prior := instructionErr.State()
	if prior.Float().Size() != 2 {
		t.Fatal("expected float operands restored")
	}
}
