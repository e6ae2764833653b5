package push

import "errors"

type RunOptions struct {
	// StepLimit caps the number of instructions executed; 0 is unlimited.
	StepLimit int
	// OnRecoverable is called for each recoverable instruction error before
	// evaluation continues.
	OnRecoverable func(err *InstructionError)
}

// Run executes instructions from the exec stack until it is empty. A
// recoverable error discards the failing instruction and resumes from the
// state carried by the error. A fatal error stops evaluation and is returned
// with the state at failure.
func Run(state State, opts RunOptions) (State, error) {
	steps := 0
	for !state.exec.IsEmpty() {
		if opts.StepLimit > 0 && steps >= opts.StepLimit {
			return fail(state, ErrStepLimit)
		}
		instruction, _ := state.exec.Pop()
		steps++

		next, err := instruction.Perform(state)
		if err == nil {
			state = next
			continue
		}
		var instructionErr *InstructionError
		if !errors.As(err, &instructionErr) {
			return state, &InstructionError{state: state, err: err}
		}
		if !instructionErr.IsRecoverable() {
			return instructionErr.State(), instructionErr
		}
		if opts.OnRecoverable != nil {
			opts.OnRecoverable(instructionErr)
		}
		state = instructionErr.State()
	}
	return state, nil
}

// RunProgram builds a state from builder, loads program and runs it.
func RunProgram(builder *Builder, program Program, opts RunOptions) (State, error) {
	state, err := builder.WithProgram(program).Build()
	if err != nil {
		return State{}, err
	}
	return Run(state, opts)
}
