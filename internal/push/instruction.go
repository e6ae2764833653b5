package push

import (
	"fmt"
	"strconv"
	"strings"
)

// Instruction is one executable step. Perform takes ownership of state and
// returns either the next state or an *InstructionError holding state
// unchanged.
type Instruction interface {
	Perform(state State) (State, error)
	String() string
}

// Program is an ordered instruction sequence; the first instruction runs
// first.
type Program []Instruction

func (p Program) String() string {
	parts := make([]string, len(p))
	for i, instruction := range p {
		parts[i] = instruction.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

type IntLiteral int64

func (l IntLiteral) Perform(state State) (State, error) {
	if err := state.PushInt(int64(l)); err != nil {
		return fail(state, err)
	}
	return state, nil
}

func (l IntLiteral) String() string { return intPrefix + strconv.FormatInt(int64(l), 10) }

type BoolLiteral bool

func (l BoolLiteral) Perform(state State) (State, error) {
	if err := state.PushBool(bool(l)); err != nil {
		return fail(state, err)
	}
	return state, nil
}

func (l BoolLiteral) String() string { return boolPrefix + strconv.FormatBool(bool(l)) }

type FloatLiteral float64

func (l FloatLiteral) Perform(state State) (State, error) {
	if err := state.PushFloat(float64(l)); err != nil {
		return fail(state, err)
	}
	return state, nil
}

func (l FloatLiteral) String() string {
	return floatPrefix + strconv.FormatFloat(float64(l), 'g', -1, 64)
}

// Input pushes the value bound to Name onto the stack of its kind.
type Input struct {
	Name string
}

func (in Input) Perform(state State) (State, error) {
	v, ok := state.Input(in.Name)
	if !ok {
		return fail(state, fmt.Errorf("%w: %s", ErrUnboundInput, in.Name))
	}
	if err := v.push(&state); err != nil {
		return fail(state, err)
	}
	return state, nil
}

func (in Input) String() string { return inputPrefix + in.Name }
