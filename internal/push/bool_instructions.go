package push

import "fmt"

type BoolInstruction int

const (
	BoolAnd BoolInstruction = iota
	BoolOr
	BoolNot
	BoolXor
	BoolEqual
	BoolDup
	BoolPop
	BoolFromInt
	boolInstructionCount
)

var boolInstructionNames = [...]string{
	BoolAnd:     "bool_and",
	BoolOr:      "bool_or",
	BoolNot:     "bool_not",
	BoolXor:     "bool_xor",
	BoolEqual:   "bool_equal",
	BoolDup:     "bool_dup",
	BoolPop:     "bool_pop",
	BoolFromInt: "bool_from_int",
}

func BoolInstructions() []BoolInstruction {
	all := make([]BoolInstruction, 0, boolInstructionCount)
	for op := BoolInstruction(0); op < boolInstructionCount; op++ {
		all = append(all, op)
	}
	return all
}

func (op BoolInstruction) String() string {
	if op < 0 || op >= boolInstructionCount {
		return fmt.Sprintf("bool_instruction(%d)", int(op))
	}
	return boolInstructionNames[op]
}

func (op BoolInstruction) Perform(state State) (State, error) {
	switch op {
	case BoolAnd:
		return op.binary(state, func(x, y bool) bool { return x && y })
	case BoolOr:
		return op.binary(state, func(x, y bool) bool { return x || y })
	case BoolXor:
		return op.binary(state, func(x, y bool) bool { return x != y })
	case BoolEqual:
		return op.binary(state, func(x, y bool) bool { return x == y })
	case BoolNot:
		x, err := state.bools.Top()
		if err != nil {
			return fail(state, err)
		}
		state.bools.replaceTop(1, !x)
		return state, nil
	case BoolDup:
		x, err := state.bools.Top()
		if err != nil {
			return fail(state, err)
		}
		if err := state.PushBool(x); err != nil {
			return fail(state, err)
		}
		return state, nil
	case BoolPop:
		if _, err := state.bools.Pop(); err != nil {
			return fail(state, err)
		}
		return state, nil
	case BoolFromInt:
		x, err := state.ints.Top()
		if err != nil {
			return fail(state, err)
		}
		state.ints.drop(1)
		state.bools.push(x != 0)
		return state, nil
	default:
		return fail(state, fmt.Errorf("unknown bool instruction %d", int(op)))
	}
}

func (op BoolInstruction) binary(state State, f func(x, y bool) bool) (State, error) {
	x, y, err := state.bools.Top2()
	if err != nil {
		return fail(state, err)
	}
	state.bools.replaceTop(2, f(x, y))
	return state, nil
}
