package push

import (
	"fmt"
	"math"
)

type FloatInstruction int

const (
	FloatAdd FloatInstruction = iota
	FloatSubtract
	FloatMultiply
	FloatProtectedDivide
	FloatFromInt
	floatInstructionCount
)

var floatInstructionNames = [...]string{
	FloatAdd:             "float_add",
	FloatSubtract:        "float_subtract",
	FloatMultiply:        "float_multiply",
	FloatProtectedDivide: "float_protected_divide",
	FloatFromInt:         "float_from_int",
}

func FloatInstructions() []FloatInstruction {
	all := make([]FloatInstruction, 0, floatInstructionCount)
	for op := FloatInstruction(0); op < floatInstructionCount; op++ {
		all = append(all, op)
	}
	return all
}

func (op FloatInstruction) String() string {
	if op < 0 || op >= floatInstructionCount {
		return fmt.Sprintf("float_instruction(%d)", int(op))
	}
	return floatInstructionNames[op]
}

// Perform treats a non-finite result as a recoverable overflow.
func (op FloatInstruction) Perform(state State) (State, error) {
	switch op {
	case FloatAdd:
		return op.binary(state, func(x, y float64) float64 { return x + y })
	case FloatSubtract:
		return op.binary(state, func(x, y float64) float64 { return x - y })
	case FloatMultiply:
		return op.binary(state, func(x, y float64) float64 { return x * y })
	case FloatProtectedDivide:
		return op.binary(state, func(x, y float64) float64 {
			if y == 0 {
				return 1
			}
			return x / y
		})
	case FloatFromInt:
		x, err := state.ints.Top()
		if err != nil {
			return fail(state, err)
		}
		state.ints.drop(1)
		state.floats.push(float64(x))
		return state, nil
	default:
		return fail(state, fmt.Errorf("unknown float instruction %d", int(op)))
	}
}

func (op FloatInstruction) binary(state State, f func(x, y float64) float64) (State, error) {
	x, y, err := state.floats.Top2()
	if err != nil {
		return fail(state, err)
	}
	result := f(x, y)
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return overflow(state, op)
	}
	state.floats.replaceTop(2, result)
	return state, nil
}
