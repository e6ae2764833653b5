package push

import (
	"fmt"
	"math"
)

// IntInstruction is the integer instruction family. Binary instructions use
// x for the top of the int stack and y for the item beneath it and compute
// x op y.
type IntInstruction int

const (
	IntAdd IntInstruction = iota
	IntSubtract
	IntMultiply
	IntProtectedDivide
	IntMod
	IntInc
	IntDec
	IntNegate
	IntAbs
	IntSquare
	IntMin
	IntMax
	IntIsZero
	IntIsEven
	IntEqual
	IntLessThan
	IntGreaterThan
	IntDup
	IntSwap
	IntPop
	intInstructionCount
)

var intInstructionNames = [...]string{
	IntAdd:             "int_add",
	IntSubtract:        "int_subtract",
	IntMultiply:        "int_multiply",
	IntProtectedDivide: "int_protected_divide",
	IntMod:             "int_mod",
	IntInc:             "int_inc",
	IntDec:             "int_dec",
	IntNegate:          "int_negate",
	IntAbs:             "int_abs",
	IntSquare:          "int_square",
	IntMin:             "int_min",
	IntMax:             "int_max",
	IntIsZero:          "int_is_zero",
	IntIsEven:          "int_is_even",
	IntEqual:           "int_equal",
	IntLessThan:        "int_less_than",
	IntGreaterThan:     "int_greater_than",
	IntDup:             "int_dup",
	IntSwap:            "int_swap",
	IntPop:             "int_pop",
}

// IntInstructions lists every integer instruction.
func IntInstructions() []IntInstruction {
	all := make([]IntInstruction, 0, intInstructionCount)
	for op := IntInstruction(0); op < intInstructionCount; op++ {
		all = append(all, op)
	}
	return all
}

func (op IntInstruction) String() string {
	if op < 0 || op >= intInstructionCount {
		return fmt.Sprintf("int_instruction(%d)", int(op))
	}
	return intInstructionNames[op]
}

func (op IntInstruction) Perform(state State) (State, error) {
	switch op {
	case IntAdd:
		return op.binary(state, checkedAdd)
	case IntSubtract:
		return op.binary(state, checkedSub)
	case IntMultiply:
		return op.binary(state, checkedMul)
	case IntProtectedDivide:
		return op.binary(state, protectedDiv)
	case IntMod:
		return op.binary(state, protectedMod)
	case IntMin:
		return op.binary(state, func(x, y int64) (int64, bool) { return min(x, y), true })
	case IntMax:
		return op.binary(state, func(x, y int64) (int64, bool) { return max(x, y), true })
	case IntInc:
		return op.unary(state, func(x int64) (int64, bool) { return x + 1, x != math.MaxInt64 })
	case IntDec:
		return op.unary(state, func(x int64) (int64, bool) { return x - 1, x != math.MinInt64 })
	case IntNegate:
		return op.unary(state, func(x int64) (int64, bool) { return -x, x != math.MinInt64 })
	case IntAbs:
		return op.unary(state, checkedAbs)
	case IntSquare:
		return op.unary(state, func(x int64) (int64, bool) { return checkedMul(x, x) })
	case IntIsZero:
		return op.predicate(state, func(x int64) bool { return x == 0 })
	case IntIsEven:
		return op.predicate(state, func(x int64) bool { return x%2 == 0 })
	case IntEqual:
		return op.compare(state, func(x, y int64) bool { return x == y })
	case IntLessThan:
		return op.compare(state, func(x, y int64) bool { return x < y })
	case IntGreaterThan:
		return op.compare(state, func(x, y int64) bool { return x > y })
	case IntDup:
		x, err := state.ints.Top()
		if err != nil {
			return fail(state, err)
		}
		if err := state.PushInt(x); err != nil {
			return fail(state, err)
		}
		return state, nil
	case IntSwap:
		x, y, err := state.ints.Top2()
		if err != nil {
			return fail(state, err)
		}
		state.ints.drop(2)
		state.ints.push(x)
		state.ints.push(y)
		return state, nil
	case IntPop:
		if _, err := state.ints.Pop(); err != nil {
			return fail(state, err)
		}
		return state, nil
	default:
		return fail(state, fmt.Errorf("unknown int instruction %d", int(op)))
	}
}

func (op IntInstruction) binary(state State, f func(x, y int64) (int64, bool)) (State, error) {
	x, y, err := state.ints.Top2()
	if err != nil {
		return fail(state, err)
	}
	result, ok := f(x, y)
	if !ok {
		return overflow(state, op)
	}
	state.ints.replaceTop(2, result)
	return state, nil
}

func (op IntInstruction) unary(state State, f func(x int64) (int64, bool)) (State, error) {
	x, err := state.ints.Top()
	if err != nil {
		return fail(state, err)
	}
	result, ok := f(x)
	if !ok {
		return overflow(state, op)
	}
	state.ints.replaceTop(1, result)
	return state, nil
}

func (op IntInstruction) predicate(state State, f func(x int64) bool) (State, error) {
	x, err := state.ints.Top()
	if err != nil {
		return fail(state, err)
	}
	state.ints.drop(1)
	state.bools.push(f(x))
	return state, nil
}

func (op IntInstruction) compare(state State, f func(x, y int64) bool) (State, error) {
	x, y, err := state.ints.Top2()
	if err != nil {
		return fail(state, err)
	}
	state.ints.drop(2)
	state.bools.push(f(x, y))
	return state, nil
}

func checkedAdd(x, y int64) (int64, bool) {
	r := x + y
	if (x > 0 && y > 0 && r < 0) || (x < 0 && y < 0 && r >= 0) {
		return 0, false
	}
	return r, true
}

func checkedSub(x, y int64) (int64, bool) {
	r := x - y
	if (x >= 0 && y < 0 && r < 0) || (x < 0 && y > 0 && r >= 0) {
		return 0, false
	}
	return r, true
}

func checkedMul(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	if (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return 0, false
	}
	r := x * y
	if r/y != x {
		return 0, false
	}
	return r, true
}

func checkedAbs(x int64) (int64, bool) {
	if x == math.MinInt64 {
		return 0, false
	}
	if x < 0 {
		return -x, true
	}
	return x, true
}

// protectedDiv returns 1 for a zero divisor.
func protectedDiv(x, y int64) (int64, bool) {
	if y == 0 {
		return 1, true
	}
	if x == math.MinInt64 && y == -1 {
		return 0, false
	}
	return x / y, true
}

// protectedMod returns 0 for a zero divisor.
func protectedMod(x, y int64) (int64, bool) {
	if y == 0 {
		return 0, true
	}
	if x == math.MinInt64 && y == -1 {
		return 0, false
	}
	return x % y, true
}
