package push

import "fmt"

type ValueKind int

const (
	IntKind ValueKind = iota
	BoolKind
	FloatKind
)

func (k ValueKind) String() string {
	switch k {
	case IntKind:
		return "int"
	case BoolKind:
		return "bool"
	case FloatKind:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a typed input binding.
type Value struct {
	Kind  ValueKind
	Int   int64
	Bool  bool
	Float float64
}

func IntValue(v int64) Value     { return Value{Kind: IntKind, Int: v} }
func BoolValue(v bool) Value     { return Value{Kind: BoolKind, Bool: v} }
func FloatValue(v float64) Value { return Value{Kind: FloatKind, Float: v} }

func (v Value) String() string {
	switch v.Kind {
	case IntKind:
		return fmt.Sprint(v.Int)
	case BoolKind:
		return fmt.Sprint(v.Bool)
	case FloatKind:
		return fmt.Sprint(v.Float)
	default:
		return "?"
	}
}

// push places the value on the stack matching its kind.
func (v Value) push(s *State) error {
	switch v.Kind {
	case IntKind:
		return s.PushInt(v.Int)
	case BoolKind:
		return s.PushBool(v.Bool)
	case FloatKind:
		return s.PushFloat(v.Float)
	default:
		return fmt.Errorf("unknown value kind %v", v.Kind)
	}
}
