package linear

import (
	"math/rand/v2"
	"strings"
)

// Bitstring is the linear genome used for direct optimization problems.
type Bitstring []bool

func MakeRandomBitstring(length int, rng *rand.Rand) Bitstring {
	bits := make(Bitstring, length)
	for i := range bits {
		bits[i] = rng.IntN(2) == 0
	}
	return bits
}

func Flip(bit bool, _ *rand.Rand) bool {
	return !bit
}

// FlipWithRate flips each bit with probability rate. Rate 0 returns an equal
// copy and rate 1 the exact complement.
func FlipWithRate(bits Bitstring, rate float64, rng *rand.Rand) Bitstring {
	return MutateWithRate[bool](bits, rate, Flip, rng)
}

func FlipOneOverLength(bits Bitstring, rng *rand.Rand) Bitstring {
	return MutateOneOverLength[bool](bits, Flip, rng)
}

func (b Bitstring) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, bit := range b {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ParseBitstring reads the 0/1 form produced by String.
func ParseBitstring(s string) (Bitstring, bool) {
	bits := make(Bitstring, len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			bits[i] = true
		default:
			return nil, false
		}
	}
	return bits, true
}
