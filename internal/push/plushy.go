package push

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	intPrefix   = "int:"
	boolPrefix  = "bool:"
	floatPrefix = "float:"
	inputPrefix = "in:"
)

var ErrMalformedGenome = errors.New("malformed genome")

// Gene is one token of a Plushy genome: a registered instruction name, a
// literal (int:7, bool:true, float:0.5) or an input reference (in:x).
type Gene string

// Plushy is a flat gene sequence that decodes into a Program.
type Plushy []Gene

// ParseGene decodes a single gene.
func ParseGene(gene Gene) (Instruction, error) {
	token := string(gene)
	switch {
	case strings.HasPrefix(token, intPrefix):
		v, err := strconv.ParseInt(strings.TrimPrefix(token, intPrefix), 10, 64)
		if err != nil {
			return nil, err
		}
		return IntLiteral(v), nil
	case strings.HasPrefix(token, boolPrefix):
		v, err := strconv.ParseBool(strings.TrimPrefix(token, boolPrefix))
		if err != nil {
			return nil, err
		}
		return BoolLiteral(v), nil
	case strings.HasPrefix(token, floatPrefix):
		v, err := strconv.ParseFloat(strings.TrimPrefix(token, floatPrefix), 64)
		if err != nil {
			return nil, err
		}
		return FloatLiteral(v), nil
	case strings.HasPrefix(token, inputPrefix):
		name := strings.TrimPrefix(token, inputPrefix)
		if name == "" {
			return nil, errors.New("input name is required")
		}
		return Input{Name: name}, nil
	default:
		return LookupInstruction(token)
	}
}

// ToProgram decodes genome. Any gene that does not decode fails the whole
// conversion.
func ToProgram(genome Plushy) (Program, error) {
	program := make(Program, 0, len(genome))
	for i, gene := range genome {
		instruction, err := ParseGene(gene)
		if err != nil {
			return nil, fmt.Errorf("%w: gene %d %q: %v", ErrMalformedGenome, i, gene, err)
		}
		program = append(program, instruction)
	}
	return program, nil
}

// FromProgram encodes program as genes.
func FromProgram(program Program) Plushy {
	genome := make(Plushy, len(program))
	for i, instruction := range program {
		genome[i] = Gene(instruction.String())
	}
	return genome
}

func (p Plushy) String() string {
	parts := make([]string, len(p))
	for i, gene := range p {
		parts[i] = string(gene)
	}
	return strings.Join(parts, " ")
}

// ParsePlushy splits the space-separated form produced by String.
func ParsePlushy(s string) Plushy {
	fields := strings.Fields(s)
	genome := make(Plushy, len(fields))
	for i, f := range fields {
		genome[i] = Gene(f)
	}
	return genome
}

// GeneGenerator draws random genes for initial genomes and mutation.
type GeneGenerator struct {
	Instructions []string
	Inputs       []string
	// LiteralProbability is the chance of drawing an int literal in
	// [IntMin, IntMax] instead of an instruction or input.
	LiteralProbability float64
	IntMin             int64
	IntMax             int64
}

// DefaultGeneGenerator draws from the registered int and bool instructions
// plus the given inputs.
func DefaultGeneGenerator(inputs ...string) GeneGenerator {
	instructions := append(ListInstructions("int_"), ListInstructions("bool_")...)
	return GeneGenerator{
		Instructions:       instructions,
		Inputs:             inputs,
		LiteralProbability: 0.1,
		IntMin:             -100,
		IntMax:             100,
	}
}

func (g GeneGenerator) Gene(rng *rand.Rand) Gene {
	choices := len(g.Instructions) + len(g.Inputs)
	if choices == 0 || rng.Float64() < g.LiteralProbability {
		return g.literal(rng)
	}
	i := rng.IntN(choices)
	if i < len(g.Instructions) {
		return Gene(g.Instructions[i])
	}
	return Gene(inputPrefix + g.Inputs[i-len(g.Instructions)])
}

func (g GeneGenerator) literal(rng *rand.Rand) Gene {
	lo, hi := g.IntMin, g.IntMax
	if hi < lo {
		lo, hi = hi, lo
	}
	span := uint64(hi - lo)
	var v int64
	if span == ^uint64(0) {
		v = int64(rng.Uint64())
	} else {
		v = lo + int64(rng.Uint64N(span+1))
	}
	return Gene(intPrefix + strconv.FormatInt(v, 10))
}

func (g GeneGenerator) Genome(length int, rng *rand.Rand) Plushy {
	genome := make(Plushy, length)
	for i := range genome {
		genome[i] = g.Gene(rng)
	}
	return genome
}

// Replace ignores the current gene and draws a fresh one; it is the site
// replacement used by gene-level mutation.
func (g GeneGenerator) Replace(_ Gene, rng *rand.Rand) Gene {
	return g.Gene(rng)
}
