package push

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
)

func TestToProgramDecodesGenes(t *testing.T) {
	genome := Plushy{"int:3", "in:x", "int_add", "bool:true", "float:2.5", "bool_not"}
	program, err := ToProgram(genome)
	if err != nil {
		t.Fatalf("to program: %v", err)
	}
	want := Program{IntLiteral(3), Input{Name: "x"}, IntAdd, BoolLiteral(true), FloatLiteral(2.5), BoolNot}
	if len(program) != len(want) {
		t.Fatalf("expected %d instructions, got %d", len(want), len(program))
	}
	for i := range want {
		if program[i] != want[i] {
			t.Fatalf("instruction %d: expected %v, got %v", i, want[i], program[i])
		}
	}
	if got := FromProgram(program); got.String() != genome.String() {
		t.Fatalf("round trip mismatch: %q vs %q", got, genome)
	}
}

func TestToProgramRejectsMalformedGenes(t *testing.T) {
	for _, gene := range []Gene{"int_nope", "int:1.5", "bool:maybe", "in:", "float:x"} {
		_, err := ToProgram(Plushy{"int:1", gene})
		if !errors.Is(err, ErrMalformedGenome) {
			t.Fatalf("%q: expected ErrMalformedGenome, got %v", gene, err)
		}
		if !strings.Contains(err.Error(), "gene 1") {
			t.Fatalf("%q: expected position in error, got %v", gene, err)
		}
	}
}

func TestParsePlushy(t *testing.T) {
	genome := ParsePlushy(" int:1  int_inc ")
	if len(genome) != 2 || genome[1] != "int_inc" {
		t.Fatalf("unexpected genome %v", genome)
	}
}

func TestGeneGeneratorProducesDecodableGenes(t *testing.T) {
	gen := DefaultGeneGenerator("x", "y")
	rng := rand.New(rand.NewPCG(5, 5))
	genome := gen.Genome(200, rng)
	if len(genome) != 200 {
		t.Fatalf("expected 200 genes, got %d", len(genome))
	}
	program, err := ToProgram(genome)
	if err != nil {
		t.Fatalf("to program: %v", err)
	}
	for _, instruction := range program {
		if lit, ok := instruction.(IntLiteral); ok && (lit < -100 || lit > 100) {
			t.Fatalf("literal out of range: %d", lit)
		}
	}
}

func TestGeneGeneratorLiteralOnly(t *testing.T) {
	gen := GeneGenerator{IntMin: 5, IntMax: 5}
	if gene := gen.Gene(rand.New(rand.NewPCG(1, 1))); gene != "int:5" {
		t.Fatalf("expected int:5, got %q", gene)
	}
}

func TestRegistry(t *testing.T) {
	if err := RegisterInstruction("int_add", IntAdd); !errors.Is(err, ErrInstructionExists) {
		t.Fatalf("expected ErrInstructionExists, got %v", err)
	}
	if err := RegisterInstruction("bad:name", IntAdd); err == nil {
		t.Fatal("expected error for name containing ':'")
	}
	if _, err := LookupInstruction("nope"); !errors.Is(err, ErrInstructionNotFound) {
		t.Fatalf("expected ErrInstructionNotFound, got %v", err)
	}

	if err := RegisterInstruction("test_double", IntDup); err != nil {
		t.Fatalf("register: %v", err)
	}
	t.Cleanup(func() { unregisterInstructionForTests("test_double") })
	program, err := ToProgram(Plushy{"int:4", "test_double", "int_add"})
	if err != nil {
		t.Fatalf("to program: %v", err)
	}
	state, err := RunProgram(NewBuilder(), program, RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if top, _ := state.Int().Top(); top != 8 {
		t.Fatalf("expected 8, got %d", top)
	}

	names := ListInstructions("int_")
	if len(names) != len(IntInstructions()) {
		t.Fatalf("expected %d int instructions, got %d", len(IntInstructions()), len(names))
	}
}
