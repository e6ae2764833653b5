package push

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrInstructionExists   = errors.New("instruction already registered")
	ErrInstructionNotFound = errors.New("instruction not found")
)

var instructionRegistry = struct {
	mu sync.RWMutex
	m  map[string]Instruction
}{
	m: make(map[string]Instruction),
}

func init() {
	for _, op := range IntInstructions() {
		mustRegister(op)
	}
	for _, op := range BoolInstructions() {
		mustRegister(op)
	}
	for _, op := range FloatInstructions() {
		mustRegister(op)
	}
}

func mustRegister(instruction Instruction) {
	if err := RegisterInstruction(instruction.String(), instruction); err != nil {
		panic(err)
	}
}

// RegisterInstruction makes an instruction available to genome decoding
// under name.
func RegisterInstruction(name string, instruction Instruction) error {
	if name == "" {
		return errors.New("instruction name is required")
	}
	if strings.Contains(name, ":") {
		return fmt.Errorf("instruction name must not contain ':': %s", name)
	}
	if instruction == nil {
		return errors.New("instruction is required")
	}

	instructionRegistry.mu.Lock()
	defer instructionRegistry.mu.Unlock()

	if _, exists := instructionRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrInstructionExists, name)
	}
	instructionRegistry.m[name] = instruction
	return nil
}

func LookupInstruction(name string) (Instruction, error) {
	instructionRegistry.mu.RLock()
	instruction, ok := instructionRegistry.m[name]
	instructionRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInstructionNotFound, name)
	}
	return instruction, nil
}

// ListInstructions returns registered names with the given prefix, sorted.
// An empty prefix lists everything.
func ListInstructions(prefix string) []string {
	instructionRegistry.mu.RLock()
	defer instructionRegistry.mu.RUnlock()

	names := make([]string, 0, len(instructionRegistry.m))
	for name := range instructionRegistry.m {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func unregisterInstructionForTests(name string) {
	instructionRegistry.mu.Lock()
	defer instructionRegistry.mu.Unlock()
	delete(instructionRegistry.m, name)
}
