// Package config loads run configuration files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"evopush/internal/evo"
	"evopush/internal/push"
	"evopush/internal/scape"
)

const (
	CrossoverTwoPoint = "two-point"
	CrossoverUniform  = "uniform"

	ModeSerial   = "serial"
	ModeParallel = "parallel"
)

var ErrUnsupportedFormat = errors.New("unsupported config format")

// RunConfig describes one evolution run. Zero values in a file keep the
// defaults only for keys that are absent.
type RunConfig struct {
	Problem        string `toml:"problem" yaml:"problem" json:"problem"`
	PopulationSize int    `toml:"population_size" yaml:"population_size" json:"population_size"`
	Generations    int    `toml:"generations" yaml:"generations" json:"generations"`
	Seed           uint64 `toml:"seed" yaml:"seed" json:"seed"`
	Workers        int    `toml:"workers" yaml:"workers" json:"workers"`
	Mode           string `toml:"mode" yaml:"mode" json:"mode"`

	Selection      string `toml:"selection" yaml:"selection" json:"selection"`
	TournamentSize int    `toml:"tournament_size" yaml:"tournament_size" json:"tournament_size"`
	Crossover      string `toml:"crossover" yaml:"crossover" json:"crossover"`
	// TargetTotal stops a run once the best total reaches it.
	TargetTotal *int64 `toml:"target_total" yaml:"target_total" json:"target_total,omitempty"`

	// Bitstring problems.
	Bits int `toml:"bits" yaml:"bits" json:"bits"`

	// Push problems.
	GenomeLength int   `toml:"genome_length" yaml:"genome_length" json:"genome_length"`
	Cases        int   `toml:"cases" yaml:"cases" json:"cases"`
	MaxStackSize int   `toml:"max_stack_size" yaml:"max_stack_size" json:"max_stack_size"`
	StepLimit    int   `toml:"step_limit" yaml:"step_limit" json:"step_limit"`
	Penalty      int64 `toml:"penalty" yaml:"penalty" json:"penalty"`
	// HoldoutCases is the number of fresh cases used to rescore the final
	// population; 0 disables it.
	HoldoutCases int   `toml:"holdout_cases" yaml:"holdout_cases" json:"holdout_cases"`
}

func Default() RunConfig {
	return RunConfig{
		Problem:        scape.HiffName,
		PopulationSize: 200,
		Generations:    100,
		Mode:           ModeParallel,
		Selection:      "tournament",
		TournamentSize: 2,
		Crossover:      CrossoverTwoPoint,
		Bits:           128,
		GenomeLength:   40,
		Cases:          20,
		MaxStackSize:   push.DefaultMaxStackSize,
		StepLimit:      200,
		Penalty:        scape.DefaultMedianPenalty,
		HoldoutCases:   20,
	}
}

// Load reads path over the defaults. The format follows the extension:
// .toml, .yaml, .yml or .json.
func Load(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, err
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return RunConfig{}, fmt.Errorf("decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return RunConfig{}, fmt.Errorf("decode %s: unknown key %s", path, undecoded[0])
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return RunConfig{}, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".json":
		dec := json.NewDecoder(strings.NewReader(string(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return RunConfig{}, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return RunConfig{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and normalizes the problem name.
func (c *RunConfig) Validate() error {
	name, kind, err := scape.ProblemKind(c.Problem)
	if err != nil {
		return err
	}
	c.Problem = name

	if c.PopulationSize <= 0 {
		return fmt.Errorf("population size must be > 0")
	}
	if c.Generations < 0 {
		return fmt.Errorf("generations must be >= 0")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	if c.Mode != ModeSerial && c.Mode != ModeParallel {
		return fmt.Errorf("mode must be %s or %s: %q", ModeSerial, ModeParallel, c.Mode)
	}
	if !slices.Contains(evo.ListSelectors(), c.Selection) {
		return fmt.Errorf("%w: %s", evo.ErrSelectorNotFound, c.Selection)
	}
	if c.TournamentSize < 0 {
		return fmt.Errorf("tournament size must be >= 0")
	}
	if c.Crossover != CrossoverTwoPoint && c.Crossover != CrossoverUniform {
		return fmt.Errorf("crossover must be %s or %s: %q", CrossoverTwoPoint, CrossoverUniform, c.Crossover)
	}

	switch kind {
	case scape.KindBitstring:
		if c.Bits <= 0 {
			return fmt.Errorf("bits must be > 0")
		}
	case scape.KindPlushy:
		if c.GenomeLength <= 0 {
			return fmt.Errorf("genome length must be > 0")
		}
		if c.Cases <= 0 {
			return fmt.Errorf("cases must be > 0")
		}
		if c.MaxStackSize <= 0 {
			return fmt.Errorf("max stack size must be > 0")
		}
		if c.GenomeLength > c.MaxStackSize {
			return fmt.Errorf("genome length %d exceeds max stack size %d", c.GenomeLength, c.MaxStackSize)
		}
		if c.StepLimit < 0 {
			return fmt.Errorf("step limit must be >= 0")
		}
		if c.Penalty < 0 {
			return fmt.Errorf("penalty must be >= 0")
		}
		if c.HoldoutCases < 0 {
			return fmt.Errorf("holdout cases must be >= 0")
		}
	}
	return nil
}
