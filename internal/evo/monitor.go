package evo

import (
	"context"
	"fmt"
	"time"

	"github.com/tliron/commonlog"

	"evopush/internal/model"
)

var log = commonlog.GetLogger("evopush.evo")

type GenerationDiagnostics struct {
	Generation      int           `json:"generation"`
	BestTotal       int64         `json:"best_total"`
	MeanTotal       float64       `json:"mean_total"`
	MinTotal        int64         `json:"min_total"`
	PopulationSize  int           `json:"population_size"`
	DistinctGenomes int           `json:"distinct_genomes"`
	Duration        time.Duration `json:"duration_ns"`
}

// Observer is notified after every scored generation.
type Observer interface {
	ObserveGeneration(d GenerationDiagnostics)
}

type MonitorConfig struct {
	Generations int
	Parallel    bool
	// TargetTotal stops the run early once the best total reaches it.
	TargetTotal *int64
	Observers   []Observer
	// InitialDuration is reported as the duration of generation 0, the time
	// the caller spent building the initial population.
	InitialDuration time.Duration
}

type RunResult[G any] struct {
	BestByGeneration      []int64
	GenerationDiagnostics []GenerationDiagnostics
	Best                  model.Individual[G]
	FinalPopulation       model.Population[G]
	// Generations counts the populations scored, including the initial one.
	Generations int
}

// Evolve advances initial for cfg.Generations transitions and records the
// best total of every population it visits.
func Evolve[G any](ctx context.Context, initial *Generation[G], cfg MonitorConfig) (RunResult[G], error) {
	if initial == nil {
		return RunResult[G]{}, fmt.Errorf("initial generation is required")
	}
	if cfg.Generations < 0 {
		return RunResult[G]{}, fmt.Errorf("generations must be >= 0")
	}
	if initial.Population().IsEmpty() {
		return RunResult[G]{}, model.ErrEmptyPopulation
	}

	result := RunResult[G]{
		BestByGeneration:      make([]int64, 0, cfg.Generations+1),
		GenerationDiagnostics: make([]GenerationDiagnostics, 0, cfg.Generations+1),
	}
	current := initial
	elapsed := cfg.InitialDuration
	for gen := 0; ; gen++ {
		d := summarizeGeneration(current.Population(), gen, elapsed)
		result.BestByGeneration = append(result.BestByGeneration, d.BestTotal)
		result.GenerationDiagnostics = append(result.GenerationDiagnostics, d)
		for _, o := range cfg.Observers {
			o.ObserveGeneration(d)
		}
		log.Debugf("generation %d: best=%d mean=%.2f min=%d distinct=%d", gen, d.BestTotal, d.MeanTotal, d.MinTotal, d.DistinctGenomes)

		if gen >= cfg.Generations {
			break
		}
		if cfg.TargetTotal != nil && d.BestTotal >= *cfg.TargetTotal {
			log.Infof("target total %d reached at generation %d", *cfg.TargetTotal, gen)
			break
		}

		started := time.Now()
		var err error
		if cfg.Parallel {
			current, err = current.ParNext(ctx)
		} else {
			current, err = current.SerialNext(ctx)
		}
		if err != nil {
			return RunResult[G]{}, fmt.Errorf("generation %d: %w", gen+1, err)
		}
		elapsed = time.Since(started)
	}

	result.FinalPopulation = *current.Population()
	result.Best = *model.Best(current.Population())
	result.Generations = len(result.BestByGeneration)
	return result, nil
}

func summarizeGeneration[G any](pop *model.Population[G], generation int, elapsed time.Duration) GenerationDiagnostics {
	d := GenerationDiagnostics{Generation: generation, PopulationSize: pop.Size(), Duration: elapsed}
	if pop.IsEmpty() {
		return d
	}

	var sum float64
	d.BestTotal = pop.At(0).Total()
	d.MinTotal = d.BestTotal
	seen := make(map[string]struct{}, pop.Size())
	for i := 0; i < pop.Size(); i++ {
		ind := pop.At(i)
		total := ind.Total()
		sum += float64(total)
		d.BestTotal = max(d.BestTotal, total)
		d.MinTotal = min(d.MinTotal, total)
		seen[fmt.Sprint(ind.Genome())] = struct{}{}
	}
	d.MeanTotal = sum / float64(pop.Size())
	d.DistinctGenomes = len(seen)
	return d
}
