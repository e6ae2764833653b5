package storage

import "time"

type VersionedRecord struct {
	SchemaVersion int `cbor:"schema_version" json:"schema_version"`
	CodecVersion  int `cbor:"codec_version" json:"codec_version"`
}

// RunSettings is the configuration a run was started with.
type RunSettings struct {
	PopulationSize int    `cbor:"population_size" json:"population_size"`
	Generations    int    `cbor:"generations" json:"generations"`
	Selection      string `cbor:"selection" json:"selection"`
	TournamentSize int    `cbor:"tournament_size,omitempty" json:"tournament_size,omitempty"`
	Crossover      string `cbor:"crossover" json:"crossover"`
	Mode           string `cbor:"mode" json:"mode"`
	Workers        int    `cbor:"workers" json:"workers"`
	Bits           int    `cbor:"bits,omitempty" json:"bits,omitempty"`
	GenomeLength   int    `cbor:"genome_length,omitempty" json:"genome_length,omitempty"`
	Cases          int    `cbor:"cases,omitempty" json:"cases,omitempty"`
	HoldoutCases   int    `cbor:"holdout_cases,omitempty" json:"holdout_cases,omitempty"`
}

type GenerationRecord struct {
	Generation      int     `cbor:"generation" json:"generation"`
	BestTotal       int64   `cbor:"best_total" json:"best_total"`
	MeanTotal       float64 `cbor:"mean_total" json:"mean_total"`
	MinTotal        int64   `cbor:"min_total" json:"min_total"`
	PopulationSize  int     `cbor:"population_size" json:"population_size"`
	DistinctGenomes int     `cbor:"distinct_genomes" json:"distinct_genomes"`
	DurationMillis  float64 `cbor:"duration_ms" json:"duration_ms"`
}

// IndividualRecord is the textual form of a scored genome.
type IndividualRecord struct {
	Genome  string  `cbor:"genome" json:"genome"`
	Results []int64 `cbor:"results" json:"results"`
	Total   int64   `cbor:"total" json:"total"`
}

type RunRecord struct {
	VersionedRecord
	ID               string             `cbor:"id" json:"id"`
	Problem          string             `cbor:"problem" json:"problem"`
	Seed             uint64             `cbor:"seed" json:"seed"`
	CreatedAt        time.Time          `cbor:"created_at" json:"created_at"`
	Elapsed          time.Duration      `cbor:"elapsed_ns" json:"elapsed_ns"`
	Settings         RunSettings        `cbor:"settings" json:"settings"`
	BestByGeneration []int64            `cbor:"best_by_generation" json:"best_by_generation"`
	Diagnostics      []GenerationRecord `cbor:"diagnostics" json:"diagnostics"`
	Best             IndividualRecord   `cbor:"best" json:"best"`
	TargetReached    bool               `cbor:"target_reached" json:"target_reached"`
	// Holdout is the best final individual rescored on unseen cases.
	Holdout          *IndividualRecord  `cbor:"holdout,omitempty" json:"holdout,omitempty"`
}

func (r RunRecord) Summary() RunSummary {
	return RunSummary{
		ID:          r.ID,
		Problem:     r.Problem,
		CreatedAt:   r.CreatedAt,
		Generations: len(r.BestByGeneration),
		BestTotal:   r.Best.Total,
	}
}

type RunSummary struct {
	ID          string    `json:"id"`
	Problem     string    `json:"problem"`
	CreatedAt   time.Time `json:"created_at"`
	Generations int       `json:"generations"`
	BestTotal   int64     `json:"best_total"`
}
