package storage

import (
	"bytes"
	"errors"
	"slices"
	"testing"
	"time"
)

func sampleRun(id string, offset time.Duration) RunRecord {
	return Stamp(RunRecord{
		ID:        id,
		Problem:   "hiff",
		Seed:      42,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC).Add(offset),
		Elapsed:   1500 * time.Millisecond,
		Settings: RunSettings{
			PopulationSize: 100,
			Generations:    2,
			Selection:      "tournament",
			TournamentSize: 2,
			Crossover:      "two-point",
			Mode:           "parallel",
			Workers:        4,
			Bits:           8,
		},
		BestByGeneration: []int64{12, 18, 32},
		Diagnostics: []GenerationRecord{
			{Generation: 0, BestTotal: 12, MeanTotal: 7.25, MinTotal: 3, PopulationSize: 100, DistinctGenomes: 98},
			{Generation: 1, BestTotal: 18, MeanTotal: 10.5, MinTotal: 4, PopulationSize: 100, DistinctGenomes: 90},
			{Generation: 2, BestTotal: 32, MeanTotal: 14.125, MinTotal: 6, PopulationSize: 100, DistinctGenomes: 77},
		},
		Best:          IndividualRecord{Genome: "11111111", Results: []int64{1, 1, 2, 1, 1, 2, 4}, Total: 32},
		TargetReached: true,
	})
}

func TestRunCodecRoundTrip(t *testing.T) {
	run := sampleRun("run-1", 0)
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != run.ID || decoded.Seed != run.Seed || decoded.Settings != run.Settings {
		t.Fatalf("unexpected run: %+v", decoded)
	}
	if !decoded.CreatedAt.Equal(run.CreatedAt) || decoded.Elapsed != run.Elapsed {
		t.Fatalf("time fields changed: %v %v", decoded.CreatedAt, decoded.Elapsed)
	}
	if !slices.Equal(decoded.BestByGeneration, run.BestByGeneration) || !slices.Equal(decoded.Diagnostics, run.Diagnostics) {
		t.Fatalf("series changed: %+v", decoded)
	}
	if decoded.Best.Genome != run.Best.Genome || !slices.Equal(decoded.Best.Results, run.Best.Results) {
		t.Fatalf("best changed: %+v", decoded.Best)
	}
}

func TestRunCodecIsCanonical(t *testing.T) {
	a, err := EncodeRun(sampleRun("run-1", 0))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := EncodeRun(sampleRun("run-1", 0))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("equal records encoded differently")
	}
}

func TestDecodeRunRejectsVersionMismatch(t *testing.T) {
	run := sampleRun("run-1", 0)
	run.SchemaVersion = CurrentSchemaVersion + 1
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
	if _, err := DecodeRun([]byte{0xff, 0x00}); err == nil {
		t.Fatal("expected garbage payload to fail")
	}
}

func TestRunCodecKeepsHoldout(t *testing.T) {
	run := sampleRun("run-holdout", 0)
	run.Holdout = &IndividualRecord{Genome: "[int_add]", Results: []int64{-1, -2}, Total: -3}
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Holdout == nil || decoded.Holdout.Total != -3 || !slices.Equal(decoded.Holdout.Results, run.Holdout.Results) {
		t.Fatalf("holdout changed: %+v", decoded.Holdout)
	}

	plain, err := EncodeRun(sampleRun("run-plain", 0))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err = DecodeRun(plain)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Holdout != nil {
		t.Fatalf("expected no holdout, got %+v", decoded.Holdout)
	}
}
