package stats

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"evopush/internal/storage"
)

const (
	runIndexFile       = "run_index.json"
	configFile         = "config.json"
	summaryFile        = "summary.json"
	seriesFile         = "best_series.csv"
	diagnosticsFile    = "generation_diagnostics.json"
	bestIndividualFile = "best_individual.json"
	holdoutFile        = "holdout_individual.json"
)

var artifactFiles = []string{configFile, summaryFile, seriesFile, diagnosticsFile, bestIndividualFile}

// optionalArtifactFiles are written only for runs that produce them.
var optionalArtifactFiles = []string{holdoutFile}

// RunConfig is the on-disk form of the settings a run used.
type RunConfig struct {
	RunID     string              `json:"run_id"`
	Problem   string              `json:"problem"`
	Seed      uint64              `json:"seed"`
	CreatedAt time.Time           `json:"created_at"`
	Settings  storage.RunSettings `json:"settings"`
}

// Summary condenses the best-per-generation series of a run.
type Summary struct {
	RunID         string  `json:"run_id"`
	Problem       string  `json:"problem"`
	Generations   int     `json:"generations"`
	InitialBest   int64   `json:"initial_best"`
	FinalBest     int64   `json:"final_best"`
	BestMax       int64   `json:"best_max"`
	BestMean      float64 `json:"best_mean"`
	BestStd       float64 `json:"best_std"`
	Improvement   int64   `json:"improvement"`
	TargetReached bool    `json:"target_reached"`
	ElapsedMS     int64   `json:"elapsed_ms"`
	HoldoutTotal  *int64  `json:"holdout_total,omitempty"`
}

type RunIndexEntry struct {
	RunID          string `json:"run_id"`
	Problem        string `json:"problem"`
	PopulationSize int    `json:"population_size"`
	Generations    int    `json:"generations"`
	Seed           uint64 `json:"seed"`
	Workers        int    `json:"workers"`
	FinalBestTotal int64  `json:"final_best_total"`
	CreatedAtUTC   string `json:"created_at_utc"`
}

func Summarize(run storage.RunRecord) Summary {
	s := Summary{
		RunID:         run.ID,
		Problem:       run.Problem,
		Generations:   len(run.BestByGeneration),
		TargetReached: run.TargetReached,
		ElapsedMS:     run.Elapsed.Milliseconds(),
	}
	if run.Holdout != nil {
		total := run.Holdout.Total
		s.HoldoutTotal = &total
	}
	if len(run.BestByGeneration) == 0 {
		return s
	}

	series := run.BestByGeneration
	s.InitialBest = series[0]
	s.FinalBest = series[len(series)-1]
	s.BestMax = series[0]
	var sum float64
	for _, v := range series {
		s.BestMax = max(s.BestMax, v)
		sum += float64(v)
	}
	s.BestMean = sum / float64(len(series))
	var sq float64
	for _, v := range series {
		d := float64(v) - s.BestMean
		sq += d * d
	}
	s.BestStd = math.Sqrt(sq / float64(len(series)))
	s.Improvement = s.FinalBest - s.InitialBest
	return s
}

func IndexEntry(run storage.RunRecord) RunIndexEntry {
	return RunIndexEntry{
		RunID:          run.ID,
		Problem:        run.Problem,
		PopulationSize: run.Settings.PopulationSize,
		Generations:    len(run.BestByGeneration),
		Seed:           run.Seed,
		Workers:        run.Settings.Workers,
		FinalBestTotal: run.Best.Total,
		CreatedAtUTC:   run.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// WriteRunArtifacts writes one directory per run under baseDir and returns
// its path.
func WriteRunArtifacts(baseDir string, run storage.RunRecord) (string, error) {
	if run.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	cfg := RunConfig{RunID: run.ID, Problem: run.Problem, Seed: run.Seed, CreatedAt: run.CreatedAt, Settings: run.Settings}
	if err := writeJSON(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, summaryFile), Summarize(run)); err != nil {
		return "", err
	}
	if err := WriteBestSeries(runDir, run.BestByGeneration); err != nil {
		return "", err
	}
	diagnostics := run.Diagnostics
	if diagnostics == nil {
		diagnostics = []storage.GenerationRecord{}
	}
	if err := writeJSON(filepath.Join(runDir, diagnosticsFile), diagnostics); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, bestIndividualFile), run.Best); err != nil {
		return "", err
	}
	if run.Holdout != nil {
		if err := writeJSON(filepath.Join(runDir, holdoutFile), run.Holdout); err != nil {
			return "", err
		}
	}
	return runDir, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// ListRunIndex returns the index newest first.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

// ExportRunArtifacts copies the artifacts of runID from baseDir into
// outDir/runID.
func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if strings.TrimSpace(runID) == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}
	for _, file := range artifactFiles {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	for _, file := range optionalArtifactFiles {
		if _, err := os.Stat(filepath.Join(src, file)); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	return dst, nil
}

func ReadRunConfig(baseDir, runID string) (RunConfig, bool, error) {
	var cfg RunConfig
	ok, err := readJSON(filepath.Join(baseDir, runID, configFile), &cfg)
	return cfg, ok, err
}

func ReadSummary(baseDir, runID string) (Summary, bool, error) {
	var summary Summary
	ok, err := readJSON(filepath.Join(baseDir, runID, summaryFile), &summary)
	return summary, ok, err
}

// ReadRunRecord rebuilds a run from its artifact directory.
func ReadRunRecord(baseDir, runID string) (storage.RunRecord, bool, error) {
	cfg, ok, err := ReadRunConfig(baseDir, runID)
	if err != nil || !ok {
		return storage.RunRecord{}, ok, err
	}
	summary, _, err := ReadSummary(baseDir, runID)
	if err != nil {
		return storage.RunRecord{}, false, err
	}
	series, _, err := ReadBestSeries(baseDir, runID)
	if err != nil {
		return storage.RunRecord{}, false, err
	}
	var diagnostics []storage.GenerationRecord
	if _, err := readJSON(filepath.Join(baseDir, runID, diagnosticsFile), &diagnostics); err != nil {
		return storage.RunRecord{}, false, err
	}
	var best storage.IndividualRecord
	if _, err := readJSON(filepath.Join(baseDir, runID, bestIndividualFile), &best); err != nil {
		return storage.RunRecord{}, false, err
	}
	var holdout *storage.IndividualRecord
	var h storage.IndividualRecord
	if ok, err := readJSON(filepath.Join(baseDir, runID, holdoutFile), &h); err != nil {
		return storage.RunRecord{}, false, err
	} else if ok {
		holdout = &h
	}
	return storage.Stamp(storage.RunRecord{
		ID:               cfg.RunID,
		Problem:          cfg.Problem,
		Seed:             cfg.Seed,
		CreatedAt:        cfg.CreatedAt,
		Elapsed:          time.Duration(summary.ElapsedMS) * time.Millisecond,
		Settings:         cfg.Settings,
		BestByGeneration: series,
		Diagnostics:      diagnostics,
		Best:             best,
		TargetReached:    summary.TargetReached,
		Holdout:          holdout,
	}), true, nil
}

func WriteBestSeries(runDir string, bestByGeneration []int64) error {
	file, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"generation", "best_total"}); err != nil {
		return err
	}
	for i, best := range bestByGeneration {
		if err := writer.Write([]string{strconv.Itoa(i), strconv.FormatInt(best, 10)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadBestSeries(baseDir, runID string) ([]int64, bool, error) {
	file, err := os.Open(filepath.Join(baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []int64{}, true, nil
		}
		return nil, false, err
	}
	if len(header) < 2 {
		return nil, false, fmt.Errorf("best series header must have at least 2 columns")
	}

	series := make([]int64, 0, 128)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, false, err
		}
		if len(record) < 2 {
			return nil, false, fmt.Errorf("best series row must have at least 2 columns")
		}
		value, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return nil, false, err
		}
		series = append(series, value)
	}
	return series, true, nil
}

func readJSON(path string, value any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, value); err != nil {
		return false, err
	}
	return true, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
