// Package evopush is the client API for running and inspecting evolution
// runs.
package evopush

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"evopush/internal/config"
	"evopush/internal/evo"
	"evopush/internal/linear"
	"evopush/internal/metrics"
	"evopush/internal/model"
	"evopush/internal/push"
	"evopush/internal/scape"
	"evopush/internal/stats"
	"evopush/internal/storage"
)

const (
	defaultArtifactsDir = "runs"
	defaultExportsDir   = "exports"
	defaultDBPath       = "evopush.db"
)

var log = commonlog.GetLogger("evopush.client")

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	ExportsDir   string
	// Metrics, when set, observes every generation of every run.
	Metrics *metrics.Recorder
}

type Client struct {
	store   storage.Store
	metrics *metrics.Recorder

	artifactsDir string
	exportsDir   string

	initMu      sync.Mutex
	initialized bool
}

type RunRequest struct {
	// RunID is generated when empty.
	RunID  string
	Config config.RunConfig
}

type RunSummary struct {
	RunID            string
	Problem          string
	Seed             uint64
	ArtifactsDir     string
	BestByGeneration []int64
	Best             storage.IndividualRecord
	TargetReached    bool
	// Holdout is set for problems that can draw unseen cases.
	Holdout          *storage.IndividualRecord
	Elapsed          time.Duration
}

type RunsRequest struct {
	Limit int
}

type ShowRequest struct {
	RunID  string
	Latest bool
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		metrics:      opts.Metrics,
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	c.initMu.Lock()
	defer c.initMu.Unlock()

	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	c.initialized = true
	return nil
}

// Run evolves a population as configured, archives the run in the store
// and writes its artifacts.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}
	cfg := req.Config
	if err := cfg.Validate(); err != nil {
		return RunSummary{}, err
	}
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	streams := evo.NewStreamSource(cfg.Seed)
	var observers []evo.Observer
	if c.metrics != nil {
		observers = append(observers, c.metrics.ForRun(cfg.Problem))
	}

	log.Infof("run %s: problem=%s population=%d generations=%d seed=%d mode=%s", runID, cfg.Problem, cfg.PopulationSize, cfg.Generations, streams.Seed(), cfg.Mode)
	started := time.Now()
	outcome, err := runProblem(ctx, cfg, streams, observers)
	if c.metrics != nil {
		c.metrics.RunFinished(cfg.Problem, err)
	}
	if err != nil {
		return RunSummary{}, fmt.Errorf("run %s: %w", runID, err)
	}

	record := storage.Stamp(storage.RunRecord{
		ID:               runID,
		Problem:          cfg.Problem,
		Seed:             streams.Seed(),
		CreatedAt:        started.UTC(),
		Elapsed:          time.Since(started),
		Settings:         settingsFromConfig(cfg),
		BestByGeneration: outcome.bestByGeneration,
		Diagnostics:      outcome.diagnostics,
		Best:             outcome.best,
		TargetReached:    outcome.targetReached,
		Holdout:          outcome.holdout,
	})
	if err := c.store.SaveRun(ctx, record); err != nil {
		return RunSummary{}, fmt.Errorf("save run %s: %w", runID, err)
	}
	runDir, err := stats.WriteRunArtifacts(c.artifactsDir, record)
	if err != nil {
		return RunSummary{}, err
	}
	if err := stats.AppendRunIndex(c.artifactsDir, stats.IndexEntry(record)); err != nil {
		return RunSummary{}, err
	}
	log.Infof("run %s: finished after %d generations, best total %d", runID, len(record.BestByGeneration), record.Best.Total)

	return RunSummary{
		RunID:            runID,
		Problem:          record.Problem,
		Seed:             record.Seed,
		ArtifactsDir:     runDir,
		BestByGeneration: record.BestByGeneration,
		Best:             record.Best,
		TargetReached:    record.TargetReached,
		Holdout:          record.Holdout,
		Elapsed:          record.Elapsed,
	}, nil
}

// Runs lists archived runs newest first. Runs recorded by other processes
// are read from the artifact index when the store does not hold them.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]storage.RunSummary, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(runs))
	for _, r := range runs {
		seen[r.ID] = struct{}{}
	}
	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, ok := seen[e.RunID]; ok {
			continue
		}
		createdAt, _ := time.Parse(time.RFC3339Nano, e.CreatedAtUTC)
		runs = append(runs, storage.RunSummary{
			ID:          e.RunID,
			Problem:     e.Problem,
			CreatedAt:   createdAt,
			Generations: e.Generations,
			BestTotal:   e.FinalBestTotal,
		})
	}
	sortRunsNewestFirst(runs)
	if len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}
	return runs, nil
}

func (c *Client) Show(ctx context.Context, req ShowRequest) (storage.RunRecord, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return storage.RunRecord{}, err
	}
	return c.loadRun(ctx, runID)
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return ExportSummary{}, err
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	exportedDir, err := stats.ExportRunArtifacts(c.artifactsDir, runID, req.OutDir)
	if err != nil {
		// The artifacts may live elsewhere; rebuild them from the archive.
		record, ok, getErr := c.store.GetRun(ctx, runID)
		if getErr != nil || !ok {
			return ExportSummary{}, err
		}
		exportedDir, err = stats.WriteRunArtifacts(req.OutDir, record)
		if err != nil {
			return ExportSummary{}, err
		}
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if runID == "" && !latest {
		return "", errors.New("run id or latest is required")
	}
	if runID != "" {
		return runID, nil
	}
	runs, err := c.Runs(ctx, RunsRequest{Limit: 1})
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", errors.New("no runs available")
	}
	return runs[0].ID, nil
}

func (c *Client) loadRun(ctx context.Context, runID string) (storage.RunRecord, error) {
	if err := c.Init(ctx); err != nil {
		return storage.RunRecord{}, err
	}
	record, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return storage.RunRecord{}, err
	}
	if ok {
		return record, nil
	}
	record, ok, err = stats.ReadRunRecord(c.artifactsDir, runID)
	if err != nil {
		return storage.RunRecord{}, err
	}
	if !ok {
		return storage.RunRecord{}, fmt.Errorf("%w: %s", storage.ErrRunNotFound, runID)
	}
	return record, nil
}

type runOutcome struct {
	bestByGeneration []int64
	diagnostics      []storage.GenerationRecord
	best             storage.IndividualRecord
	targetReached    bool
	holdout          *storage.IndividualRecord
}

func runProblem(ctx context.Context, cfg config.RunConfig, streams *evo.StreamSource, observers []evo.Observer) (runOutcome, error) {
	_, kind, err := scape.ProblemKind(cfg.Problem)
	if err != nil {
		return runOutcome{}, err
	}
	switch kind {
	case scape.KindBitstring:
		p, err := scape.NewBitstringProblem(cfg.Problem, cfg.Bits)
		if err != nil {
			return runOutcome{}, err
		}
		return evolveProblem[linear.Bitstring, bool](ctx, cfg, p, p.Replace, streams, observers)
	case scape.KindPlushy:
		p, err := scape.NewMedianProblem(scape.MedianOptions{
			Cases:        cfg.Cases,
			GenomeLength: cfg.GenomeLength,
			MaxStackSize: cfg.MaxStackSize,
			StepLimit:    cfg.StepLimit,
			Penalty:      cfg.Penalty,
		}, streams.Stream())
		if err != nil {
			return runOutcome{}, err
		}
		return evolveProblem[push.Plushy, push.Gene](ctx, cfg, p, p.Replace, streams, observers)
	default:
		return runOutcome{}, fmt.Errorf("%w: %s", scape.ErrUnknownProblem, cfg.Problem)
	}
}

type problem[G any] interface {
	model.GenomeMaker[G]
	Scorer() model.Scorer[G]
	MaxTotal() int64
}

type holdoutProblem[G any] interface {
	HoldoutScorer(n int, rng *rand.Rand) model.Scorer[G]
}

// evolveProblem runs one configured evolution. Without an explicit target a
// run stops once it finds a genome with the problem's best possible total.
func evolveProblem[G ~[]T, T any](ctx context.Context, cfg config.RunConfig, p problem[G], replace linear.ReplaceFunc[T], streams *evo.StreamSource, observers []evo.Observer) (runOutcome, error) {
	scorer := p.Scorer()
	opts := evo.GenerateOptions{Workers: cfg.Workers, Streams: streams}
	started := time.Now()
	pop, err := evo.Generate[G](ctx, cfg.PopulationSize, p, scorer, opts)
	if err != nil {
		return runOutcome{}, fmt.Errorf("initial population: %w", err)
	}
	initialDuration := time.Since(started)

	selector, err := evo.SelectorByName[G](cfg.Selection, evo.SelectorOptions{TournamentSize: cfg.TournamentSize})
	if err != nil {
		return runOutcome{}, err
	}
	var maker evo.ChildMaker[G]
	switch cfg.Crossover {
	case config.CrossoverUniform:
		maker = evo.UniformXoMutate[G](scorer, replace)
	default:
		maker = evo.TwoPointXoMutate[G](scorer, replace)
	}
	gen, err := evo.NewGeneration(pop, selector, maker, evo.GenerationOptions{Workers: cfg.Workers, Streams: streams})
	if err != nil {
		return runOutcome{}, err
	}

	target := cfg.TargetTotal
	if target == nil {
		best := p.MaxTotal()
		target = &best
	}
	result, err := evo.Evolve(ctx, gen, evo.MonitorConfig{
		Generations: cfg.Generations,
		Parallel:    cfg.Mode == config.ModeParallel,
		TargetTotal: target,
		Observers:   observers,

		InitialDuration: initialDuration,
	})
	if err != nil {
		return runOutcome{}, err
	}

	diagnostics := make([]storage.GenerationRecord, 0, len(result.GenerationDiagnostics))
	for _, d := range result.GenerationDiagnostics {
		diagnostics = append(diagnostics, storage.GenerationRecord{
			Generation:      d.Generation,
			BestTotal:       d.BestTotal,
			MeanTotal:       d.MeanTotal,
			MinTotal:        d.MinTotal,
			PopulationSize:  d.PopulationSize,
			DistinctGenomes: d.DistinctGenomes,
			DurationMillis:  float64(d.Duration) / float64(time.Millisecond),
		})
	}
	outcome := runOutcome{
		bestByGeneration: result.BestByGeneration,
		diagnostics:      diagnostics,
		best:             individualRecord(result.Best),
		targetReached:    result.Best.Total() >= *target,
	}

	if h, ok := p.(holdoutProblem[G]); ok && cfg.HoldoutCases > 0 {
		rescored, err := evo.Rescore[G, T](ctx, &result.FinalPopulation, h.HoldoutScorer(cfg.HoldoutCases, streams.Stream()), cfg.Workers)
		if err != nil {
			return runOutcome{}, fmt.Errorf("holdout rescore: %w", err)
		}
		holdout := individualRecord(*model.Best(&rescored))
		outcome.holdout = &holdout
		log.Infof("holdout: best total %d on %d unseen cases", holdout.Total, cfg.HoldoutCases)
	}
	return outcome, nil
}

func individualRecord[G any](ind model.Individual[G]) storage.IndividualRecord {
	return storage.IndividualRecord{
		Genome:  fmt.Sprint(ind.Genome()),
		Results: ind.TestResults().Values(),
		Total:   ind.Total(),
	}
}

func settingsFromConfig(cfg config.RunConfig) storage.RunSettings {
	s := storage.RunSettings{
		PopulationSize: cfg.PopulationSize,
		Generations:    cfg.Generations,
		Selection:      cfg.Selection,
		Crossover:      cfg.Crossover,
		Mode:           cfg.Mode,
		Workers:        cfg.Workers,
	}
	if cfg.Selection == "tournament" {
		s.TournamentSize = cfg.TournamentSize
	}
	if _, kind, err := scape.ProblemKind(cfg.Problem); err == nil && kind == scape.KindPlushy {
		s.GenomeLength = cfg.GenomeLength
		s.Cases = cfg.Cases
		s.HoldoutCases = cfg.HoldoutCases
	} else {
		s.Bits = cfg.Bits
	}
	return s
}

func sortRunsNewestFirst(runs []storage.RunSummary) {
	slices.SortStableFunc(runs, func(a, b storage.RunSummary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
