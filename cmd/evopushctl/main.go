package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"evopush/internal/config"
	"evopush/internal/evo"
	"evopush/internal/metrics"
	"evopush/internal/scape"
	"evopush/internal/storage"
	"evopush/pkg/evopush"
)

const (
	runsDir    = "runs"
	exportsDir = "exports"
	dbPath     = "evopush.db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "problems":
		return runProblems(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

type storeFlags struct {
	kind   *string
	dbPath *string
	dir    *string
}

func addStoreFlags(fs *flag.FlagSet) storeFlags {
	return storeFlags{
		kind:   fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite"),
		dbPath: fs.String("db-path", dbPath, "sqlite database path"),
		dir:    fs.String("runs-dir", runsDir, "run artifacts directory"),
	}
}

func (f storeFlags) client(recorder *metrics.Recorder) (*evopush.Client, error) {
	return evopush.New(evopush.Options{
		StoreKind:    *f.kind,
		DBPath:       *f.dbPath,
		ArtifactsDir: *f.dir,
		ExportsDir:   exportsDir,
		Metrics:      recorder,
	})
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "run config file (.toml, .yaml, .json)")
	runID := fs.String("run-id", "", "run id (generated when empty)")
	defaults := config.Default()
	problem := fs.String("problem", defaults.Problem, "problem: "+strings.Join(scape.ListProblems(), "|"))
	pop := fs.Int("pop", defaults.PopulationSize, "population size")
	gens := fs.Int("gens", defaults.Generations, "generations")
	bits := fs.Int("bits", defaults.Bits, "bitstring length")
	genomeLength := fs.Int("genome-length", defaults.GenomeLength, "initial plushy genome length")
	cases := fs.Int("cases", defaults.Cases, "training cases")
	holdoutCases := fs.Int("holdout-cases", defaults.HoldoutCases, "unseen cases used to rescore the final population (0 disables)")
	selection := fs.String("selection", defaults.Selection, "selection: "+strings.Join(evo.ListSelectors(), "|"))
	tournamentSize := fs.Int("tournament-size", defaults.TournamentSize, "tournament size")
	xo := fs.String("xo", defaults.Crossover, "crossover: two-point|uniform")
	mode := fs.String("mode", defaults.Mode, "generation mode: serial|parallel")
	workers := fs.Int("workers", defaults.Workers, "worker goroutines (0 uses GOMAXPROCS)")
	seed := fs.Uint64("seed", defaults.Seed, "random seed (0 picks one)")
	target := fs.Int64("target", 0, "stop once the best total reaches this value")
	metricsAddr := fs.String("metrics-addr", "", "serve prometheus metrics on this address during the run")
	verbose := fs.Int("v", 0, "log verbosity")
	jsonOut := fs.Bool("json", false, "emit run summary as JSON")
	sf := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	commonlog.Configure(*verbose, nil)

	cfg := defaults
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	// Flags given on the command line override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "problem":
			cfg.Problem = *problem
		case "pop":
			cfg.PopulationSize = *pop
		case "gens":
			cfg.Generations = *gens
		case "bits":
			cfg.Bits = *bits
		case "genome-length":
			cfg.GenomeLength = *genomeLength
		case "cases":
			cfg.Cases = *cases
		case "holdout-cases":
			cfg.HoldoutCases = *holdoutCases
		case "selection":
			cfg.Selection = *selection
		case "tournament-size":
			cfg.TournamentSize = *tournamentSize
		case "xo":
			cfg.Crossover = *xo
		case "mode":
			cfg.Mode = *mode
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "target":
			v := *target
			cfg.TargetTotal = &v
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	var recorder *metrics.Recorder
	if *metricsAddr != "" {
		recorder = metrics.NewRecorder()
		shutdown, err := serveMetrics(*metricsAddr, recorder)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	client, err := sf.client(recorder)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, evopush.RunRequest{RunID: *runID, Config: cfg})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(summary)
	}
	final := int64(0)
	if n := len(summary.BestByGeneration); n > 0 {
		final = summary.BestByGeneration[n-1]
	}
	fmt.Printf("run_id=%s problem=%s seed=%d generations=%d best_total=%d target_reached=%t elapsed=%s\n",
		summary.RunID, summary.Problem, summary.Seed, len(summary.BestByGeneration), final, summary.TargetReached, summary.Elapsed.Round(time.Millisecond))
	fmt.Printf("best genome=%s\n", summary.Best.Genome)
	if summary.Holdout != nil {
		fmt.Printf("holdout total=%d cases=%d genome=%s\n", summary.Holdout.Total, len(summary.Holdout.Results), summary.Holdout.Genome)
	}
	fmt.Printf("artifacts=%s\n", summary.ArtifactsDir)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	sf := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := sf.client(nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, evopush.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("run_id=%s created_at=%s problem=%s generations=%d best_total=%d\n",
			r.ID, r.CreatedAt.UTC().Format(time.RFC3339), r.Problem, r.Generations, r.BestTotal)
	}
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show the most recent run")
	jsonOut := fs.Bool("json", false, "emit the full run record as JSON")
	sf := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := sf.client(nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	record, err := client.Show(ctx, evopush.ShowRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(record)
	}
	fmt.Printf("run_id=%s problem=%s seed=%d created_at=%s elapsed=%s\n",
		record.ID, record.Problem, record.Seed, record.CreatedAt.UTC().Format(time.RFC3339), record.Elapsed.Round(time.Millisecond))
	fmt.Printf("settings population=%d generations=%d selection=%s crossover=%s mode=%s\n",
		record.Settings.PopulationSize, record.Settings.Generations, record.Settings.Selection, record.Settings.Crossover, record.Settings.Mode)
	for _, d := range record.Diagnostics {
		fmt.Printf("generation=%d best=%d mean=%.3f min=%d distinct=%d\n", d.Generation, d.BestTotal, d.MeanTotal, d.MinTotal, d.DistinctGenomes)
	}
	fmt.Printf("best total=%d genome=%s\n", record.Best.Total, record.Best.Genome)
	if record.Holdout != nil {
		fmt.Printf("holdout total=%d genome=%s\n", record.Holdout.Total, record.Holdout.Genome)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out", exportsDir, "export output directory")
	sf := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := sf.client(nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	exported, err := client.Export(ctx, evopush.ExportRequest{RunID: *runID, Latest: *latest, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s to=%s\n", exported.RunID, exported.Directory)
	return nil
}

func runProblems(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("problems", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, name := range scape.ListProblems() {
		_, kind, err := scape.ProblemKind(name)
		if err != nil {
			return err
		}
		fmt.Printf("problem=%s genome=%s\n", name, kind)
	}
	return nil
}

func serveMetrics(addr string, recorder *metrics.Recorder) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = srv.Serve(ln)
	}()
	commonlog.GetLogger("evopush.cli").Noticef("serving metrics on http://%s/metrics", ln.Addr())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func printJSON(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: evopushctl <run|runs|show|export|problems> [flags]", msg)
}
