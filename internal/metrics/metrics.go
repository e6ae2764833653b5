// Package metrics exposes run progress as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evopush/internal/evo"
)

// Recorder owns a private registry so several recorders can coexist in one
// process, as they do in tests.
type Recorder struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	generations *prometheus.CounterVec
	children    *prometheus.CounterVec
	bestTotal   *prometheus.GaugeVec
	meanTotal   *prometheus.GaugeVec
	distinct    *prometheus.GaugeVec
	duration    *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evopush_runs_total",
			Help: "Finished runs by problem and outcome.",
		}, []string{"problem", "status"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evopush_generations_total",
			Help: "Scored generations, including initial populations.",
		}, []string{"problem"}),
		children: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evopush_children_total",
			Help: "Children produced by the generation driver.",
		}, []string{"problem"}),
		bestTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evopush_best_total",
			Help: "Best total of the latest generation.",
		}, []string{"problem"}),
		meanTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evopush_mean_total",
			Help: "Mean total of the latest generation.",
		}, []string{"problem"}),
		distinct: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evopush_distinct_genomes",
			Help: "Distinct genomes in the latest generation.",
		}, []string{"problem"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evopush_generation_duration_seconds",
			Help:    "Time spent producing one generation.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"problem"}),
	}
	r.registry.MustRegister(
		r.runs, r.generations, r.children, r.bestTotal, r.meanTotal, r.distinct, r.duration,
		collectors.NewGoCollector(),
	)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ForRun returns an observer that labels every sample with problem.
func (r *Recorder) ForRun(problem string) evo.Observer {
	return runObserver{recorder: r, problem: problem}
}

// RunFinished counts a completed run; a non-nil err counts as failed.
func (r *Recorder) RunFinished(problem string, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	r.runs.WithLabelValues(problem, status).Inc()
}

type runObserver struct {
	recorder *Recorder
	problem  string
}

func (o runObserver) ObserveGeneration(d evo.GenerationDiagnostics) {
	r := o.recorder
	r.generations.WithLabelValues(o.problem).Inc()
	if d.Generation > 0 {
		r.children.WithLabelValues(o.problem).Add(float64(d.PopulationSize))
		r.duration.WithLabelValues(o.problem).Observe(d.Duration.Seconds())
	}
	r.bestTotal.WithLabelValues(o.problem).Set(float64(d.BestTotal))
	r.meanTotal.WithLabelValues(o.problem).Set(d.MeanTotal)
	r.distinct.WithLabelValues(o.problem).Set(float64(d.DistinctGenomes))
}
