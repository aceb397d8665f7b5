// Package metrics exposes generation pipeline measurements to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/generation"
	"github.com/phrazzld/codegen-api/internal/task"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "codegen"

// Recorder implements generation.Recorder with Prometheus collectors
// registered on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	CacheLookups     *prometheus.CounterVec
	ProviderAttempts *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	Generations      *prometheus.CounterVec
	Jobs             *prometheus.CounterVec
	JobDuration      *prometheus.HistogramVec
}

var (
	_ generation.Recorder = (*Recorder)(nil)
	_ task.Observer       = (*Recorder)(nil)
)

// NewRecorder creates a Recorder. Go runtime and process collectors are
// included when withRuntime is true.
func NewRecorder(withRuntime bool) *Recorder {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Result cache lookups by provider and hit status",
			},
			[]string{"provider", "hit"},
		),
		ProviderAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_attempts_total",
				Help:      "Provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),
		ProviderLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_attempt_duration_seconds",
				Help:      "Duration of individual provider calls in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
		Generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Completed generation requests by result",
			},
			[]string{"provider", "result"},
		),
		Jobs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_total",
				Help:      "Finished background jobs by type and status",
			},
			[]string{"type", "status"},
		),
		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "job_duration_seconds",
				Help:      "Execution time of background jobs in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 180},
			},
			[]string{"type"},
		),
	}
}

// CacheLookup implements generation.Recorder.
func (r *Recorder) CacheLookup(provider domain.Provider, hit bool) {
	r.CacheLookups.WithLabelValues(provider.Slug(), strconv.FormatBool(hit)).Inc()
}

// ProviderAttempt implements generation.Recorder.
func (r *Recorder) ProviderAttempt(provider domain.Provider, outcome string, elapsed time.Duration) {
	r.ProviderAttempts.WithLabelValues(provider.Slug(), outcome).Inc()
	r.ProviderLatency.WithLabelValues(provider.Slug()).Observe(elapsed.Seconds())
}

// GenerationCompleted implements generation.Recorder.
func (r *Recorder) GenerationCompleted(provider domain.Provider, result string) {
	r.Generations.WithLabelValues(provider.Slug(), result).Inc()
}

// JobFinished implements task.Observer.
func (r *Recorder) JobFinished(taskType, status string, elapsed time.Duration) {
	r.Jobs.WithLabelValues(taskType, status).Inc()
	r.JobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
}

// Registry returns the registry the collectors live on.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
