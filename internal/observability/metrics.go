package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	StubsSynthesized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irlink_stubs_synthesized_total",
		Help: "Total number of external stub declarations synthesized.",
	})

	FacadesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irlink_facades_created_total",
		Help: "Total number of facade containers created.",
	})

	CallablesReparented = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irlink_callables_reparented_total",
		Help: "Total number of top-level callables moved into a facade.",
	})

	UnitsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "irlink_units_generated_total",
		Help: "Generation units by final state.",
	}, []string{"state"})

	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "irlink_generation_seconds",
		Help:    "Time spent generating one unit.",
		Buckets: prometheus.DefBuckets,
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "irlink_stage_seconds",
		Help:    "Time spent in each driver stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
)

// WriteTextfile writes every registered metric to path in the Prometheus
// text format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
