// Package metrics exposes the Prometheus collectors that back the
// quantitative half of the pipeline's observability story — the
// structured per-step log event in spec §4.11 has a numeric counterpart
// here so step latency and error-kind frequency can be graphed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// StepDuration observes how long each named pipeline step takes.
	StepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scoracle_query",
			Name:      "step_duration_seconds",
			Help:      "Duration of a single pipeline step.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"step", "outcome"},
	)

	// ErrorsTotal counts terminal errors by apperr.Kind.
	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scoracle_query",
			Name:      "errors_total",
			Help:      "Count of pipeline errors by kind.",
		},
		[]string{"kind"},
	)

	// FamilyTotal counts requests routed to each query family.
	FamilyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scoracle_query",
			Name:      "family_total",
			Help:      "Count of requests routed to each query family.",
		},
		[]string{"family"},
	)

	// RAGFallbackTotal counts C5 retrievals that found no snippet at or
	// above the similarity threshold, after which the hard-coded corpus is
	// served. Fallbacks caused by an embedding or database error are not
	// counted.
	RAGFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "scoracle_query",
			Name:      "rag_fallback_total",
			Help:      "Count of schema-knowledge retrievals served from the fallback corpus.",
		},
	)
)

// Register adds every collector to reg. Call once at startup; tests that
// construct a pipeline repeatedly should pass a fresh registry.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(StepDuration, ErrorsTotal, FamilyTotal, RAGFallbackTotal)
}
