// Package metrics bundles the Prometheus collectors for the engine on a
// dedicated registry, exposed by the server on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all collectors. A nil *Metrics is valid and turns every
// recording method into a no-op, so tests can skip wiring it.
type Metrics struct {
	Registry *prometheus.Registry

	PagesMatchedTotal       *prometheus.CounterVec
	RowsExtractedTotal      prometheus.Counter
	RowsSkippedTotal        *prometheus.CounterVec
	InjectionAttemptsTotal  prometheus.Counter
	InjectionExhaustedTotal prometheus.Counter
	OptimizeRequestsTotal   *prometheus.CounterVec
	OptimizeRequestDuration prometheus.Histogram
}

// New constructs and registers all collectors on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	pagesMatched := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartscope_pages_matched_total",
			Help: "Page events by identification outcome.",
		},
		[]string{"retailer"},
	)
	rowsExtracted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cartscope_rows_extracted_total",
			Help: "Cart rows successfully turned into items.",
		},
	)
	rowsSkipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartscope_rows_skipped_total",
			Help: "Cart rows skipped during extraction by reason.",
		},
		[]string{"reason"},
	)
	injectionAttempts := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cartscope_injection_attempts_total",
			Help: "Trigger injection attempts, including retries.",
		},
	)
	injectionExhausted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cartscope_injection_exhausted_total",
			Help: "Injection loops that ran out of their retry budget.",
		},
	)
	optimizeRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartscope_optimize_requests_total",
			Help: "Optimization boundary calls by outcome.",
		},
		[]string{"outcome"},
	)
	optimizeDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cartscope_optimize_request_duration_seconds",
			Help:    "Optimization boundary call latency.",
			Buckets: prometheus.DefBuckets,
		},
	)

	registry.MustRegister(pagesMatched, rowsExtracted, rowsSkipped,
		injectionAttempts, injectionExhausted, optimizeRequests, optimizeDuration)

	return &Metrics{
		Registry:                registry,
		PagesMatchedTotal:       pagesMatched,
		RowsExtractedTotal:      rowsExtracted,
		RowsSkippedTotal:        rowsSkipped,
		InjectionAttemptsTotal:  injectionAttempts,
		InjectionExhaustedTotal: injectionExhausted,
		OptimizeRequestsTotal:   optimizeRequests,
		OptimizeRequestDuration: optimizeDuration,
	}
}

// IncPageMatched counts a page event identified to a retailer.
func (m *Metrics) IncPageMatched(retailer string) {
	if m == nil {
		return
	}
	m.PagesMatchedTotal.WithLabelValues(retailer).Inc()
}

// IncRowExtracted counts a successfully extracted cart row.
func (m *Metrics) IncRowExtracted() {
	if m == nil {
		return
	}
	m.RowsExtractedTotal.Inc()
}

// IncRowSkipped counts a skipped cart row by reason.
func (m *Metrics) IncRowSkipped(reason string) {
	if m == nil {
		return
	}
	m.RowsSkippedTotal.WithLabelValues(reason).Inc()
}

// IncInjectionAttempt counts one injection attempt.
func (m *Metrics) IncInjectionAttempt() {
	if m == nil {
		return
	}
	m.InjectionAttemptsTotal.Inc()
}

// IncInjectionExhausted counts an injection loop that gave up.
func (m *Metrics) IncInjectionExhausted() {
	if m == nil {
		return
	}
	m.InjectionExhaustedTotal.Inc()
}

// ObserveOptimize records the outcome and duration of a boundary call.
func (m *Metrics) ObserveOptimize(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.OptimizeRequestsTotal.WithLabelValues(outcome).Inc()
	m.OptimizeRequestDuration.Observe(d.Seconds())
}
