// Package metrics exposes debt matching activity to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finance-tracker/debts/internal/application/adapter"
)

const namespace = "debts"

// PrometheusMetrics implements adapter.ScanMetrics with Prometheus collectors.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	scans          *prometheus.CounterVec
	processed      *prometheus.CounterVec
	candidates     *prometheus.CounterVec
	matchesCreated *prometheus.CounterVec
	duplicates     *prometheus.CounterVec
	failures       *prometheus.CounterVec
	scanDuration   *prometheus.HistogramVec
	reviews        *prometheus.CounterVec
	balanceSyncs   *prometheus.CounterVec
}

// NewPrometheusMetrics creates the collectors and registers them on a private registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Scan passes run, by mode.",
		}, []string{"mode"}),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_transactions_processed_total",
			Help:      "Transactions evaluated by scan passes.",
		}, []string{"mode"}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_candidates_total",
			Help:      "Match candidates produced by scan passes.",
		}, []string{"mode"}),
		matchesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_created_total",
			Help:      "Matches created by scan passes, by initial status.",
		}, []string{"mode", "status"}),
		duplicates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_duplicates_total",
			Help:      "Candidates skipped because the pair was already matched.",
		}, []string{"mode"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_failures_total",
			Help:      "Candidates that could not be recorded.",
		}, []string{"mode"}),
		scanDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Duration of scan passes.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_reviews_total",
			Help:      "Pending matches reviewed, by decision.",
		}, []string{"status"}),
		balanceSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_sync_debts_total",
			Help:      "Debts visited by balance syncs, by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.scans,
		m.processed,
		m.candidates,
		m.matchesCreated,
		m.duplicates,
		m.failures,
		m.scanDuration,
		m.reviews,
		m.balanceSyncs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveScan records the outcome of a scan pass.
func (m *PrometheusMetrics) ObserveScan(mode string, stats adapter.ScanStats, duration time.Duration) {
	m.scans.WithLabelValues(mode).Inc()
	m.processed.WithLabelValues(mode).Add(float64(stats.Processed))
	m.candidates.WithLabelValues(mode).Add(float64(stats.Candidates))
	m.matchesCreated.WithLabelValues(mode, "confirmed").Add(float64(stats.AutoConfirmed))
	m.matchesCreated.WithLabelValues(mode, "pending").Add(float64(stats.Pending))
	m.duplicates.WithLabelValues(mode).Add(float64(stats.Duplicates))
	m.failures.WithLabelValues(mode).Add(float64(stats.Failed))
	m.scanDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// ObserveReview records a human review decision on a match.
func (m *PrometheusMetrics) ObserveReview(status string) {
	m.reviews.WithLabelValues(status).Inc()
}

// ObserveBalanceSync records the outcome of a balance sync.
func (m *PrometheusMetrics) ObserveBalanceSync(updated, unchanged, failed int) {
	m.balanceSyncs.WithLabelValues("updated").Add(float64(updated))
	m.balanceSyncs.WithLabelValues("unchanged").Add(float64(unchanged))
	m.balanceSyncs.WithLabelValues("failed").Add(float64(failed))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry the collectors live in.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Noop discards every observation.
type Noop struct{}

// ObserveScan implements adapter.ScanMetrics.
func (Noop) ObserveScan(string, adapter.ScanStats, time.Duration) {}

// ObserveReview implements adapter.ScanMetrics.
func (Noop) ObserveReview(string) {}

// ObserveBalanceSync implements adapter.ScanMetrics.
func (Noop) ObserveBalanceSync(int, int, int) {}
