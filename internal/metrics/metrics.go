// Package metrics provides a Client interface for observing analysis
// runs, with a Prometheus-backed implementation and a no-op default,
// adapted from the teacher's adapter.MetricsAdapter/NoOpMetricsAdapter
// pair (cmd/main.go's buildContainer wires the same choice on a
// MetricsEnabled flag).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Client observes project-scan activity. Implementations must be safe
// for the sequential, single-threaded-per-scan usage the specification
// guarantees (C7 never calls concurrently).
type Client interface {
	IncrementFilesAnalyzed()
	IncrementIssuesFound(n int)
	RecordAnalysisDuration(seconds float64)
}

// NoopClient discards every observation; the default when metrics are
// not requested.
type NoopClient struct{}

func NewNoopClient() *NoopClient { return &NoopClient{} }

func (NoopClient) IncrementFilesAnalyzed()            {}
func (NoopClient) IncrementIssuesFound(n int)         {}
func (NoopClient) RecordAnalysisDuration(float64)     {}

// PrometheusClient exposes the same counters/histogram the teacher
// registers, renamed to this domain, served over --metrics-addr.
type PrometheusClient struct {
	filesAnalyzed    prometheus.Counter
	issuesFound      prometheus.Counter
	analysisDuration prometheus.Histogram
	logger           *zap.Logger
}

func NewPrometheusClient(logger *zap.Logger) *PrometheusClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrometheusClient{
		filesAnalyzed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zigguard_files_analyzed_total",
			Help: "Total number of source files analyzed.",
		}),
		issuesFound: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zigguard_issues_found_total",
			Help: "Total number of issues emitted across all analyzed files.",
		}),
		analysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zigguard_analysis_duration_seconds",
			Help:    "Time spent analyzing a single file, in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		logger: logger,
	}
}

func (p *PrometheusClient) IncrementFilesAnalyzed() {
	p.filesAnalyzed.Inc()
}

func (p *PrometheusClient) IncrementIssuesFound(n int) {
	p.issuesFound.Add(float64(n))
}

func (p *PrometheusClient) RecordAnalysisDuration(seconds float64) {
	p.analysisDuration.Observe(seconds)
	p.logger.Debug("recorded analysis duration", zap.Float64("duration_seconds", seconds))
}
