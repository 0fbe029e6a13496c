package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tier labels for generated lines.
const (
	TierPreview = "preview"
	TierPremium = "premium"
	TierDigest  = "digest"
)

// Metrics provides observability for line generation and scoring.
type Metrics struct {
	LinesGenerated *prometheus.CounterVec
	Comparisons    prometheus.Counter
	MainMatches    prometheus.Histogram
	Exports        *prometheus.CounterVec
}

// New creates a Metrics instance registered with the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics with reg. Tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LinesGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotpicks_lines_generated_total",
			Help: "Total number of lines generated by tier",
		}, []string{"tier"}),
		Comparisons: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotpicks_comparisons_total",
			Help: "Total number of result comparison requests",
		}),
		MainMatches: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hotpicks_match_main_count",
			Help:    "Distribution of main-number matches per compared line",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		}),
		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotpicks_csv_exports_total",
			Help: "Total number of CSV exports by kind",
		}, []string{"kind"}), // kind: "preview", "report"
	}
}

// AddGenerated records n generated lines for tier.
func (m *Metrics) AddGenerated(tier string, n int) {
	if m != nil {
		m.LinesGenerated.WithLabelValues(tier).Add(float64(n))
	}
}

// ObserveComparison records one comparison call and its per-line main matches.
func (m *Metrics) ObserveComparison(mainMatches []int) {
	if m == nil {
		return
	}
	m.Comparisons.Inc()
	for _, n := range mainMatches {
		m.MainMatches.Observe(float64(n))
	}
}

// IncrementExport records a CSV export.
func (m *Metrics) IncrementExport(kind string) {
	if m != nil {
		m.Exports.WithLabelValues(kind).Inc()
	}
}
