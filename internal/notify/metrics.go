package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks email outcomes and digest runs.
type Metrics struct {
	Emails     *prometheus.CounterVec
	DigestRuns prometheus.Counter
}

// NewMetrics registers notify metrics with the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Emails: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotpicks_emails_total",
			Help: "Emails attempted by kind and outcome",
		}, []string{"kind", "outcome"}), // outcome: "sent", "failed"
		DigestRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotpicks_digest_runs_total",
			Help: "Total number of digest runs",
		}),
	}
}

// ObserveDelivery records one email attempt.
func (m *Metrics) ObserveDelivery(kind string, d Delivery) {
	if m == nil {
		return
	}
	outcome := "sent"
	if !d.Sent {
		outcome = "failed"
	}
	m.Emails.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) IncrementDigestRun() {
	if m != nil {
		m.DigestRuns.Inc()
	}
}
