package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the subscription module.
// Tracks checkout funnel counts and rejected premium requests.
type Metrics struct {
	CheckoutsStarted   prometheus.Counter
	CheckoutsCompleted prometheus.Counter
	Cancellations      prometheus.Counter
	WebhookEvents      *prometheus.CounterVec
	AuthorizeRejected  *prometheus.CounterVec
}

// New creates a Metrics instance registered with the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics with reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CheckoutsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotpicks_checkouts_started_total",
			Help: "Total number of checkout sessions opened",
		}),
		CheckoutsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotpicks_checkouts_completed_total",
			Help: "Total number of checkouts that activated a subscriber",
		}),
		Cancellations: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotpicks_subscriptions_canceled_total",
			Help: "Total number of subscriptions canceled via webhook",
		}),
		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotpicks_webhook_events_total",
			Help: "Verified payment webhook events by type",
		}, []string{"type"}),
		AuthorizeRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotpicks_authorize_rejected_total",
			Help: "Premium requests rejected by reason",
		}, []string{"reason"}), // reason: "missing", "invalid", "unknown", "inactive"
	}
}

func (m *Metrics) IncrementCheckoutStarted() {
	if m != nil {
		m.CheckoutsStarted.Inc()
	}
}

func (m *Metrics) IncrementCheckoutCompleted() {
	if m != nil {
		m.CheckoutsCompleted.Inc()
	}
}

func (m *Metrics) IncrementCancellation() {
	if m != nil {
		m.Cancellations.Inc()
	}
}

func (m *Metrics) IncrementWebhook(eventType string) {
	if m != nil {
		m.WebhookEvents.WithLabelValues(eventType).Inc()
	}
}

func (m *Metrics) IncrementRejected(reason string) {
	if m != nil {
		m.AuthorizeRejected.WithLabelValues(reason).Inc()
	}
}
