package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gzhole/remindshield/internal/audit"
)

// Metrics provides observability for the request pipeline.
type Metrics struct {
	// Request outcomes by severity
	Outcomes *prometheus.CounterVec

	// Audit events by kind
	SecurityEvents *prometheus.CounterVec

	// Threat rule hits by rule id
	ThreatSignals *prometheus.CounterVec

	// Time spent deciding a single request
	HandleLatency prometheus.Histogram
}

// New creates the pipeline metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "remindshield_request_outcomes_total",
			Help: "Total requests handled by outcome severity",
		}, []string{"severity"}),

		SecurityEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "remindshield_security_events_total",
			Help: "Total security events appended to the audit log by kind",
		}, []string{"kind"}),

		ThreatSignals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "remindshield_threat_signals_total",
			Help: "Total threat rule matches by rule id",
		}, []string{"rule"}),

		HandleLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "remindshield_handle_duration_seconds",
			Help:    "Duration of a full request decision",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}),
	}
}

// IncrementOutcome records a request outcome.
func (m *Metrics) IncrementOutcome(severity string) {
	if m != nil {
		m.Outcomes.WithLabelValues(severity).Inc()
	}
}

// IncrementSignal records a threat rule hit.
func (m *Metrics) IncrementSignal(ruleID string) {
	if m != nil {
		m.ThreatSignals.WithLabelValues(ruleID).Inc()
	}
}

// ObserveHandleLatency records how long a decision took.
func (m *Metrics) ObserveHandleLatency(d time.Duration) {
	if m != nil {
		m.HandleLatency.Observe(d.Seconds())
	}
}

// Write counts an audit event. It lets Metrics act as an audit.Sink.
func (m *Metrics) Write(event audit.SecurityEvent) error {
	if m != nil {
		m.SecurityEvents.WithLabelValues(event.Kind.Slug()).Inc()
	}
	return nil
}
