package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/gcpolicy/pkg/config"
)

// AdminMetrics tracks calls to the table admin API.
//
// Metrics:
//   - gcpolicy_admin_calls_total: calls by method and gRPC status code
//   - gcpolicy_admin_call_duration_seconds: call latency by method
//   - gcpolicy_family_modifications_total: modifications submitted by action
type AdminMetrics struct {
	callsTotal    *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
	modifications *prometheus.CounterVec
}

// NewAdminMetrics creates and registers admin metrics with the provided registry.
func NewAdminMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *AdminMetrics {
	am := &AdminMetrics{
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "admin_calls_total",
				Help:      "Total number of table admin API calls",
			},
			[]string{"method", "code"},
		),

		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "admin_call_duration_seconds",
				Help:      "Duration of table admin API calls in seconds",
				// Schema changes take from tens of milliseconds to a minute
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method"},
		),

		modifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "family_modifications_total",
				Help:      "Total number of column family modifications submitted",
			},
			[]string{"action"},
		),
	}

	registry.MustRegister(
		am.callsTotal,
		am.callDuration,
		am.modifications,
	)

	return am
}

// RecordCall records a completed admin call.
func (am *AdminMetrics) RecordCall(method, code string, duration time.Duration) {
	am.callsTotal.WithLabelValues(method, code).Inc()
	am.callDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordModifications adds count modifications with the given action.
func (am *AdminMetrics) RecordModifications(action string, count int) {
	am.modifications.WithLabelValues(action).Add(float64(count))
}
