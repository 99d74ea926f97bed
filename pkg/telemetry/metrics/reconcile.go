package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/gcpolicy/pkg/config"
)

// ReconcileMetrics tracks the reconcile daemon.
//
// Metrics:
//   - gcpolicy_reconcile_runs_total: runs by trigger and result
//   - gcpolicy_reconcile_duration_seconds: run duration
//   - gcpolicy_reconcile_drift: pending modifications per table after the last plan
//   - gcpolicy_reconcile_last_success_timestamp_seconds: time of the last successful run
//   - gcpolicy_schema_loads_total: schema loads by result
type ReconcileMetrics struct {
	runsTotal   *prometheus.CounterVec
	duration    prometheus.Histogram
	drift       *prometheus.GaugeVec
	lastSuccess prometheus.Gauge
	schemaLoads *prometheus.CounterVec
}

// NewReconcileMetrics creates and registers reconcile metrics with the
// provided registry.
func NewReconcileMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ReconcileMetrics {
	rm := &ReconcileMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reconcile_runs_total",
				Help:      "Total number of reconcile runs",
			},
			[]string{"trigger", "result"},
		),

		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reconcile_duration_seconds",
				Help:      "Duration of reconcile runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
			},
		),

		drift: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reconcile_drift",
				Help:      "Modifications needed to bring the table in line with the schema",
			},
			[]string{"table"},
		),

		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reconcile_last_success_timestamp_seconds",
				Help:      "Unix time of the last successful reconcile run",
			},
		),

		schemaLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "schema_loads_total",
				Help:      "Total number of schema loads",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		rm.runsTotal,
		rm.duration,
		rm.drift,
		rm.lastSuccess,
		rm.schemaLoads,
	)

	return rm
}

// RecordRun records a finished reconcile run.
func (rm *ReconcileMetrics) RecordRun(trigger, result string, duration time.Duration) {
	rm.runsTotal.WithLabelValues(trigger, result).Inc()
	rm.duration.Observe(duration.Seconds())
	if result != "error" {
		rm.lastSuccess.SetToCurrentTime()
	}
}

// SetDrift sets the pending modification count for table.
func (rm *ReconcileMetrics) SetDrift(table string, pending int) {
	rm.drift.WithLabelValues(table).Set(float64(pending))
}

// RecordSchemaLoad counts a schema load.
func (rm *ReconcileMetrics) RecordSchemaLoad(success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	rm.schemaLoads.WithLabelValues(result).Inc()
}
