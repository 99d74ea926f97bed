package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mercator-hq/gcpolicy/pkg/config"
)

// Collector owns the Prometheus registry and every gcpolicy metric.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	adminMetrics     *AdminMetrics
	reconcileMetrics *ReconcileMetrics
}

// NewCollector creates a metrics collector. If registry is nil a new one is
// created and the Go runtime and process collectors are added to it.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		config:           cfg,
		registry:         registry,
		adminMetrics:     NewAdminMetrics(cfg, registry),
		reconcileMetrics: NewReconcileMetrics(cfg, registry),
	}
}

// RecordAdminCall records one admin API call.
//
// Parameters:
//   - method: RPC method (e.g., "ModifyColumnFamilies", "GetTable")
//   - code: gRPC status code name (e.g., "OK", "NotFound")
//   - duration: call latency
func (c *Collector) RecordAdminCall(method, code string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.adminMetrics.RecordCall(method, code, duration)
}

// RecordModifications counts column family modifications submitted with a
// given action ("create", "update", "drop").
func (c *Collector) RecordModifications(action string, count int) {
	if !c.config.Enabled {
		return
	}

	c.adminMetrics.RecordModifications(action, count)
}

// RecordReconcile records one reconcile run.
//
// Parameters:
//   - trigger: what started the run ("startup", "schedule", "watch")
//   - result: "applied", "in_sync", or "error"
//   - duration: run duration
func (c *Collector) RecordReconcile(trigger, result string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.reconcileMetrics.RecordRun(trigger, result, duration)
}

// SetDrift sets the number of modifications the last plan found for table.
func (c *Collector) SetDrift(table string, pending int) {
	if !c.config.Enabled {
		return
	}

	c.reconcileMetrics.SetDrift(table, pending)
}

// RecordSchemaLoad records a schema load attempt.
func (c *Collector) RecordSchemaLoad(success bool) {
	if !c.config.Enabled {
		return
	}

	c.reconcileMetrics.RecordSchemaLoad(success)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
