package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/gcpolicy/pkg/config"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)
	if collector.Registry() != registry {
		t.Error("collector registry not set correctly")
	}

	own := NewCollector(&config.MetricsConfig{Enabled: true}, nil)
	if own.Registry() == nil {
		t.Fatal("expected a registry to be created")
	}
	families, err := own.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "go_") {
			found = true
		}
	}
	if !found {
		t.Error("expected Go runtime metrics in a collector-owned registry")
	}
}

func TestCollector_RecordAdminCall(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordAdminCall("ModifyColumnFamilies", "OK", 20*time.Millisecond)
	collector.RecordAdminCall("ModifyColumnFamilies", "OK", 30*time.Millisecond)
	collector.RecordAdminCall("ModifyColumnFamilies", "NotFound", 5*time.Millisecond)

	calls := collector.adminMetrics.callsTotal
	if got := testutil.ToFloat64(calls.WithLabelValues("ModifyColumnFamilies", "OK")); got != 2 {
		t.Errorf("OK calls = %v, want 2", got)
	}
	if got := testutil.ToFloat64(calls.WithLabelValues("ModifyColumnFamilies", "NotFound")); got != 1 {
		t.Errorf("NotFound calls = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(collector.adminMetrics.callDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestCollector_RecordModifications(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordModifications("create", 2)
	collector.RecordModifications("create", 1)
	collector.RecordModifications("drop", 1)

	mods := collector.adminMetrics.modifications
	if got := testutil.ToFloat64(mods.WithLabelValues("create")); got != 3 {
		t.Errorf("create = %v, want 3", got)
	}
	if got := testutil.ToFloat64(mods.WithLabelValues("drop")); got != 1 {
		t.Errorf("drop = %v, want 1", got)
	}
}

func TestCollector_Reconcile(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordReconcile("schedule", "applied", time.Second)
	collector.RecordReconcile("watch", "error", time.Second)
	collector.SetDrift("projects/p/instances/i/tables/t", 3)
	collector.RecordSchemaLoad(true)
	collector.RecordSchemaLoad(false)

	rm := collector.reconcileMetrics
	if got := testutil.ToFloat64(rm.runsTotal.WithLabelValues("schedule", "applied")); got != 1 {
		t.Errorf("applied runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.drift.WithLabelValues("projects/p/instances/i/tables/t")); got != 3 {
		t.Errorf("drift = %v, want 3", got)
	}
	if got := testutil.ToFloat64(rm.lastSuccess); got == 0 {
		t.Error("last success timestamp not set")
	}
	if got := testutil.ToFloat64(rm.schemaLoads.WithLabelValues("error")); got != 1 {
		t.Errorf("failed schema loads = %v, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordAdminCall("GetTable", "OK", time.Millisecond)
	collector.RecordModifications("create", 1)
	collector.RecordReconcile("startup", "applied", time.Millisecond)

	if got := testutil.CollectAndCount(collector.adminMetrics.callsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d series", got)
	}
	if got := testutil.CollectAndCount(collector.reconcileMetrics.runsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d reconcile series", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordAdminCall("ModifyColumnFamilies", "OK", time.Millisecond)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_admin_calls_total") {
		t.Errorf("metrics output missing admin calls:\n%s", rec.Body.String())
	}
}
