package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"bigtable.endpoint", cfg.Bigtable.Endpoint, DefaultBigtableEndpoint},
		{"bigtable.timeout", cfg.Bigtable.Timeout, DefaultBigtableTimeout},
		{"schema.path", cfg.Schema.Path, DefaultSchemaPath},
		{"schema.debounce", cfg.Schema.Debounce, DefaultSchemaDebounce},
		{"history.backend", cfg.History.Backend, DefaultHistoryBackend},
		{"history.sqlite.path", cfg.History.SQLite.Path, DefaultHistorySQLitePath},
		{"history.sqlite.busy_timeout", cfg.History.SQLite.BusyTimeout, DefaultHistorySQLiteBusyTimeout},
		{"telemetry.logging.level", cfg.Telemetry.Logging.Level, DefaultLogLevel},
		{"telemetry.logging.format", cfg.Telemetry.Logging.Format, DefaultLogFormat},
		{"telemetry.metrics.path", cfg.Telemetry.Metrics.Path, DefaultMetricsPath},
		{"telemetry.metrics.namespace", cfg.Telemetry.Metrics.Namespace, DefaultMetricsNamespace},
		{"telemetry.tracing.sampler", cfg.Telemetry.Tracing.Sampler, DefaultTracingSampler},
		{"telemetry.tracing.sample_ratio", cfg.Telemetry.Tracing.SampleRatio, DefaultTracingSampleRatio},
		{"telemetry.health.liveness_path", cfg.Telemetry.Health.LivenessPath, DefaultHealthLivenessPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if cfg.History.Enabled || cfg.Schema.Watch || cfg.Schema.Prune {
		t.Error("opt-in features should stay disabled by default")
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Bigtable: BigtableConfig{Timeout: 5 * time.Second},
		Schema:   SchemaConfig{Path: "custom.yaml"},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{Level: "debug"},
			Tracing: TracingConfig{Sampler: "never"},
		},
	}
	ApplyDefaults(cfg)

	if cfg.Bigtable.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Bigtable.Timeout)
	}
	if cfg.Schema.Path != "custom.yaml" {
		t.Errorf("schema path = %q", cfg.Schema.Path)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Tracing.SampleRatio != 0 {
		t.Errorf("sample ratio = %v, want 0 for the never sampler", cfg.Telemetry.Tracing.SampleRatio)
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default configuration is invalid: %v", err)
	}
}
