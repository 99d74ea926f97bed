package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"negative timeout", func(c *Config) { c.Bigtable.Timeout = -1 }, "bigtable.timeout"},
		{"bad emulator host", func(c *Config) { c.Bigtable.EmulatorHost = "localhost" }, "bigtable.emulator_host"},
		{"no endpoint", func(c *Config) { c.Bigtable.Endpoint = "" }, "bigtable.endpoint"},
		{"emulator with credentials", func(c *Config) {
			c.Bigtable.EmulatorHost = "localhost:8086"
			c.Bigtable.CredentialsFile = "key.json"
		}, "bigtable.credentials_file"},
		{"empty schema path", func(c *Config) { c.Schema.Path = "" }, "schema.path"},
		{"bad cron", func(c *Config) { c.Schema.Schedule = "* *" }, "schema.schedule"},
		{"descriptor cron", func(c *Config) { c.Schema.Schedule = "@hourly" }, ""},
		{"history sqlite without path", func(c *Config) {
			c.History.Enabled = true
			c.History.SQLite.Path = ""
		}, "history.sqlite.path"},
		{"history negative retention", func(c *Config) {
			c.History.Enabled = true
			c.History.Retention = -time.Hour
		}, "history.retention"},
		{"history disabled ignores backend", func(c *Config) { c.History.Backend = "bogus" }, ""},
		{"metrics bad path", func(c *Config) {
			c.Telemetry.Metrics.Enabled = true
			c.Telemetry.Metrics.Path = "metrics"
		}, "telemetry.metrics.path"},
		{"metrics bad address", func(c *Config) {
			c.Telemetry.Metrics.Enabled = true
			c.Telemetry.Metrics.ListenAddress = "9090"
		}, "telemetry.metrics.listen_address"},
		{"tracing without endpoint", func(c *Config) { c.Telemetry.Tracing.Enabled = true }, "telemetry.tracing.endpoint"},
		{"bad sampler", func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" }, "telemetry.tracing.sampler"},
		{"ratio too large", func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
		{"health bad path", func(c *Config) {
			c.Telemetry.Health.Enabled = true
			c.Telemetry.Health.ReadinessPath = "ready"
		}, "telemetry.health.readiness_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %q in %v", tt.wantField, verr.Errors)
			}
		})
	}
}

func TestValidationError_Format(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("single error = %q", got)
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	got := multi.Error()
	if !strings.Contains(got, "with 2 errors") || !strings.Contains(got, "  - b: worse") {
		t.Errorf("multi error = %q", got)
	}
}

func TestRequireTarget(t *testing.T) {
	cfg := Default()
	err := cfg.Bigtable.RequireTarget()

	var verr ValidationError
	if !errors.As(err, &verr) || len(verr.Errors) != 2 {
		t.Fatalf("expected two missing fields, got %v", err)
	}

	cfg.Bigtable.Project = "p"
	cfg.Bigtable.Instance = "i"
	if err := cfg.Bigtable.RequireTarget(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
