package config

import "time"

// Default values for configuration fields.
const (
	// Bigtable defaults
	DefaultBigtableEndpoint = "bigtableadmin.googleapis.com:443"
	DefaultBigtableTimeout  = 30 * time.Second

	// Schema defaults
	DefaultSchemaPath     = "./families.yaml"
	DefaultSchemaDebounce = 500 * time.Millisecond

	// History defaults
	DefaultHistoryBackend            = "sqlite"
	DefaultHistorySQLitePath         = "data/history.db"
	DefaultHistorySQLiteMaxOpenConns = 4
	DefaultHistorySQLiteBusyTimeout  = 5 * time.Second

	// Telemetry defaults
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "text"
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "gcpolicy"
	DefaultTracingSampler       = "ratio"
	DefaultTracingSampleRatio   = 1.0
	DefaultTracingServiceName   = "gcpolicy"
	DefaultTracingOTLPTimeout   = 10 * time.Second
	DefaultHealthLivenessPath   = "/health"
	DefaultHealthReadinessPath  = "/ready"
	DefaultHealthCheckTimeout   = 5 * time.Second
)

// ApplyDefaults fills every unset field of cfg with its default value.
func ApplyDefaults(cfg *Config) {
	// Bigtable defaults
	if cfg.Bigtable.Endpoint == "" {
		cfg.Bigtable.Endpoint = DefaultBigtableEndpoint
	}
	if cfg.Bigtable.Timeout == 0 {
		cfg.Bigtable.Timeout = DefaultBigtableTimeout
	}

	// Schema defaults
	if cfg.Schema.Path == "" {
		cfg.Schema.Path = DefaultSchemaPath
	}
	if cfg.Schema.Debounce == 0 {
		cfg.Schema.Debounce = DefaultSchemaDebounce
	}

	// History defaults
	if cfg.History.Backend == "" {
		cfg.History.Backend = DefaultHistoryBackend
	}
	if cfg.History.SQLite.Path == "" {
		cfg.History.SQLite.Path = DefaultHistorySQLitePath
	}
	if cfg.History.SQLite.MaxOpenConns == 0 {
		cfg.History.SQLite.MaxOpenConns = DefaultHistorySQLiteMaxOpenConns
	}
	if cfg.History.SQLite.BusyTimeout == 0 {
		cfg.History.SQLite.BusyTimeout = DefaultHistorySQLiteBusyTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 && cfg.Telemetry.Tracing.Sampler == DefaultTracingSampler {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultTracingOTLPTimeout
	}
	if cfg.Telemetry.Health.LivenessPath == "" {
		cfg.Telemetry.Health.LivenessPath = DefaultHealthLivenessPath
	}
	if cfg.Telemetry.Health.ReadinessPath == "" {
		cfg.Telemetry.Health.ReadinessPath = DefaultHealthReadinessPath
	}
	if cfg.Telemetry.Health.CheckTimeout == 0 {
		cfg.Telemetry.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}

// Default returns a configuration with every field at its default value.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
