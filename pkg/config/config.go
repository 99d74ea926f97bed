package config

import "time"

// Config is the root configuration structure for gcpolicy.
type Config struct {
	// Bigtable identifies the instance to administer and how to reach it.
	Bigtable BigtableConfig `yaml:"bigtable"`

	// Schema describes where the desired column family layout lives and how
	// the reconciler follows it.
	Schema SchemaConfig `yaml:"schema"`

	// History contains configuration for the audit log of applied
	// modifications.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// BigtableConfig contains connection settings for the table admin API.
type BigtableConfig struct {
	// Project is the Google Cloud project id.
	Project string `yaml:"project"`

	// Instance is the Bigtable instance id.
	Instance string `yaml:"instance"`

	// Table is the table used when a schema document does not name one.
	Table string `yaml:"table"`

	// EmulatorHost is the "host:port" of a Bigtable emulator. When set, the
	// client connects without TLS or credentials.
	EmulatorHost string `yaml:"emulator_host"`

	// Endpoint overrides the admin API endpoint.
	// Default: "bigtableadmin.googleapis.com:443"
	Endpoint string `yaml:"endpoint"`

	// CredentialsFile is a service account key file. Application default
	// credentials are used when empty.
	CredentialsFile string `yaml:"credentials_file"`

	// Timeout bounds each admin RPC. Zero disables the per-call deadline.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// SchemaConfig contains configuration for the desired-state document.
type SchemaConfig struct {
	// Path is the schema YAML file.
	// Default: "./families.yaml"
	Path string `yaml:"path"`

	// Strict turns schema warnings into errors.
	// Default: false
	Strict bool `yaml:"strict"`

	// Watch re-applies the schema whenever the file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// Debounce is how long file events are coalesced before reconciling.
	// Default: 500ms
	Debounce time.Duration `yaml:"debounce"`

	// Schedule is a cron expression for periodic reconciliation. Empty
	// disables the schedule.
	Schedule string `yaml:"schedule"`

	// Prune drops column families present on the table but absent from the
	// schema. This deletes data.
	// Default: false
	Prune bool `yaml:"prune"`
}

// HistoryConfig contains configuration for the modification audit log.
type HistoryConfig struct {
	// Enabled controls whether applied modifications are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the store.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Retention is how long entries are kept. The reconcile daemon and
	// "history prune" delete older entries. Zero keeps entries forever.
	// Default: 0
	Retention time.Duration `yaml:"retention"`

	// SQLite contains SQLite backend configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains SQLite backend configuration.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`

	// BusyTimeout is how long a writer waits for a lock.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration for the reconcile daemon.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where the reconcile daemon serves metrics and health
	// endpoints.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "gcpolicy"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: ""
	Subsystem string `yaml:"subsystem"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "gcpolicy"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the export timeout.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// Enabled controls whether health check endpoints are served.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the path for the liveness probe endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness probe endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout bounds each readiness check.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
