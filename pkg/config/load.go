package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. An empty path skips the file and starts
// from defaults. Environment variables always take precedence over
// file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file (if any)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format GCPOLICY_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Bigtable overrides
	if val := os.Getenv("GCPOLICY_BIGTABLE_PROJECT"); val != "" {
		cfg.Bigtable.Project = val
	} else if cfg.Bigtable.Project == "" {
		cfg.Bigtable.Project = os.Getenv("GOOGLE_CLOUD_PROJECT")
	}
	if val := os.Getenv("GCPOLICY_BIGTABLE_INSTANCE"); val != "" {
		cfg.Bigtable.Instance = val
	}
	if val := os.Getenv("GCPOLICY_BIGTABLE_TABLE"); val != "" {
		cfg.Bigtable.Table = val
	}
	if val := os.Getenv("GCPOLICY_BIGTABLE_EMULATOR_HOST"); val != "" {
		cfg.Bigtable.EmulatorHost = val
	} else if val := os.Getenv("BIGTABLE_EMULATOR_HOST"); val != "" {
		cfg.Bigtable.EmulatorHost = val
	}
	if val := os.Getenv("GCPOLICY_BIGTABLE_ENDPOINT"); val != "" {
		cfg.Bigtable.Endpoint = val
	}
	if val := os.Getenv("GCPOLICY_BIGTABLE_CREDENTIALS_FILE"); val != "" {
		cfg.Bigtable.CredentialsFile = val
	}
	if val := os.Getenv("GCPOLICY_BIGTABLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Bigtable.Timeout = d
		}
	}

	// Schema overrides
	if val := os.Getenv("GCPOLICY_SCHEMA_PATH"); val != "" {
		cfg.Schema.Path = val
	}
	if val := os.Getenv("GCPOLICY_SCHEMA_STRICT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Schema.Strict = b
		}
	}
	if val := os.Getenv("GCPOLICY_SCHEMA_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Schema.Watch = b
		}
	}
	if val := os.Getenv("GCPOLICY_SCHEMA_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Schema.Debounce = d
		}
	}
	if val := os.Getenv("GCPOLICY_SCHEMA_SCHEDULE"); val != "" {
		cfg.Schema.Schedule = val
	}
	if val := os.Getenv("GCPOLICY_SCHEMA_PRUNE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Schema.Prune = b
		}
	}

	// History overrides
	if val := os.Getenv("GCPOLICY_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("GCPOLICY_HISTORY_BACKEND"); val != "" {
		cfg.History.Backend = val
	}
	if val := os.Getenv("GCPOLICY_HISTORY_RETENTION"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.History.Retention = d
		}
	}
	if val := os.Getenv("GCPOLICY_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLite.Path = val
	}

	// Telemetry overrides
	if val := os.Getenv("GCPOLICY_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("GCPOLICY_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("GCPOLICY_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("GCPOLICY_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("GCPOLICY_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("GCPOLICY_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("GCPOLICY_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}
