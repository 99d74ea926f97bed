// Package config provides configuration management for gcpolicy.
//
// Configuration is read from a YAML file, completed with defaults and
// overridden from the environment. Every command works without a file; in
// that case only defaults and environment variables apply.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("gcpolicy.yaml")                 // file + defaults
//	cfg, err := config.LoadConfigWithEnvOverrides("gcpolicy.yaml") // file + defaults + env
//	cfg, err := config.LoadConfigWithEnvOverrides("")              // defaults + env
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention GCPOLICY_SECTION_FIELD:
//
//   - GCPOLICY_BIGTABLE_PROJECT overrides bigtable.project
//   - GCPOLICY_SCHEMA_PATH overrides schema.path
//   - GCPOLICY_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// BIGTABLE_EMULATOR_HOST, the variable honoured by every Bigtable client
// library, sets bigtable.emulator_host unless GCPOLICY_BIGTABLE_EMULATOR_HOST
// is also set. GOOGLE_CLOUD_PROJECT fills bigtable.project when nothing else
// does.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Process Configuration
//
// The CLI loads the file, applies flag overrides and publishes the result;
// every command then reads it back:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("gcpolicy.yaml")
//	if err != nil {
//	    return err
//	}
//	config.SetConfig(cfg)
//	...
//	table := config.MustGetConfig().Bigtable.Table
//
// # Example Configuration
//
//	bigtable:
//	  project: "my-project"
//	  instance: "my-instance"
//	  table: "events"
//	  timeout: "30s"
//
//	schema:
//	  path: "./families.yaml"
//	  watch: true
//	  schedule: "*/15 * * * *"
//
//	history:
//	  enabled: true
//	  backend: "sqlite"
//	  sqlite:
//	    path: "data/history.db"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//	  metrics:
//	    enabled: true
//	    listen_address: "127.0.0.1:9090"
package config
