package config

import "sync/atomic"

// current is the configuration the running command resolved: file,
// environment and flag overrides applied, validated.
var current atomic.Pointer[Config]

// SetConfig publishes cfg as the process configuration. Commands call it
// once flag overrides are applied; tests call it directly.
func SetConfig(cfg *Config) {
	current.Store(cfg)
}

// GetConfig returns the published configuration, or nil before SetConfig.
func GetConfig() *Config {
	return current.Load()
}

// MustGetConfig is GetConfig for code that only runs after setup.
func MustGetConfig() *Config {
	cfg := current.Load()
	if cfg == nil {
		panic("config: no configuration published; SetConfig was not called")
	}
	return cfg
}
