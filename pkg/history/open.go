package history

import (
	"fmt"

	"mercator-hq/gcpolicy/pkg/config"
)

// Open returns the store selected by cfg.Backend. It does not check
// cfg.Enabled.
func Open(cfg *config.HistoryConfig) (Store, error) {
	switch cfg.Backend {
	case "sqlite", "":
		return NewSQLiteStore(&cfg.SQLite)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
