package store

import (
	"fmt"
	"os"
	"path/filepath"

	"playbook/internal/config"
	"playbook/internal/core"
)

// NewStoreFromConfig creates a core.Store implementation based on the
// database config type.
func NewStoreFromConfig(cfg config.DatabaseConfig) (core.Store, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "playbook.db"))
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
