package history

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted in Config.Backend.
const (
	BackendNone     = "none"
	BackendJSONL    = "jsonl"
	BackendRotating = "rotating"
	BackendSQLite   = "sqlite"
)

// Config selects and configures the history backend.
type Config struct {
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendSQLite:
			c.Path = filepath.Join("data", "history.db")
		default:
			c.Path = filepath.Join("data", "history.jsonl")
		}
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 5
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 90
	}
}

// Validate checks the backend name.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendNone, BackendJSONL, BackendRotating, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("history: unknown backend %q", c.Backend)
	}
}

// Open creates the configured store. BackendNone returns a nil Store.
func Open(c Config) (Store, error) {
	switch c.Backend {
	case BackendNone:
		return nil, nil
	}
	if dir := filepath.Dir(c.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
	}
	switch c.Backend {
	case BackendJSONL:
		return NewJSONLStore(c.Path)
	case BackendRotating:
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	case BackendSQLite:
		return NewSQLiteStore(c.Path)
	default:
		return nil, fmt.Errorf("history: unknown backend %q", c.Backend)
	}
}
