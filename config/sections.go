package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// RosterConfig locates the default roster.
type RosterConfig struct {
	// Source is a file path or a Google-sheet edit link.
	Source string `json:"source"`
	// TimeoutSeconds bounds a remote fetch.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *RosterConfig) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 15
	}
}

// Validate checks the configured values.
func (c RosterConfig) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("roster.timeout_seconds must be >= 0")
	}
	return nil
}

// Timeout returns the fetch timeout.
func (c RosterConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token on every request.
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// PreferencesConfig locates the preferences file.
type PreferencesConfig struct {
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *PreferencesConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = filepath.Join("data", "preferences.json")
	}
}
