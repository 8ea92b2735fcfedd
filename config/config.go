package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/teamgen/auth"
	"github.com/kilianp07/teamgen/core/balance"
	"github.com/kilianp07/teamgen/core/balance/history"
	"github.com/kilianp07/teamgen/core/metrics"
	"github.com/kilianp07/teamgen/infra/mqtt"
	"github.com/kilianp07/teamgen/pkg/display"
)

// EnvPrefix marks environment overrides. K_BALANCE__MAX_RATING_DELTA sets
// balance.max_rating_delta.
const EnvPrefix = "K_"

type Config struct {
	Balance     balance.Config    `json:"balance"`
	Roster      RosterConfig      `json:"roster"`
	Server      ServerConfig      `json:"server"`
	History     history.Config    `json:"history"`
	Metrics     metrics.Config    `json:"metrics"`
	MQTT        mqtt.Config       `json:"mqtt"`
	Display     display.Theme     `json:"display"`
	Sentry      SentryConfig      `json:"sentry"`
	Auth        auth.Conf         `json:"auth"`
	Preferences PreferencesConfig `json:"preferences"`
}

// Load reads path, applies environment overrides, then defaults, and
// validates the result. An empty path loads the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides: K_BALANCE__MAX_RATING_DELTA sets
	// balance.max_rating_delta.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Balance.SetDefaults()
	c.Roster.SetDefaults()
	c.Server.SetDefaults()
	c.History.SetDefaults()
	c.MQTT.SetDefaults()
	c.Display.SetDefaults()
	c.Preferences.SetDefaults()
}

// Validate checks every section and joins the failures.
func (c Config) Validate() error {
	return errors.Join(
		c.Balance.Validate(),
		c.Roster.Validate(),
		c.History.Validate(),
		c.Metrics.Validate(),
		c.MQTT.Validate(),
		c.Display.Validate(),
		c.Sentry.Validate(),
		c.Auth.Validate(),
	)
}
