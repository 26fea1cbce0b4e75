// Package config loads and validates the service configuration. Invalid
// tuning (weights, thresholds) is rejected here, at startup, and never
// clamped mid-flight.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/loadpulse/loadpulse/core/analytics"
	"github.com/loadpulse/loadpulse/core/insight"
	"github.com/loadpulse/loadpulse/core/match"
	"github.com/loadpulse/loadpulse/core/metrics"
	"github.com/loadpulse/loadpulse/infra/mqtt"
)

// APIConfig defines the HTTP listener.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// GeoConfig selects the location resolver implementation.
type GeoConfig struct {
	// Provider is "static" or "http".
	Provider string `json:"provider"`
	// BaseURL and APIKey configure the http provider.
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	// TimeoutMs bounds each geocoding request.
	TimeoutMs int `json:"timeout_ms"`
}

// SetDefaults applies sane defaults.
func (c *GeoConfig) SetDefaults() {
	if c.Provider == "" {
		c.Provider = "static"
	}
	if c.TimeoutMs == 0 {
		c.TimeoutMs = 3000
	}
}

// Validate checks the resolver selection.
func (c GeoConfig) Validate() error {
	switch c.Provider {
	case "static":
	case "http":
		if c.BaseURL == "" {
			return fmt.Errorf("geo provider %q requires base_url", c.Provider)
		}
	default:
		return fmt.Errorf("unknown geo provider %q", c.Provider)
	}
	return nil
}

// Config is the root service configuration.
type Config struct {
	API       APIConfig        `json:"api"`
	Match     match.Config     `json:"match"`
	Insight   insight.Config   `json:"insight"`
	Analytics analytics.Config `json:"analytics"`
	Geo       GeoConfig        `json:"geo"`
	MQTT      mqtt.Config      `json:"mqtt"`
	Metrics   metrics.Config   `json:"metrics"`
}

// Load reads the configuration file (yaml or json by extension), applies
// LP_ environment overrides, fills defaults and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("LP_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "lp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a fully defaulted configuration, used when no file is
// supplied.
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Finalize(); err != nil {
		// Defaults are static and always valid.
		panic(err)
	}
	return cfg
}

// Finalize fills defaults and validates every section. Any error here is
// a configuration error and fatal at startup.
func (c *Config) Finalize() error {
	c.API.SetDefaults()
	c.Match.SetDefaults()
	c.Insight.SetDefaults()
	c.Analytics.SetDefaults()
	c.Geo.SetDefaults()
	c.MQTT.SetDefaults()
	c.Metrics.SetDefaults()

	if err := c.Match.Validate(); err != nil {
		return err
	}
	if err := c.Insight.Validate(); err != nil {
		return err
	}
	if err := c.Analytics.Validate(); err != nil {
		return err
	}
	if err := c.Geo.Validate(); err != nil {
		return err
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	return nil
}
