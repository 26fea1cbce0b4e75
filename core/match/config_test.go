package match

import (
	"testing"

	"github.com/loadpulse/loadpulse/core/geo"
)

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"weights do not sum to 1", func(c *Config) { c.LocationWeight = 0.5 }},
		{"negative weight", func(c *Config) { c.DateWeight = -0.1; c.LocationWeight = 0.8 }},
		{"zero distance scale", func(c *Config) { c.DistanceScaleKm = -1 }},
		{"zero lookahead", func(c *Config) { c.MaxLookaheadDays = -1 }},
		{"target utilization at 1", func(c *Config) { c.TargetUtilization = 1 }},
		{"negative timeout", func(c *Config) { c.ResolveTimeoutMs = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LocationWeight = 0.9
	if _, err := NewEngine(cfg, geo.NewStaticResolver(nil), nil); err == nil {
		t.Fatal("invalid weights must be fatal at construction")
	}
	if _, err := NewEngine(DefaultConfig(), nil, nil); err == nil {
		t.Fatal("missing resolver must be fatal at construction")
	}
}

func TestConfigSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.DistanceScaleKm != 250 || cfg.MaxLookaheadDays != 7 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	// Explicit weights are preserved, only zero gaps are filled.
	cfg = Config{LocationWeight: 0.25, DateWeight: 0.25, CapacityWeight: 0.25, PriorityWeight: 0.25}
	cfg.SetDefaults()
	if cfg.LocationWeight != 0.25 {
		t.Errorf("explicit weight overwritten: %+v", cfg)
	}
}
