package match

import (
	"fmt"
	"math"
)

// Config holds the scoring weights and tunable constants of the engine.
// Weights must sum to 1.0; invalid configuration is rejected at
// construction and never clamped mid-flight.
type Config struct {
	LocationWeight float64 `json:"location_weight"`
	DateWeight     float64 `json:"date_weight"`
	CapacityWeight float64 `json:"capacity_weight"`
	PriorityWeight float64 `json:"priority_weight"`

	// DistanceScaleKm controls the inverse-distance normalization
	// 1/(1+d/scale) of the location sub-score.
	DistanceScaleKm float64 `json:"distance_scale_km"`

	// MaxLookaheadDays is the window over which the date-fit sub-score
	// decays linearly from 1 to 0.
	MaxLookaheadDays int `json:"max_lookahead_days"`

	// TargetUtilization is the load/capacity ratio that scores highest.
	TargetUtilization float64 `json:"target_utilization"`

	// ResolveTimeoutMs bounds each location lookup. A timeout degrades
	// the location sub-score to neutral instead of failing the batch.
	ResolveTimeoutMs int `json:"resolve_timeout_ms"`

	// Workers bounds the per-load scoring fan-out.
	Workers int `json:"workers"`
}

// DefaultConfig returns the documented default tuning.
func DefaultConfig() Config {
	return Config{
		LocationWeight:    0.4,
		DateWeight:        0.3,
		CapacityWeight:    0.2,
		PriorityWeight:    0.1,
		DistanceScaleKm:   250,
		MaxLookaheadDays:  7,
		TargetUtilization: 0.8,
		ResolveTimeoutMs:  2000,
		Workers:           4,
	}
}

// SetDefaults fills zero fields with the default tuning.
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if c.LocationWeight == 0 && c.DateWeight == 0 && c.CapacityWeight == 0 && c.PriorityWeight == 0 {
		c.LocationWeight = def.LocationWeight
		c.DateWeight = def.DateWeight
		c.CapacityWeight = def.CapacityWeight
		c.PriorityWeight = def.PriorityWeight
	}
	if c.DistanceScaleKm == 0 {
		c.DistanceScaleKm = def.DistanceScaleKm
	}
	if c.MaxLookaheadDays == 0 {
		c.MaxLookaheadDays = def.MaxLookaheadDays
	}
	if c.TargetUtilization == 0 {
		c.TargetUtilization = def.TargetUtilization
	}
	if c.ResolveTimeoutMs == 0 {
		c.ResolveTimeoutMs = def.ResolveTimeoutMs
	}
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
}

// Validate checks the tuning. Errors here are configuration errors and
// fatal at startup.
func (c Config) Validate() error {
	for name, w := range map[string]float64{
		"location_weight": c.LocationWeight,
		"date_weight":     c.DateWeight,
		"capacity_weight": c.CapacityWeight,
		"priority_weight": c.PriorityWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, w)
		}
	}
	sum := c.LocationWeight + c.DateWeight + c.CapacityWeight + c.PriorityWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("score weights must sum to 1.0, got %v", sum)
	}
	if c.DistanceScaleKm <= 0 {
		return fmt.Errorf("distance_scale_km must be positive, got %v", c.DistanceScaleKm)
	}
	if c.MaxLookaheadDays <= 0 {
		return fmt.Errorf("max_lookahead_days must be positive, got %d", c.MaxLookaheadDays)
	}
	if c.TargetUtilization <= 0 || c.TargetUtilization >= 1 {
		return fmt.Errorf("target_utilization must be in (0,1), got %v", c.TargetUtilization)
	}
	if c.ResolveTimeoutMs < 0 {
		return fmt.Errorf("resolve_timeout_ms must not be negative, got %d", c.ResolveTimeoutMs)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
