package analytics

import "fmt"

// Config holds the aggregation tunables.
type Config struct {
	// MinAcceptableScore is the match score counted towards accuracy.
	MinAcceptableScore float64 `json:"min_acceptable_score"`
	// TopAlerts caps the dashboard alert list.
	TopAlerts int `json:"top_alerts"`
	// MovingAverageWeeks is the trailing window of the volume trend.
	MovingAverageWeeks int `json:"moving_average_weeks"`
	// LaneHighlights caps the dashboard lane list.
	LaneHighlights int `json:"lane_highlights"`
	// RecentActivity caps the dashboard activity feed.
	RecentActivity int `json:"recent_activity"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MinAcceptableScore: 0.5,
		TopAlerts:          5,
		MovingAverageWeeks: 3,
		LaneHighlights:     3,
		RecentActivity:     5,
	}
}

// SetDefaults fills zero fields with the defaults.
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if c.MinAcceptableScore == 0 {
		c.MinAcceptableScore = def.MinAcceptableScore
	}
	if c.TopAlerts == 0 {
		c.TopAlerts = def.TopAlerts
	}
	if c.MovingAverageWeeks == 0 {
		c.MovingAverageWeeks = def.MovingAverageWeeks
	}
	if c.LaneHighlights == 0 {
		c.LaneHighlights = def.LaneHighlights
	}
	if c.RecentActivity == 0 {
		c.RecentActivity = def.RecentActivity
	}
}

// Validate checks the tunables. Errors are fatal at startup.
func (c Config) Validate() error {
	if c.MinAcceptableScore < 0 || c.MinAcceptableScore > 1 {
		return fmt.Errorf("min_acceptable_score must be in [0,1], got %v", c.MinAcceptableScore)
	}
	if c.TopAlerts <= 0 {
		return fmt.Errorf("top_alerts must be positive, got %d", c.TopAlerts)
	}
	if c.MovingAverageWeeks <= 0 {
		return fmt.Errorf("moving_average_weeks must be positive, got %d", c.MovingAverageWeeks)
	}
	if c.LaneHighlights <= 0 {
		return fmt.Errorf("lane_highlights must be positive, got %d", c.LaneHighlights)
	}
	if c.RecentActivity <= 0 {
		return fmt.Errorf("recent_activity must be positive, got %d", c.RecentActivity)
	}
	return nil
}
