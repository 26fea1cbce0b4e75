// Package insight classifies lane volume movements into spike, drop or
// stable anomalies with a severity band.
package insight

import (
	"fmt"

	"github.com/loadpulse/loadpulse/core/model"
)

// Config holds the classification thresholds, expressed as absolute
// percent-change values.
type Config struct {
	// ChangeThreshold separates stable from spike/drop. Default 10.
	ChangeThreshold float64 `json:"change_threshold"`
	// MediumSeverity is the lower bound of the medium band. Default 20.
	MediumSeverity float64 `json:"medium_severity"`
	// HighSeverity is the lower bound of the high band. Default 50.
	HighSeverity float64 `json:"high_severity"`
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{ChangeThreshold: 10, MediumSeverity: 20, HighSeverity: 50}
}

// SetDefaults fills zero thresholds with the defaults.
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if c.ChangeThreshold == 0 {
		c.ChangeThreshold = def.ChangeThreshold
	}
	if c.MediumSeverity == 0 {
		c.MediumSeverity = def.MediumSeverity
	}
	if c.HighSeverity == 0 {
		c.HighSeverity = def.HighSeverity
	}
}

// Validate checks that the thresholds are ordered. Errors are fatal at
// startup.
func (c Config) Validate() error {
	if c.ChangeThreshold <= 0 {
		return fmt.Errorf("change_threshold must be positive, got %v", c.ChangeThreshold)
	}
	if c.MediumSeverity <= c.ChangeThreshold {
		return fmt.Errorf("medium_severity (%v) must exceed change_threshold (%v)", c.MediumSeverity, c.ChangeThreshold)
	}
	if c.HighSeverity <= c.MediumSeverity {
		return fmt.Errorf("high_severity (%v) must exceed medium_severity (%v)", c.HighSeverity, c.MediumSeverity)
	}
	return nil
}

// Detector classifies per-lane volume series. It is stateless and safe
// for concurrent use.
type Detector struct {
	cfg Config
}

// NewDetector validates the thresholds and returns a detector.
func NewDetector(cfg Config) (*Detector, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("insight config: %w", err)
	}
	return &Detector{cfg: cfg}, nil
}

// DetectAnomalies classifies each lane's current-versus-prior volume.
// Lanes with fewer than two observed periods are silently omitted.
func (d *Detector) DetectAnomalies(series []model.LaneVolumeSeries) []model.InsightAnomaly {
	var out []model.InsightAnomaly
	for _, s := range series {
		if len(s.Volumes) < 2 {
			continue
		}
		out = append(out, d.classify(s))
	}
	return out
}

func (d *Detector) classify(s model.LaneVolumeSeries) model.InsightAnomaly {
	pc := PercentChange(s.Current(), s.Previous())

	kind := model.AnomalyStable
	switch {
	case pc >= d.cfg.ChangeThreshold:
		kind = model.AnomalySpike
	case pc <= -d.cfg.ChangeThreshold:
		kind = model.AnomalyDrop
	}

	abs := pc
	if abs < 0 {
		abs = -abs
	}
	severity := model.SeverityLow
	switch {
	case abs > d.cfg.HighSeverity:
		severity = model.SeverityHigh
	case abs >= d.cfg.MediumSeverity:
		severity = model.SeverityMedium
	}

	return model.InsightAnomaly{
		Lane:          s.Lane(),
		Origin:        s.Origin,
		Destination:   s.Destination,
		Kind:          kind,
		Severity:      severity,
		PercentChange: pc,
		Message:       message(s.Lane(), kind, pc),
	}
}

func message(lane string, kind model.AnomalyKind, pc float64) string {
	switch kind {
	case model.AnomalySpike:
		return fmt.Sprintf("Volume on %s rose %.1f%% versus the prior period", lane, pc)
	case model.AnomalyDrop:
		return fmt.Sprintf("Volume on %s fell %.1f%% versus the prior period", lane, -pc)
	}
	return fmt.Sprintf("Volume on %s held steady (%.1f%%)", lane, pc)
}

// PercentChange returns the signed percent change from previous to
// current. A zero previous volume maps to 100 when volume appeared and 0
// when both periods are empty, avoiding division by zero.
func PercentChange(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}
