package model

// LaneVolumeSeries holds the per-period shipment volumes observed on a
// lane, oldest first. The last element is the current period.
type LaneVolumeSeries struct {
	Origin      string
	Destination string
	Volumes     []int
}

// Lane returns the display key for the origin-destination pair.
func (s LaneVolumeSeries) Lane() string { return s.Origin + " - " + s.Destination }

// Current returns the latest period volume, or 0 when no periods exist.
func (s LaneVolumeSeries) Current() int {
	if len(s.Volumes) == 0 {
		return 0
	}
	return s.Volumes[len(s.Volumes)-1]
}

// Previous returns the prior period volume, or 0 when fewer than two
// periods exist.
func (s LaneVolumeSeries) Previous() int {
	if len(s.Volumes) < 2 {
		return 0
	}
	return s.Volumes[len(s.Volumes)-2]
}

// AnomalyKind classifies the direction of a lane volume change.
type AnomalyKind string

const (
	AnomalySpike  AnomalyKind = "spike"
	AnomalyDrop   AnomalyKind = "drop"
	AnomalyStable AnomalyKind = "stable"
)

// Severity buckets the magnitude of a percent change.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// InsightAnomaly is the classified result of comparing a lane's current
// volume against the prior period.
type InsightAnomaly struct {
	Lane          string      `json:"lane"`
	Origin        string      `json:"origin"`
	Destination   string      `json:"destination"`
	Kind          AnomalyKind `json:"kind"`
	Severity      Severity    `json:"severity"`
	PercentChange float64     `json:"percentChange"`
	Message       string      `json:"message"`
}
