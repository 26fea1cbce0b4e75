// Package metrics defines the observability events emitted by the engines
// and the sink interfaces that record them.
package metrics

import "time"

// MatchEvent summarizes one matching batch.
type MatchEvent struct {
	RequestID string
	Loads     int
	Vehicles  int
	Matches   int
	Skipped   int
	Duration  time.Duration
	Time      time.Time
}

// AnomalyEvent records one classified lane anomaly.
type AnomalyEvent struct {
	Lane          string
	Kind          string
	Severity      string
	PercentChange float64
	Time          time.Time
}

// SnapshotEvent records the production of a snapshot view.
type SnapshotEvent struct {
	Kind     string // "analytics" or "dashboard"
	Duration time.Duration
	Time     time.Time
}

// Sink records matching and anomaly events for observability purposes.
type Sink interface {
	RecordMatch(ev MatchEvent) error
	RecordAnomaly(ev AnomalyEvent) error
}

// SnapshotRecorder is implemented by sinks that also track snapshot
// builds.
type SnapshotRecorder interface {
	RecordSnapshot(ev SnapshotEvent) error
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) RecordMatch(MatchEvent) error       { return nil }
func (NopSink) RecordAnomaly(AnomalyEvent) error   { return nil }
func (NopSink) RecordSnapshot(SnapshotEvent) error { return nil }
