package metrics

import coremetrics "github.com/loadpulse/loadpulse/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordMatch forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordMatch(ev coremetrics.MatchEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordMatch(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordAnomaly forwards the event to all sinks.
func (m *MultiSink) RecordAnomaly(ev coremetrics.AnomalyEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordAnomaly(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSnapshot forwards snapshot events to sinks that support them.
func (m *MultiSink) RecordSnapshot(ev coremetrics.SnapshotEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.SnapshotRecorder); ok {
			if err := rec.RecordSnapshot(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
