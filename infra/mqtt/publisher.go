// Package mqtt publishes anomaly alerts and batch summaries to an MQTT
// broker so downstream dashboards can react without polling.
package mqtt

import (
	"fmt"
	"sync"

	coremetrics "github.com/loadpulse/loadpulse/core/metrics"
	"github.com/loadpulse/loadpulse/core/model"
)

// AlertPublisher pushes engine events to interested subscribers.
type AlertPublisher interface {
	// PublishAnomaly pushes one classified lane anomaly.
	PublishAnomaly(a model.InsightAnomaly) error
	// PublishMatchSummary pushes the summary of a completed batch.
	PublishMatchSummary(ev coremetrics.MatchEvent) error
	Close()
}

// MockPublisher records published events for tests.
type MockPublisher struct {
	Anomalies []model.InsightAnomaly
	Summaries []coremetrics.MatchEvent
	FailNext  bool
	mu        sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// PublishAnomaly records the anomaly or fails once when configured to.
func (m *MockPublisher) PublishAnomaly(a model.InsightAnomaly) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext {
		m.FailNext = false
		return fmt.Errorf("publish failed")
	}
	m.Anomalies = append(m.Anomalies, a)
	return nil
}

// PublishMatchSummary records the summary.
func (m *MockPublisher) PublishMatchSummary(ev coremetrics.MatchEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext {
		m.FailNext = false
		return fmt.Errorf("publish failed")
	}
	m.Summaries = append(m.Summaries, ev)
	return nil
}

// Close implements AlertPublisher.
func (m *MockPublisher) Close() {}

// Published returns a copy of the recorded anomalies.
func (m *MockPublisher) Published() []model.InsightAnomaly {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.InsightAnomaly, len(m.Anomalies))
	copy(out, m.Anomalies)
	return out
}
