// Package eventbus decouples the snapshot pipeline from observability:
// engines publish events, the service fans them out to metrics sinks and
// alert publishers.
package eventbus

import (
	"sync"
	"time"

	coremetrics "github.com/loadpulse/loadpulse/core/metrics"
	"github.com/loadpulse/loadpulse/core/model"
)

// MatchComputed is published after every matching batch.
type MatchComputed struct {
	Event coremetrics.MatchEvent
}

// AnomalyDetected is published for every classified lane anomaly.
type AnomalyDetected struct {
	Anomaly model.InsightAnomaly
	Time    time.Time
}

// SnapshotBuilt is published after a snapshot view is assembled.
type SnapshotBuilt struct {
	Event coremetrics.SnapshotEvent
}

// Event is any of the domain events above.
type Event interface{}

// Bus is a fan-out publish/subscribe bus. Delivery is non-blocking: slow
// subscribers drop events rather than stalling the pipeline.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Event
	closed bool
}

// New creates a new Bus.
func New() *Bus { return &Bus{} }

// Publish sends the event to all subscribers.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes the bus and all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
