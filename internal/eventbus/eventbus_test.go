package eventbus

import (
	"testing"
	"time"

	coremetrics "github.com/loadpulse/loadpulse/core/metrics"
	"github.com/loadpulse/loadpulse/core/model"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	defer b.Close()

	sub := b.Subscribe()
	b.Publish(MatchComputed{Event: coremetrics.MatchEvent{RequestID: "r1", Matches: 3}})

	select {
	case e := <-sub:
		mc, ok := e.(MatchComputed)
		if !ok {
			t.Fatalf("unexpected event type %T", e)
		}
		if mc.Event.RequestID != "r1" || mc.Event.Matches != 3 {
			t.Errorf("unexpected event %+v", mc)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestFanOut(t *testing.T) {
	b := New()
	defer b.Close()

	a := b.Subscribe()
	c := b.Subscribe()
	b.Publish(AnomalyDetected{Anomaly: model.InsightAnomaly{Lane: "x"}})

	for _, sub := range []<-chan Event{a, c} {
		select {
		case e := <-sub:
			if ad, ok := e.(AnomalyDetected); !ok || ad.Anomaly.Lane != "x" {
				t.Errorf("unexpected event %+v", e)
			}
		case <-time.After(time.Second):
			t.Fatal("event not delivered to all subscribers")
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	defer b.Close()

	sub := b.Subscribe()
	b.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatal("unsubscribed channel should be closed")
	}
	// Publishing after unsubscribe must not panic.
	b.Publish(SnapshotBuilt{})
}

func TestPublishAfterClose(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Close()
	if _, ok := <-sub; ok {
		t.Fatal("subscriber channel should be closed")
	}
	b.Publish(MatchComputed{})
	b.Close() // double close is a no-op
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := New()
	defer b.Close()

	_ = b.Subscribe() // never drained
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			b.Publish(MatchComputed{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
