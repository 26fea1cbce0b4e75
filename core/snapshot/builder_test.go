package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/loadpulse/loadpulse/core/analytics"
	"github.com/loadpulse/loadpulse/core/geo"
	"github.com/loadpulse/loadpulse/core/insight"
	"github.com/loadpulse/loadpulse/core/match"
	"github.com/loadpulse/loadpulse/core/model"
	"github.com/loadpulse/loadpulse/internal/eventbus"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestBuilder(t *testing.T, bus *eventbus.Bus) *Builder {
	t.Helper()
	engine, err := match.NewEngine(match.DefaultConfig(), geo.NewStaticResolver(nil), nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	detector, err := insight.NewDetector(insight.DefaultConfig())
	if err != nil {
		t.Fatalf("new detector: %v", err)
	}
	agg, err := analytics.NewAggregator(analytics.DefaultConfig())
	if err != nil {
		t.Fatalf("new aggregator: %v", err)
	}
	return NewBuilder(engine, detector, agg, bus, nil)
}

func testRequest() Request {
	return Request{
		Loads: []model.Load{
			{ID: "L1", Origin: "Dallas, TX", Destination: "Atlanta, GA",
				Equipment: model.EquipmentReefer, WeightLbs: 42000, PickupDate: date("2025-11-05")},
		},
		Vehicles: []model.Vehicle{
			{ID: "T1", Location: "Fort Worth, TX", Equipment: model.EquipmentReefer,
				AvailableFrom: date("2025-11-05"), Class: model.ClassTruck, CapacityLbs: 45000},
		},
		LaneSeries: []model.LaneVolumeSeries{
			{Origin: "Dallas, TX", Destination: "Atlanta, GA", Volumes: []int{100, 160}},
		},
		WeeklyVolumes: []model.WeekVolume{{Week: "2025-W45", TotalLoads: 120}},
		ForecastPairs: []model.ForecastPair{{Actual: 100, Predicted: 96}},
		Counters:      model.OperationalCounters{ActiveShipments: 3, UptimePercent: 99.9},
	}
}

func TestBuilderAnalytics(t *testing.T) {
	b := newTestBuilder(t, nil)
	snap := b.Analytics(context.Background(), testRequest())

	// One load covered by one match above 0.5 out of one load.
	if snap.KPIs.MatchAccuracy.Value != 100 {
		t.Errorf("matchAccuracy = %v, want 100", snap.KPIs.MatchAccuracy.Value)
	}
	if len(snap.Insights) != 1 || snap.Insights[0].Kind != model.AnomalySpike {
		t.Errorf("expected one spike insight, got %+v", snap.Insights)
	}
	if len(snap.VolumeTrends) != 1 || snap.VolumeTrends[0].MovingAverage != 120 {
		t.Errorf("unexpected volume trends %+v", snap.VolumeTrends)
	}
	if snap.UpdatedAt.IsZero() {
		t.Error("updatedAt not set")
	}
}

func TestBuilderDashboard(t *testing.T) {
	b := newTestBuilder(t, nil)
	snap := b.Dashboard(context.Background(), testRequest())

	if snap.Alerts.Count != 1 || len(snap.Alerts.TopAlerts) != 1 {
		t.Errorf("unexpected alerts %+v", snap.Alerts)
	}
	if snap.Stats.ActiveShipments != 3 {
		t.Errorf("counters not carried: %+v", snap.Stats)
	}
	if len(snap.RecentActivity) != 1 {
		t.Errorf("expected activity from the match, got %+v", snap.RecentActivity)
	}
}

func TestBuilderPublishesEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	b := newTestBuilder(t, bus)
	b.Dashboard(context.Background(), testRequest())

	var matchSeen, anomalySeen, snapshotSeen bool
	timeout := time.After(time.Second)
	for !(matchSeen && anomalySeen && snapshotSeen) {
		select {
		case e := <-sub:
			switch ev := e.(type) {
			case eventbus.MatchComputed:
				matchSeen = true
				if ev.Event.RequestID == "" || ev.Event.Matches != 1 {
					t.Errorf("unexpected match event %+v", ev.Event)
				}
			case eventbus.AnomalyDetected:
				anomalySeen = true
			case eventbus.SnapshotBuilt:
				snapshotSeen = true
				if ev.Event.Kind != "dashboard" {
					t.Errorf("unexpected snapshot kind %s", ev.Event.Kind)
				}
			}
		case <-timeout:
			t.Fatalf("events missing: match=%v anomaly=%v snapshot=%v", matchSeen, anomalySeen, snapshotSeen)
		}
	}
}
