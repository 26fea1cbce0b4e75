package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loadpulse/loadpulse/config"
	coremetrics "github.com/loadpulse/loadpulse/core/metrics"
	"github.com/loadpulse/loadpulse/core/model"
	"github.com/loadpulse/loadpulse/infra/mqtt"
	"github.com/loadpulse/loadpulse/internal/eventbus"
)

func TestNewServiceDefaults(t *testing.T) {
	svc, err := New(config.Default())
	require.NoError(t, err)
	defer svc.Close()
	require.NotNil(t, svc.Builder)
	require.Nil(t, svc.publisher)
}

func TestServiceRoutes(t *testing.T) {
	svc, err := New(config.Default())
	require.NoError(t, err)
	defer svc.Close()

	srv := httptest.NewServer(svc.Mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := `{
		"loads": [{"id": "L1", "origin": "Dallas, TX", "destination": "Atlanta, GA",
			"equipment": "Dry Van", "weight": 38000, "pickupDate": "2026-09-02"}],
		"trucks": [{"id": "T1", "location": "Fort Worth, TX", "equipment": "Dry Van",
			"availableFrom": "2026-09-02"}]
	}`
	resp, err = http.Post(srv.URL+"/api/match", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/dashboard", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

type recordingSink struct {
	coremetrics.NopSink
	matches   chan coremetrics.MatchEvent
	anomalies chan coremetrics.AnomalyEvent
}

func (s *recordingSink) RecordMatch(ev coremetrics.MatchEvent) error {
	s.matches <- ev
	return nil
}

func (s *recordingSink) RecordAnomaly(ev coremetrics.AnomalyEvent) error {
	s.anomalies <- ev
	return nil
}

func TestServiceForwardsEvents(t *testing.T) {
	svc, err := New(config.Default())
	require.NoError(t, err)
	defer svc.Close()

	sink := &recordingSink{
		matches:   make(chan coremetrics.MatchEvent, 1),
		anomalies: make(chan coremetrics.AnomalyEvent, 1),
	}
	pub := mqtt.NewMockPublisher()
	svc.sink = sink
	svc.publisher = pub

	events := svc.bus.Subscribe()
	go svc.forward(events)

	svc.bus.Publish(eventbus.MatchComputed{Event: coremetrics.MatchEvent{RequestID: "r1", Matches: 2}})
	svc.bus.Publish(eventbus.AnomalyDetected{
		Anomaly: model.InsightAnomaly{Lane: "Dallas, TX - Atlanta, GA", Kind: model.AnomalySpike, Severity: model.SeverityHigh, PercentChange: 60},
		Time:    time.Now(),
	})

	select {
	case ev := <-sink.matches:
		require.Equal(t, "r1", ev.RequestID)
	case <-time.After(time.Second):
		t.Fatal("match event not forwarded")
	}
	select {
	case ev := <-sink.anomalies:
		require.Equal(t, "spike", ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("anomaly event not forwarded")
	}
	require.Eventually(t, func() bool {
		return len(pub.Published()) == 1
	}, time.Second, 10*time.Millisecond)
}
