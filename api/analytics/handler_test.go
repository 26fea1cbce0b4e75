package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	coreanalytics "github.com/loadpulse/loadpulse/core/analytics"
	"github.com/loadpulse/loadpulse/core/geo"
	"github.com/loadpulse/loadpulse/core/insight"
	corematch "github.com/loadpulse/loadpulse/core/match"
	"github.com/loadpulse/loadpulse/core/model"
	"github.com/loadpulse/loadpulse/core/snapshot"
	"github.com/loadpulse/loadpulse/infra/logger"
)

func newTestBuilder(t *testing.T) *snapshot.Builder {
	t.Helper()
	engine, err := corematch.NewEngine(corematch.DefaultConfig(), geo.NewStaticResolver(nil), logger.Nop())
	require.NoError(t, err)
	detector, err := insight.NewDetector(insight.DefaultConfig())
	require.NoError(t, err)
	agg, err := coreanalytics.NewAggregator(coreanalytics.DefaultConfig())
	require.NoError(t, err)
	return snapshot.NewBuilder(engine, detector, agg, nil, logger.Nop())
}

const sampleBody = `{
	"laneVolumes": [
		{"origin": "Dallas, TX", "destination": "Atlanta, GA", "volumes": [100, 160]},
		{"origin": "Chicago, IL", "destination": "Denver, CO", "volumes": [90, 88]}
	],
	"weeklyVolumes": [
		{"week": "2026-W33", "totalLoads": 120},
		{"week": "2026-W34", "totalLoads": 135},
		{"week": "2026-W35", "totalLoads": 128}
	],
	"forecast": [
		{"actual": 100, "predicted": 104},
		{"actual": 120, "predicted": 113}
	],
	"counters": {
		"activeShipments": 42,
		"totalLoads": 200,
		"availableTrucks": 31,
		"fleetUtilization": 87.5,
		"uptimePercent": 99.9,
		"avgResponseMs": 120,
		"errorRate": 0.4,
		"avgFreightCost": 1840,
		"prevFreightCost": 1900
	}
}`

func TestAnalyticsHandler(t *testing.T) {
	h := NewAnalyticsHandler(newTestBuilder(t), logger.Nop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analytics", strings.NewReader(sampleBody)))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap model.AnalyticsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.LaneBreakdown, 2)
	require.Equal(t, "Dallas, TX - Atlanta, GA", snap.LaneBreakdown[0].Lane)
	require.NotEmpty(t, snap.Insights)
	require.False(t, snap.UpdatedAt.IsZero())
}

func TestDashboardHandler(t *testing.T) {
	h := NewDashboardHandler(newTestBuilder(t), logger.Nop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboard", strings.NewReader(sampleBody)))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap model.DashboardSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Equal(t, 42, snap.Stats.ActiveShipments)
	require.NotEmpty(t, snap.SystemStatus)
	for _, s := range snap.SystemStatus {
		require.Equal(t, "operational", s.Status)
	}
	require.Equal(t, snap.Alerts.Count, len(snap.Alerts.TopAlerts))
	require.False(t, snap.UpdatedAt.IsZero())
}

func TestHandlersRejectBadInput(t *testing.T) {
	b := newTestBuilder(t)
	for _, h := range []http.Handler{
		NewAnalyticsHandler(b, logger.Nop()),
		NewDashboardHandler(b, logger.Nop()),
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("nope")))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
