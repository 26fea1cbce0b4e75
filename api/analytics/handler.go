// Package analytics exposes the analytics and dashboard read models over
// HTTP. Both endpoints accept the same POST body so callers can reuse one
// payload for either view.
package analytics

import (
	"encoding/json"
	"net/http"

	"github.com/loadpulse/loadpulse/api/dto"
	"github.com/loadpulse/loadpulse/core/model"
	"github.com/loadpulse/loadpulse/core/snapshot"
	"github.com/loadpulse/loadpulse/infra/logger"
)

type request struct {
	Loads         []dto.Load                `json:"loads"`
	Trucks        []dto.Truck               `json:"trucks"`
	LaneVolumes   []dto.LaneVolumes         `json:"laneVolumes"`
	WeeklyVolumes []model.WeekVolume        `json:"weeklyVolumes"`
	Forecast      []model.ForecastPair      `json:"forecast"`
	Counters      model.OperationalCounters `json:"counters"`
}

func (req request) toSnapshotRequest() snapshot.Request {
	loads, _ := dto.ConvertLoads(req.Loads)
	vehicles, _ := dto.ConvertTrucks(req.Trucks)
	return snapshot.Request{
		Loads:         loads,
		Vehicles:      vehicles,
		LaneSeries:    dto.ConvertLanes(req.LaneVolumes),
		WeeklyVolumes: req.WeeklyVolumes,
		ForecastPairs: req.Forecast,
		Counters:      req.Counters,
	}
}

// NewAnalyticsHandler returns an HTTP handler serving the analytics
// snapshot via POST /api/analytics.
func NewAnalyticsHandler(builder *snapshot.Builder, log logger.Logger) http.Handler {
	return newHandler(log, func(r *http.Request, req request) any {
		return builder.Analytics(r.Context(), req.toSnapshotRequest())
	})
}

// NewDashboardHandler returns an HTTP handler serving the dashboard
// snapshot via POST /api/dashboard.
func NewDashboardHandler(builder *snapshot.Builder, log logger.Logger) http.Handler {
	return newHandler(log, func(r *http.Request, req request) any {
		return builder.Dashboard(r.Context(), req.toSnapshotRequest())
	})
}

func newHandler(log logger.Logger, build func(*http.Request, request) any) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(build(r, req)); err != nil {
			log.Errorf("encode snapshot response: %v", err)
		}
	})
}

// NewHealthHandler returns the liveness endpoint served at GET /healthz.
func NewHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
}
