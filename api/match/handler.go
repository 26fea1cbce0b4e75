// Package match exposes the load-matching engine over HTTP.
package match

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/loadpulse/loadpulse/api/dto"
	"github.com/loadpulse/loadpulse/core/model"
	"github.com/loadpulse/loadpulse/core/snapshot"
	"github.com/loadpulse/loadpulse/infra/logger"
)

type request struct {
	Loads  []dto.Load  `json:"loads"`
	Trucks []dto.Truck `json:"trucks"`
}

type matchPayload struct {
	LoadID     string  `json:"loadId"`
	TruckID    string  `json:"truckId"`
	MatchScore float64 `json:"matchScore"`
	Reason     string  `json:"reason"`
}

type metadata struct {
	LoadsCount     int                   `json:"loadsCount"`
	TrucksCount    int                   `json:"trucksCount"`
	MatchesCount   int                   `json:"matchesCount"`
	Skipped        []model.SkippedRecord `json:"skipped,omitempty"`
	ProcessingTime string                `json:"processingTime"`
	RequestID      string                `json:"requestId"`
	Timestamp      time.Time             `json:"timestamp"`
}

type response struct {
	Matches  []matchPayload `json:"matches"`
	Metadata metadata       `json:"metadata"`
}

// NewHandler returns an HTTP handler computing matches via POST /api/match.
func NewHandler(builder *snapshot.Builder, log logger.Logger) http.Handler {
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
		loads, skippedLoads := dto.ConvertLoads(req.Loads)
		vehicles, skippedTrucks := dto.ConvertTrucks(req.Trucks)

		res, ev := builder.Match(r.Context(), loads, vehicles)

		skipped := append(skippedLoads, skippedTrucks...)
		skipped = append(skipped, res.Skipped...)

		matches := make([]matchPayload, 0, len(res.Matches))
		for _, m := range res.Matches {
			matches = append(matches, matchPayload{
				LoadID:     m.LoadID,
				TruckID:    m.VehicleID,
				MatchScore: m.Score,
				Reason:     m.Reason,
			})
		}

		out := response{
			Matches: matches,
			Metadata: metadata{
				LoadsCount:     len(req.Loads),
				TrucksCount:    len(req.Trucks),
				MatchesCount:   len(matches),
				Skipped:        skipped,
				ProcessingTime: ev.Duration.String(),
				RequestID:      ev.RequestID,
				Timestamp:      time.Now().UTC(),
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Errorf("encode match response: %v", err)
		}
	})
}
