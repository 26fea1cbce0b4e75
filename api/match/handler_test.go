package match

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

func TestMatchHandler(t *testing.T) {
	h := NewHandler(newTestBuilder(t), logger.Nop())

	body := `{
		"loads": [
			{"id": "L1", "origin": "Dallas, TX", "destination": "Atlanta, GA",
			 "equipment": "Dry Van", "weight": 38000, "pickupDate": "2026-09-02",
			 "priority": "Standard"}
		],
		"trucks": [
			{"id": "T1", "location": "Fort Worth, TX", "equipment": "Dry Van",
			 "availableFrom": "2026-09-02", "capacity": 45000}
		]
	}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 1)
	require.Equal(t, "L1", resp.Matches[0].LoadID)
	require.Equal(t, "T1", resp.Matches[0].TruckID)
	require.Greater(t, resp.Matches[0].MatchScore, 0.5)
	require.NotEmpty(t, resp.Matches[0].Reason)
	require.Equal(t, 1, resp.Metadata.LoadsCount)
	require.Equal(t, 1, resp.Metadata.TrucksCount)
	require.Equal(t, 1, resp.Metadata.MatchesCount)
	require.NotEmpty(t, resp.Metadata.RequestID)
	require.Empty(t, resp.Metadata.Skipped)
}

func TestMatchHandlerSkipsBadRecords(t *testing.T) {
	h := NewHandler(newTestBuilder(t), logger.Nop())

	body := `{
		"loads": [
			{"id": "L1", "origin": "Dallas, TX", "destination": "Atlanta, GA",
			 "equipment": "Dry Van", "weight": 38000, "pickupDate": "not-a-date"},
			{"id": "L2", "origin": "Dallas, TX", "destination": "Atlanta, GA",
			 "equipment": "Hovercraft", "weight": 38000, "pickupDate": "2026-09-02"}
		],
		"trucks": [
			{"id": "T1", "location": "Fort Worth, TX", "equipment": "Dry Van",
			 "availableFrom": "2026-09-02"}
		]
	}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Matches)
	require.Len(t, resp.Metadata.Skipped, 2)
	ids := []string{resp.Metadata.Skipped[0].ID, resp.Metadata.Skipped[1].ID}
	require.ElementsMatch(t, []string{"L1", "L2"}, ids)
}

func TestMatchHandlerRejectsBadInput(t *testing.T) {
	h := NewHandler(newTestBuilder(t), logger.Nop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader("{not json")))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/match", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
