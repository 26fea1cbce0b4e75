// Package analytics rolls match results, lane anomalies and operational
// counters into the analytics and dashboard read models.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/loadpulse/loadpulse/core/insight"
	"github.com/loadpulse/loadpulse/core/model"
)

// Input gathers everything a snapshot is derived from. Counters are
// externally measured; the aggregator never computes them.
type Input struct {
	Matches       []model.Match
	Anomalies     []model.InsightAnomaly
	LaneSeries    []model.LaneVolumeSeries
	WeeklyVolumes []model.WeekVolume
	ForecastPairs []model.ForecastPair
	Counters      model.OperationalCounters
}

// Aggregator derives the two snapshot views. It is stateless and safe for
// concurrent use; aggregation is pure and order-independent apart from the
// documented tie-break rules.
type Aggregator struct {
	cfg Config
}

// NewAggregator validates the configuration and returns an aggregator.
func NewAggregator(cfg Config) (*Aggregator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("analytics config: %w", err)
	}
	return &Aggregator{cfg: cfg}, nil
}

// BuildAnalyticsSnapshot assembles the analytics read model.
func (a *Aggregator) BuildAnalyticsSnapshot(in Input, now time.Time) model.AnalyticsSnapshot {
	accuracy := a.MatchAccuracy(in.Matches, in.Counters.TotalLoads)
	c := in.Counters

	return model.AnalyticsSnapshot{
		KPIs: model.KPISet{
			AvgFreightCost: kpi(c.AvgFreightCost, "USD", pctChange(c.AvgFreightCost, c.PrevFreightCost)),
			MatchAccuracy:  kpi(accuracy, "%", pctChange(accuracy, c.PrevMatchAccuracy)),
			ProcessingTime: kpi(c.ProcessingTimeSec, "s", pctChange(c.ProcessingTimeSec, c.PrevProcessingSec)),
			AIRoi:          kpi(c.AIRoiPercent, "%", pctChange(c.AIRoiPercent, c.PrevAIRoiPercent)),
		},
		VolumeTrends:  a.volumeTrends(in.WeeklyVolumes),
		LaneBreakdown: laneBreakdown(in.LaneSeries),
		SystemPerformance: model.SystemPerformance{
			UptimePercent: c.UptimePercent,
			AvgResponseMs: c.AvgResponseMs,
			ErrorRate:     c.ErrorRate,
		},
		ForecastAccuracy: ForecastAccuracy(in.ForecastPairs),
		Insights:         in.Anomalies,
		UpdatedAt:        now,
	}
}

// BuildDashboardSnapshot assembles the dashboard read model.
func (a *Aggregator) BuildDashboardSnapshot(in Input, now time.Time) model.DashboardSnapshot {
	c := in.Counters
	alerts := a.TopAlerts(in.Anomalies)

	lanes := laneBreakdown(in.LaneSeries)
	sort.SliceStable(lanes, func(i, j int) bool {
		return math.Abs(lanes[i].ChangePercent) > math.Abs(lanes[j].ChangePercent)
	})
	if len(lanes) > a.cfg.LaneHighlights {
		lanes = lanes[:a.cfg.LaneHighlights]
	}

	return model.DashboardSnapshot{
		Stats: model.DashboardStats{
			ActiveShipments: c.ActiveShipments,
			TotalLoads:      c.TotalLoads,
			AvailableTrucks: c.AvailableTrucks,
			MatchAccuracy:   a.MatchAccuracy(in.Matches, c.TotalLoads),
		},
		Utilization: model.Utilization{
			FleetPercent:    c.FleetUtilization,
			CapacityPercent: c.CapacityUtilization,
		},
		LaneHighlights: lanes,
		RecentActivity: a.recentActivity(in.Matches, now),
		SystemStatus:   systemStatus(c),
		Alerts: model.AlertSummary{
			Count:     len(in.Anomalies),
			TopAlerts: alerts,
		},
		UpdatedAt: now,
	}
}

// MatchAccuracy returns the share of loads with at least one match at or
// above the minimum acceptable score, as a percentage of totalLoads.
func (a *Aggregator) MatchAccuracy(matches []model.Match, totalLoads int) float64 {
	if totalLoads <= 0 {
		return 0
	}
	covered := make(map[string]struct{})
	for _, m := range matches {
		if m.Score >= a.cfg.MinAcceptableScore {
			covered[m.LoadID] = struct{}{}
		}
	}
	return float64(len(covered)) / float64(totalLoads) * 100
}

// TopAlerts sorts anomalies by severity, then by absolute percent change,
// and truncates to the configured count.
func (a *Aggregator) TopAlerts(anomalies []model.InsightAnomaly) []model.InsightAnomaly {
	out := make([]model.InsightAnomaly, len(anomalies))
	copy(out, anomalies)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := severityRank(out[i].Severity), severityRank(out[j].Severity)
		if ri != rj {
			return ri > rj
		}
		return math.Abs(out[i].PercentChange) > math.Abs(out[j].PercentChange)
	})
	if len(out) > a.cfg.TopAlerts {
		out = out[:a.cfg.TopAlerts]
	}
	return out
}

func severityRank(s model.Severity) int {
	switch s {
	case model.SeverityHigh:
		return 3
	case model.SeverityMedium:
		return 2
	case model.SeverityLow:
		return 1
	}
	return 0
}

func (a *Aggregator) volumeTrends(weeks []model.WeekVolume) []model.VolumeTrend {
	out := make([]model.VolumeTrend, len(weeks))
	for i, w := range weeks {
		start := i - a.cfg.MovingAverageWeeks + 1
		if start < 0 {
			start = 0
		}
		window := make([]float64, 0, i-start+1)
		for j := start; j <= i; j++ {
			window = append(window, float64(weeks[j].TotalLoads))
		}
		out[i] = model.VolumeTrend{
			Week:          w.Week,
			TotalLoads:    w.TotalLoads,
			MovingAverage: stat.Mean(window, nil),
		}
	}
	return out
}

func laneBreakdown(series []model.LaneVolumeSeries) []model.LaneBreakdown {
	var out []model.LaneBreakdown
	for _, s := range series {
		if len(s.Volumes) < 2 {
			continue
		}
		out = append(out, model.LaneBreakdown{
			Lane:          s.Lane(),
			Origin:        s.Origin,
			Destination:   s.Destination,
			Current:       s.Current(),
			Previous:      s.Previous(),
			ChangePercent: insight.PercentChange(s.Current(), s.Previous()),
		})
	}
	return out
}

func (a *Aggregator) recentActivity(matches []model.Match, now time.Time) []model.ActivityEntry {
	best := make([]model.Match, len(matches))
	copy(best, matches)
	sort.SliceStable(best, func(i, j int) bool {
		if best[i].Score != best[j].Score {
			return best[i].Score > best[j].Score
		}
		if best[i].LoadID != best[j].LoadID {
			return best[i].LoadID < best[j].LoadID
		}
		return best[i].VehicleID < best[j].VehicleID
	})
	if len(best) > a.cfg.RecentActivity {
		best = best[:a.cfg.RecentActivity]
	}
	out := make([]model.ActivityEntry, len(best))
	for i, m := range best {
		out[i] = model.ActivityEntry{
			Message:   fmt.Sprintf("Load %s matched to vehicle %s (score %.2f)", m.LoadID, m.VehicleID, m.Score),
			Timestamp: now,
		}
	}
	return out
}

func systemStatus(c model.OperationalCounters) []model.SystemStatus {
	status := "operational"
	if c.ErrorRate > 5 {
		status = "degraded"
	}
	return []model.SystemStatus{
		{Name: "match-engine", Status: status},
		{Name: "anomaly-detector", Status: status},
		{Name: "analytics-aggregator", Status: status},
	}
}

func kpi(value float64, unit string, change float64) model.KPI {
	trend := "flat"
	if change > 0 {
		trend = "up"
	} else if change < 0 {
		trend = "down"
	}
	return model.KPI{Value: value, Unit: unit, ChangePercent: change, Trend: trend}
}

// pctChange mirrors the lane rule for float counters: a zero previous
// value maps to 100 when a value appeared and 0 otherwise.
func pctChange(current, previous float64) float64 {
	if previous == 0 {
		if current != 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}
