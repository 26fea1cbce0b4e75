// Package snapshot orchestrates the match engine, anomaly detector and
// analytics aggregator into the two read models served to the
// presentation layer.
package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/loadpulse/loadpulse/core/analytics"
	"github.com/loadpulse/loadpulse/core/insight"
	"github.com/loadpulse/loadpulse/core/match"
	coremetrics "github.com/loadpulse/loadpulse/core/metrics"
	"github.com/loadpulse/loadpulse/core/model"
	"github.com/loadpulse/loadpulse/infra/logger"
	"github.com/loadpulse/loadpulse/internal/eventbus"
)

// Request carries the inputs of one snapshot computation.
type Request struct {
	Loads         []model.Load
	Vehicles      []model.Vehicle
	LaneSeries    []model.LaneVolumeSeries
	WeeklyVolumes []model.WeekVolume
	ForecastPairs []model.ForecastPair
	Counters      model.OperationalCounters
}

// Builder wires the engines together. It is stateless apart from the
// injected collaborators and safe for concurrent use.
type Builder struct {
	engine   *match.Engine
	detector *insight.Detector
	agg      *analytics.Aggregator
	bus      *eventbus.Bus
	log      logger.Logger
}

// NewBuilder creates a Builder. The bus is optional; a nil bus disables
// event publication.
func NewBuilder(engine *match.Engine, detector *insight.Detector, agg *analytics.Aggregator, bus *eventbus.Bus, log logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{engine: engine, detector: detector, agg: agg, bus: bus, log: log}
}

// Match computes one matching batch and publishes its summary event.
func (b *Builder) Match(ctx context.Context, loads []model.Load, vehicles []model.Vehicle) (match.Result, coremetrics.MatchEvent) {
	start := time.Now()
	res := b.engine.ComputeMatches(ctx, loads, vehicles)
	ev := coremetrics.MatchEvent{
		RequestID: uuid.NewString(),
		Loads:     len(loads),
		Vehicles:  len(vehicles),
		Matches:   len(res.Matches),
		Skipped:   len(res.Skipped),
		Duration:  time.Since(start),
		Time:      start,
	}
	if b.bus != nil {
		b.bus.Publish(eventbus.MatchComputed{Event: ev})
	}
	b.log.Debugw("match batch computed", map[string]any{
		"request_id": ev.RequestID,
		"matches":    ev.Matches,
		"skipped":    ev.Skipped,
	})
	return res, ev
}

// Detect classifies the lane series and publishes one event per anomaly.
func (b *Builder) Detect(series []model.LaneVolumeSeries) []model.InsightAnomaly {
	anomalies := b.detector.DetectAnomalies(series)
	if b.bus != nil {
		now := time.Now()
		for _, a := range anomalies {
			b.bus.Publish(eventbus.AnomalyDetected{Anomaly: a, Time: now})
		}
	}
	return anomalies
}

// Analytics assembles the analytics read model from the request.
func (b *Builder) Analytics(ctx context.Context, req Request) model.AnalyticsSnapshot {
	start := time.Now()
	in := b.aggregate(ctx, req)
	snap := b.agg.BuildAnalyticsSnapshot(in, time.Now().UTC())
	b.publishSnapshot("analytics", start)
	return snap
}

// Dashboard assembles the dashboard read model from the request.
func (b *Builder) Dashboard(ctx context.Context, req Request) model.DashboardSnapshot {
	start := time.Now()
	in := b.aggregate(ctx, req)
	snap := b.agg.BuildDashboardSnapshot(in, time.Now().UTC())
	b.publishSnapshot("dashboard", start)
	return snap
}

func (b *Builder) aggregate(ctx context.Context, req Request) analytics.Input {
	var matches []model.Match
	if len(req.Loads) > 0 && len(req.Vehicles) > 0 {
		res, _ := b.Match(ctx, req.Loads, req.Vehicles)
		matches = res.Matches
	}
	counters := req.Counters
	// The accuracy denominator defaults to the batch size when the
	// caller did not supply a total.
	if counters.TotalLoads == 0 {
		counters.TotalLoads = len(req.Loads)
	}
	return analytics.Input{
		Matches:       matches,
		Anomalies:     b.Detect(req.LaneSeries),
		LaneSeries:    req.LaneSeries,
		WeeklyVolumes: req.WeeklyVolumes,
		ForecastPairs: req.ForecastPairs,
		Counters:      counters,
	}
}

func (b *Builder) publishSnapshot(kind string, start time.Time) {
	if b.bus == nil {
		return
	}
	b.bus.Publish(eventbus.SnapshotBuilt{Event: coremetrics.SnapshotEvent{
		Kind:     kind,
		Duration: time.Since(start),
		Time:     start,
	}})
}
