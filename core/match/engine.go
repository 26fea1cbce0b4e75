// Package match implements the load-matching engine. Compatible load and
// vehicle pairs pass a set of hard filters and receive a weighted score in
// [0,1] built from location proximity, date fit, capacity headroom and a
// priority boost.
package match

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/loadpulse/loadpulse/core/geo"
	"github.com/loadpulse/loadpulse/core/model"
	"github.com/loadpulse/loadpulse/infra/logger"
)

// Engine scores load/vehicle pairings. It is stateless and safe for
// concurrent use; all tuning lives in the injected Config.
type Engine struct {
	cfg      Config
	resolver geo.Resolver
	log      logger.Logger
}

// Result is the outcome of one matching batch. Skipped lists records that
// failed validation and were excluded without aborting the batch.
type Result struct {
	Matches []model.Match
	Skipped []model.SkippedRecord
}

// NewEngine validates the configuration and returns an engine. A nil
// logger defaults to a no-op logger.
func NewEngine(cfg Config, resolver geo.Resolver, log logger.Logger) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("match config: %w", err)
	}
	if resolver == nil {
		return nil, fmt.Errorf("match engine requires a location resolver")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{cfg: cfg, resolver: resolver, log: log}, nil
}

// ComputeMatches scores every compatible pairing of the given loads and
// vehicles. Matches are grouped by load in input order; within a load they
// are sorted by descending score, ties broken by ascending vehicle ID.
// Empty inputs yield an empty result, not an error.
func (e *Engine) ComputeMatches(ctx context.Context, loads []model.Load, vehicles []model.Vehicle) Result {
	var res Result

	okLoads := make([]model.Load, 0, len(loads))
	for _, l := range loads {
		if l.Priority == "" {
			l.Priority = model.PriorityStandard
		}
		if err := l.Validate(); err != nil {
			res.Skipped = append(res.Skipped, model.SkippedRecord{ID: l.ID, Kind: "load", Reason: err.Error()})
			continue
		}
		okLoads = append(okLoads, l)
	}
	okVehicles := make([]model.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if err := v.Validate(); err != nil {
			res.Skipped = append(res.Skipped, model.SkippedRecord{ID: v.ID, Kind: "vehicle", Reason: err.Error()})
			continue
		}
		okVehicles = append(okVehicles, v)
	}
	if len(res.Skipped) > 0 {
		e.log.Warnf("skipped %d invalid records", len(res.Skipped))
	}
	if len(okLoads) == 0 || len(okVehicles) == 0 {
		return res
	}

	locs := e.resolveLocations(ctx, okLoads, okVehicles)

	// Per-load scoring is independent: fan out across a bounded worker
	// pool and assemble results by index so ordering stays deterministic.
	perLoad := make([][]model.Match, len(okLoads))
	workers := e.cfg.Workers
	if workers <= 1 || len(okLoads) == 1 {
		for i, l := range okLoads {
			perLoad[i] = e.matchLoad(l, okVehicles, locs)
		}
	} else {
		if workers > len(okLoads) {
			workers = len(okLoads)
		}
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					perLoad[i] = e.matchLoad(okLoads[i], okVehicles, locs)
				}
			}()
		}
		for i := range okLoads {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	for _, matches := range perLoad {
		res.Matches = append(res.Matches, matches...)
	}
	return res
}

// resolveLocations resolves every distinct place name once. Failures and
// timeouts map to nil, which scores as "distance unknown".
func (e *Engine) resolveLocations(ctx context.Context, loads []model.Load, vehicles []model.Vehicle) map[string]*geo.LocationKey {
	out := make(map[string]*geo.LocationKey)
	resolve := func(name string) {
		key := geo.Normalize(name)
		if _, seen := out[key]; seen {
			return
		}
		rctx := ctx
		if e.cfg.ResolveTimeoutMs > 0 {
			var cancel context.CancelFunc
			rctx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.ResolveTimeoutMs)*time.Millisecond)
			defer cancel()
		}
		loc, err := e.resolver.Resolve(rctx, name)
		if err != nil {
			e.log.Debugf("resolve %q: %v", name, err)
			out[key] = nil
			return
		}
		out[key] = &loc
	}
	for _, l := range loads {
		resolve(l.Origin)
	}
	for _, v := range vehicles {
		resolve(v.Location)
	}
	return out
}

type scoredCandidate struct {
	vehicleID string
	score     float64
	parts     []string
}

// matchLoad applies the hard filters and scores the surviving vehicles for
// a single load.
func (e *Engine) matchLoad(l model.Load, vehicles []model.Vehicle, locs map[string]*geo.LocationKey) []model.Match {
	origin := locs[geo.Normalize(l.Origin)]

	var list []scoredCandidate
	for _, v := range vehicles {
		if v.Equipment != l.Equipment {
			continue
		}
		if v.HasCapacity() && l.WeightLbs > v.CapacityLbs {
			continue
		}
		if v.AvailableFrom.After(l.PickupDate) {
			continue
		}

		locScore, locPart := e.locationScore(origin, locs[geo.Normalize(v.Location)])
		dateScore, datePart := e.dateScore(v.AvailableFrom, l.PickupDate)
		capScore, capPart := e.capacityScore(l.WeightLbs, v)

		score := locScore*e.cfg.LocationWeight + dateScore*e.cfg.DateWeight + capScore*e.cfg.CapacityWeight
		list = append(list, scoredCandidate{
			vehicleID: v.ID,
			score:     score,
			parts:     []string{locPart, datePart, capPart},
		})
	}
	if len(list) == 0 {
		return nil
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].vehicleID < list[j].vehicleID
	})

	// The priority boost is a ranking nudge credited only to the best
	// candidate, so urgent loads surface their top option first.
	if boost := priorityFactor(l.Priority); boost > 0 {
		list[0].score += boost * e.cfg.PriorityWeight
		list[0].parts = append(list[0].parts, strings.ToLower(string(l.Priority))+" priority boost")
	}

	matches := make([]model.Match, len(list))
	for i, c := range list {
		matches[i] = model.Match{
			LoadID:    l.ID,
			VehicleID: c.vehicleID,
			Score:     clamp01(c.score),
			Reason:    strings.Join(c.parts, ", "),
		}
	}
	return matches
}

// locationScore normalizes deadhead distance to (0,1] via
// 1/(1+d/DistanceScaleKm). An unresolved endpoint scores neutral.
func (e *Engine) locationScore(origin, vehicle *geo.LocationKey) (float64, string) {
	if origin == nil || vehicle == nil {
		return 0.5, "origin distance unknown"
	}
	d := geo.DistanceKm(*origin, *vehicle)
	return 1 / (1 + d/e.cfg.DistanceScaleKm), fmt.Sprintf("%.0f km deadhead", d)
}

// dateScore decays linearly from 1 at a zero-day gap to 0 at the lookahead
// window. Negative gaps never reach here; the hard filter removes them.
func (e *Engine) dateScore(availableFrom, pickup time.Time) (float64, string) {
	gapDays := pickup.Sub(availableFrom).Hours() / 24
	score := 1 - gapDays/float64(e.cfg.MaxLookaheadDays)
	if score < 0 {
		score = 0
	}
	if gapDays < 1 {
		return score, "same-day availability"
	}
	return score, fmt.Sprintf("available %.0f days ahead", gapDays)
}

// capacityScore peaks at TargetUtilization and penalizes both underloaded
// and nearly full vehicles. Unknown capacity scores neutral.
func (e *Engine) capacityScore(weightLbs int, v model.Vehicle) (float64, string) {
	if !v.HasCapacity() {
		return 0.5, "capacity unknown"
	}
	util := float64(weightLbs) / float64(v.CapacityLbs)
	var score float64
	if util <= e.cfg.TargetUtilization {
		score = util / e.cfg.TargetUtilization
	} else {
		score = (1 - util) / (1 - e.cfg.TargetUtilization)
	}
	if score < 0 {
		score = 0
	}
	return score, fmt.Sprintf("%.0f%% capacity utilization", util*100)
}

func priorityFactor(p model.Priority) float64 {
	switch p {
	case model.PriorityUrgent:
		return 1.0
	case model.PriorityExpress:
		return 0.5
	}
	return 0
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
