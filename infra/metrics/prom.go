package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/loadpulse/loadpulse/core/metrics"
)

// PromSink records engine events in Prometheus metrics.
type PromSink struct {
	requests  prometheus.Counter
	matches   prometheus.Counter
	skipped   prometheus.Counter
	duration  prometheus.Histogram
	anomalies *prometheus.CounterVec
	snapshots *prometheus.CounterVec
}

// NewPromSink registers the engine metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	requests := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "match_requests_total",
		Help: "Total number of matching batches processed",
	})
	matches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matches_produced_total",
		Help: "Total number of match candidates returned",
	})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "records_skipped_total",
		Help: "Total number of invalid records skipped during matching",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "match_duration_seconds",
		Help:    "Time spent computing one matching batch",
		Buckets: prometheus.DefBuckets,
	})
	anomalies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lane_anomalies_total",
		Help: "Total number of lane anomalies detected",
	}, []string{"kind", "severity"})
	snapshots := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshots_built_total",
		Help: "Total number of snapshot views assembled",
	}, []string{"kind"})

	if err := register(reg, &requests); err != nil {
		return nil, err
	}
	if err := register(reg, &matches); err != nil {
		return nil, err
	}
	if err := register(reg, &skipped); err != nil {
		return nil, err
	}
	if err := registerHistogram(reg, &duration); err != nil {
		return nil, err
	}
	if err := registerVec(reg, &anomalies); err != nil {
		return nil, err
	}
	if err := registerVec(reg, &snapshots); err != nil {
		return nil, err
	}

	return &PromSink{
		requests:  requests,
		matches:   matches,
		skipped:   skipped,
		duration:  duration,
		anomalies: anomalies,
		snapshots: snapshots,
	}, nil
}

func register(reg prometheus.Registerer, c *prometheus.Counter) error {
	if err := reg.Register(*c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*c = are.ExistingCollector.(prometheus.Counter)
			return nil
		}
		return err
	}
	return nil
}

func registerHistogram(reg prometheus.Registerer, h *prometheus.Histogram) error {
	if err := reg.Register(*h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*h = are.ExistingCollector.(prometheus.Histogram)
			return nil
		}
		return err
	}
	return nil
}

func registerVec(reg prometheus.Registerer, v **prometheus.CounterVec) error {
	if err := reg.Register(*v); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*v = are.ExistingCollector.(*prometheus.CounterVec)
			return nil
		}
		return err
	}
	return nil
}

// RecordMatch increments the batch counters and observes its duration.
func (s *PromSink) RecordMatch(ev coremetrics.MatchEvent) error {
	s.requests.Inc()
	s.matches.Add(float64(ev.Matches))
	s.skipped.Add(float64(ev.Skipped))
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordAnomaly increments the anomaly counter for its kind and severity.
func (s *PromSink) RecordAnomaly(ev coremetrics.AnomalyEvent) error {
	s.anomalies.WithLabelValues(ev.Kind, ev.Severity).Inc()
	return nil
}

// RecordSnapshot increments the snapshot counter for its kind.
func (s *PromSink) RecordSnapshot(ev coremetrics.SnapshotEvent) error {
	s.snapshots.WithLabelValues(ev.Kind).Inc()
	return nil
}
