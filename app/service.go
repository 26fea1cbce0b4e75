// Package app assembles the engines, the event bus, the metrics sinks and
// the HTTP surface into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	analyticsapi "github.com/loadpulse/loadpulse/api/analytics"
	matchapi "github.com/loadpulse/loadpulse/api/match"
	"github.com/loadpulse/loadpulse/config"
	"github.com/loadpulse/loadpulse/core/analytics"
	coregeo "github.com/loadpulse/loadpulse/core/geo"
	"github.com/loadpulse/loadpulse/core/insight"
	"github.com/loadpulse/loadpulse/core/match"
	coremetrics "github.com/loadpulse/loadpulse/core/metrics"
	"github.com/loadpulse/loadpulse/core/snapshot"
	infrageo "github.com/loadpulse/loadpulse/infra/geo"
	"github.com/loadpulse/loadpulse/infra/logger"
	"github.com/loadpulse/loadpulse/infra/metrics"
	"github.com/loadpulse/loadpulse/infra/mqtt"
	"github.com/loadpulse/loadpulse/internal/eventbus"
)

// Service orchestrates the snapshot builder and its observability fan-out.
type Service struct {
	Builder *snapshot.Builder

	cfg       *config.Config
	bus       *eventbus.Bus
	sink      coremetrics.Sink
	publisher mqtt.AlertPublisher
	log       logger.Logger
	closers   []func()
}

// New creates a Service from the configuration. The configuration must be
// finalized; construction fails on any wiring error.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var resolver coregeo.Resolver
	switch cfg.Geo.Provider {
	case "http":
		resolver = infrageo.NewHTTPResolver(cfg.Geo.BaseURL, cfg.Geo.APIKey,
			time.Duration(cfg.Geo.TimeoutMs)*time.Millisecond)
	default:
		resolver = coregeo.NewStaticResolver(nil)
	}

	engine, err := match.NewEngine(cfg.Match, resolver, logger.New("match-engine"))
	if err != nil {
		return nil, fmt.Errorf("match engine: %w", err)
	}
	detector, err := insight.NewDetector(cfg.Insight)
	if err != nil {
		return nil, fmt.Errorf("anomaly detector: %w", err)
	}
	agg, err := analytics.NewAggregator(cfg.Analytics)
	if err != nil {
		return nil, fmt.Errorf("aggregator: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	svc := &Service{
		cfg:  cfg,
		bus:  eventbus.New(),
		sink: sink,
		log:  logg,
	}
	for _, s := range sinks {
		if c, ok := s.(interface{ Close() }); ok {
			svc.closers = append(svc.closers, c.Close)
		}
	}

	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
	}

	svc.Builder = snapshot.NewBuilder(engine, detector, agg, svc.bus, logger.New("snapshot"))
	return svc, nil
}

// Mux returns the HTTP routes served by the service.
func (s *Service) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/match", matchapi.NewHandler(s.Builder, s.log))
	mux.Handle("/api/analytics", analyticsapi.NewAnalyticsHandler(s.Builder, s.log))
	mux.Handle("/api/dashboard", analyticsapi.NewDashboardHandler(s.Builder, s.log))
	mux.Handle("/healthz", analyticsapi.NewHealthHandler())
	return mux
}

// Run serves HTTP and forwards bus events until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	events := s.bus.Subscribe()
	go s.forward(events)

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.API.Addr,
		Handler:           s.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.API.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// forward drains the event bus into the metrics sink and the alert
// publisher. It exits when the bus closes.
func (s *Service) forward(events <-chan eventbus.Event) {
	for e := range events {
		switch ev := e.(type) {
		case eventbus.MatchComputed:
			if err := s.sink.RecordMatch(ev.Event); err != nil {
				s.log.Warnf("record match: %v", err)
			}
			if s.publisher != nil {
				if err := s.publisher.PublishMatchSummary(ev.Event); err != nil {
					s.log.Warnf("publish match summary: %v", err)
				}
			}
		case eventbus.AnomalyDetected:
			rec := coremetrics.AnomalyEvent{
				Lane:          ev.Anomaly.Lane,
				Kind:          string(ev.Anomaly.Kind),
				Severity:      string(ev.Anomaly.Severity),
				PercentChange: ev.Anomaly.PercentChange,
				Time:          ev.Time,
			}
			if err := s.sink.RecordAnomaly(rec); err != nil {
				s.log.Warnf("record anomaly: %v", err)
			}
			if s.publisher != nil {
				if err := s.publisher.PublishAnomaly(ev.Anomaly); err != nil {
					s.log.Warnf("publish anomaly: %v", err)
				}
			}
		case eventbus.SnapshotBuilt:
			if sr, ok := s.sink.(coremetrics.SnapshotRecorder); ok {
				if err := sr.RecordSnapshot(ev.Event); err != nil {
					s.log.Warnf("record snapshot: %v", err)
				}
			}
		}
	}
}

// Close releases the bus, the sinks and the publisher.
func (s *Service) Close() {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	for _, c := range s.closers {
		c()
	}
}
