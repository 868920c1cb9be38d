// Package app wires configuration into a runnable simulation service.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"parkfair/config"
	coremetrics "parkfair/core/metrics"
	"parkfair/core/sim"
	"parkfair/infra/delivery"
	"parkfair/infra/logger"
	"parkfair/infra/metrics"
	"parkfair/internal/eventbus"
)

// Service orchestrates one simulation run: engine, metrics sinks, event
// streaming and the final summary.
type Service struct {
	engine *sim.Engine
	stats  *sim.Aggregator
	bus    *eventbus.Bus[sim.Record]
	log    logger.Logger
	cfg    *config.Config
	influx *metrics.InfluxSink
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	svc := &Service{log: logg, cfg: cfg}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken,
			cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		if is, ok := sink.(*metrics.InfluxSink); ok {
			svc.influx = is
		}
		sinks = append(sinks, sink)
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New[sim.Record](64)
	stats := sim.NewAggregator(logg, sink, bus)

	// Delivery failures draw from their own seeded source so the engine's
	// draw sequence stays stable whether or not failures are enabled.
	coin := sim.NewRandomSource(cfg.Sim.Seed + 1)
	transport := delivery.NewBus(cfg.Sim.DeliveryFailureRate, coin)

	engine, err := sim.NewEngine(cfg.Sim, transport, logger.New("engine"), stats)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	svc.engine = engine
	svc.stats = stats
	svc.bus = bus
	return svc, nil
}

// Run executes the simulation to completion, emits the summary as JSON on
// stdout and writes the event log if configured.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	// Tail the event stream at debug level while the run progresses.
	sub := s.bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range sub {
			s.log.Debugw("event", map[string]any{
				"time":  r.Time,
				"kind":  string(r.Kind),
				"agent": string(r.AgentID),
				"spot":  r.Spot,
			})
		}
	}()

	err := s.engine.Run(ctx)
	s.bus.Close()
	<-done
	if err != nil {
		return err
	}

	summary := s.engine.Summary(uuid.NewString())
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(summary); encErr != nil {
		return fmt.Errorf("encode summary: %w", encErr)
	}

	if path := s.cfg.Output.EventLogPath; path != "" {
		if werr := writeEventLog(path, s.stats.Records()); werr != nil {
			return fmt.Errorf("write event log: %w", werr)
		}
		s.log.Infof("event log written to %s", path)
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.influx != nil {
		s.influx.Close()
	}
	return nil
}

// writeEventLog persists the records as JSON lines in emission order.
func writeEventLog(path string, records []sim.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return f.Sync()
}
