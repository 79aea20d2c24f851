// Package app wires the planner, state store, publishers and metrics into
// the runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/watthuis/spotplan/config"
	coremetrics "github.com/watthuis/spotplan/core/metrics"
	"github.com/watthuis/spotplan/core/model"
	"github.com/watthuis/spotplan/core/plan"
	"github.com/watthuis/spotplan/core/planner"
	"github.com/watthuis/spotplan/infra/logger"
	"github.com/watthuis/spotplan/infra/metrics"
	"github.com/watthuis/spotplan/infra/mqtt"
	"github.com/watthuis/spotplan/infra/nats"
	"github.com/watthuis/spotplan/infra/state"
)

// ErrNoSpotPricesState is returned when planning runs before any forecast
// has been fetched and stored.
var ErrNoSpotPricesState = errors.New("no spot prices state present; run spotplan fetch first")

// MeasurementPublisher sends measurements to the household message bus.
type MeasurementPublisher interface {
	PublishMeasurement(m model.Measurement) error
}

// Service orchestrates one planning run: read the stored forecast, select
// the best spot prices, hand the plan to the device channel and report.
type Service struct {
	cfg     *config.Config
	planner *planner.Planner
	store   state.Store
	plans   plan.Publisher
	bus     MeasurementPublisher
	sink    coremetrics.Sink
	log     logger.Logger

	promEnabled bool
	promPort    string
	closers     []func() error
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("service")

	engineCfg, err := cfg.Planner.EngineConfig()
	if err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}

	store, err := state.NewStore(cfg.State)
	if err != nil {
		return nil, fmt.Errorf("state store: %w", err)
	}

	svc := newService(cfg, planner.New(engineCfg, log), store, nil, nil, nil, log)

	if closer, ok := store.(interface{ Close() error }); ok {
		svc.closers = append(svc.closers, closer.Close)
	}

	if cfg.MQTT.Enabled {
		publisher, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.plans = publisher
		svc.closers = append(svc.closers, publisher.Close)
	}

	if cfg.NATS.Enabled {
		publisher, err := nats.NewPublisher(cfg.NATS)
		if err != nil {
			return nil, fmt.Errorf("nats publisher: %w", err)
		}
		svc.bus = publisher
		svc.closers = append(svc.closers, publisher.Close)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
		svc.promEnabled = true
		svc.promPort = cfg.Metrics.PrometheusPort
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	switch len(sinks) {
	case 0:
	case 1:
		svc.sink = sinks[0]
	default:
		svc.sink = metrics.NewMultiSink(sinks...)
	}

	return svc, nil
}

// newService wires pre-built components; New builds them from configuration.
func newService(cfg *config.Config, pl *planner.Planner, store state.Store, plans plan.Publisher, bus MeasurementPublisher, sink coremetrics.Sink, log logger.Logger) *Service {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		cfg:     cfg,
		planner: pl,
		store:   store,
		plans:   plans,
		bus:     bus,
		sink:    sink,
		log:     log,
	}
}

// Run executes one planning cycle.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	st, err := s.store.ReadState(ctx)
	if err != nil {
		return fmt.Errorf("read spot prices state: %w", err)
	}
	if st == nil {
		return ErrNoSpotPricesState
	}

	now := time.Now().UTC()
	req := planner.Request{
		SpotPrices:  st.FutureSpotPrices,
		LoadProfile: s.cfg.Planner.LoadProfile,
		Strategy:    s.cfg.Planner.Strategy(),
		After:       &now,
	}

	plannable, err := s.planner.PlannableSpotPrices(req.SpotPrices, req.After, req.Before)
	if err != nil {
		return err
	}

	var resp planner.Response
	switch s.cfg.Planner.Mode() {
	case planner.Fragmented:
		resp, err = s.planner.FragmentedSpotPrices(req, s.cfg.Planner.Session())
	default:
		resp, err = s.planner.BestSpotPrices(req)
	}
	if err != nil {
		return err
	}

	totalCost := resp.TotalCost()
	summary := planner.Summarize(plannable)
	s.log.Infof("planned %d spot prices at total cost %.4f (plannable mean price %.4f)",
		len(resp.SpotPrices), totalCost, summary.Mean)
	if !resp.CoversLoad() {
		s.log.Warnf("selected spot prices cover less than the load profile duration")
	}

	if s.plans != nil && len(resp.SpotPrices) > 0 {
		if err := s.plans.PublishPlan(resp); err != nil {
			return fmt.Errorf("publish plan: %w", err)
		}
	}

	measurement := s.buildMeasurement(resp, now)
	if s.bus != nil {
		if err := s.bus.PublishMeasurement(measurement); err != nil {
			s.log.Errorf("publish measurement: %v", err)
		}
	}
	if recorder, ok := s.sink.(coremetrics.MeasurementRecorder); ok {
		if err := recorder.RecordMeasurement(measurement); err != nil {
			s.log.Errorf("record measurement: %v", err)
		}
	}

	if err := s.sink.RecordPlanningResult(coremetrics.PlanningResult{
		Strategy:            s.cfg.Planner.PlanningStrategy,
		SelectionMode:       s.cfg.Planner.SelectionMode,
		PlannableSpotPrices: len(plannable),
		SelectedSpotPrices:  len(resp.SpotPrices),
		TotalCost:           totalCost,
		CoversLoad:          resp.CoversLoad(),
		PlannedAt:           now,
	}); err != nil {
		s.log.Errorf("record planning result: %v", err)
	}

	return nil
}

// buildMeasurement turns a planning response into the measurement exported
// to the bus and the time series sink.
func (s *Service) buildMeasurement(resp planner.Response, at time.Time) model.Measurement {
	samples := []model.Sample{{
		EntityType: model.EntityTypeTariff,
		EntityName: "spot-price",
		SampleType: model.SampleTypeEnergyCost,
		SampleName: "Planned cost",
		MetricType: model.MetricTypeGauge,
		Value:      resp.TotalCost(),
	}}
	if len(resp.SpotPrices) > 0 {
		samples = append(samples, model.Sample{
			EntityType: model.EntityTypeTariff,
			EntityName: "spot-price",
			SampleType: model.SampleTypeTime,
			SampleName: "Planned start",
			MetricType: model.MetricTypeGauge,
			Value:      float64(resp.SpotPrices[0].From.Unix()),
		})
	}
	return model.Measurement{
		ID:             uuid.NewString(),
		Source:         "spotplan",
		Location:       s.cfg.Location,
		Samples:        samples,
		MeasuredAtTime: at,
	}
}

// Close shuts all connected components down.
func (s *Service) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
