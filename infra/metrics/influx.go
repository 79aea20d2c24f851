package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/watthuis/spotplan/core/metrics"
	"github.com/watthuis/spotplan/core/model"
	"github.com/watthuis/spotplan/infra/logger"
)

// InfluxSink writes planning results and measurements to an InfluxDB
// instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	base := strings.TrimSuffix(cfg.InfluxURL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails, so a missing database never blocks
// planning.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPlanningResult writes one point per planning run.
func (s *InfluxSink) RecordPlanningResult(r coremetrics.PlanningResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("planning_run").
		AddTag("strategy", r.Strategy).
		AddTag("mode", r.SelectionMode).
		AddField("plannable_spot_prices", r.PlannableSpotPrices).
		AddField("selected_spot_prices", r.SelectedSpotPrices).
		AddField("total_cost", r.TotalCost).
		AddField("covers_load", r.CoversLoad).
		SetTime(r.PlannedAt)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordMeasurement writes each sample of the measurement as a point.
func (s *InfluxSink) RecordMeasurement(m model.Measurement) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, sample := range m.Samples {
		p := write.NewPointWithMeasurement("sample").
			AddTag("source", m.Source).
			AddTag("location", m.Location).
			AddTag("entity_type", string(sample.EntityType)).
			AddTag("entity_name", sample.EntityName).
			AddTag("sample_type", string(sample.SampleType)).
			AddTag("sample_name", sample.SampleName).
			AddTag("metric_type", string(sample.MetricType)).
			AddField("value", sample.Value).
			SetTime(m.MeasuredAtTime)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close shuts the underlying client down.
func (s *InfluxSink) Close() {
	s.client.Close()
}
