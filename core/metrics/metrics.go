package metrics

import (
	"time"

	"github.com/watthuis/spotplan/core/model"
)

// PlanningResult captures the outcome of one planning run.
type PlanningResult struct {
	Strategy            string
	SelectionMode       string
	PlannableSpotPrices int
	SelectedSpotPrices  int
	TotalCost           float64
	CoversLoad          bool
	PlannedAt           time.Time
}

// Sink records planning results for observability purposes.
type Sink interface {
	RecordPlanningResult(r PlanningResult) error
}

// MeasurementRecorder additionally persists full measurements, e.g. to a
// time series database.
type MeasurementRecorder interface {
	RecordMeasurement(m model.Measurement) error
}

// Config defines the metrics backends to enable.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordPlanningResult(PlanningResult) error { return nil }
func (NopSink) RecordMeasurement(model.Measurement) error { return nil }
