package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/watthuis/spotplan/core/metrics"
)

// PromSink records planning runs in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	cost      prometheus.Gauge
	plannable prometheus.Gauge
	selected  prometheus.Gauge
}

// NewPromSink registers planning metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planning_runs_total",
		Help: "Total number of planning runs",
	}, []string{"strategy", "mode", "covers_load"})
	cost := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planning_selected_cost_eur",
		Help: "Total cost of the most recently selected plan",
	})
	plannable := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planning_plannable_spot_prices",
		Help: "Number of plannable spot prices in the last run",
	})
	selected := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planning_selected_spot_prices",
		Help: "Number of spot prices in the last selected plan",
	})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(cost); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cost = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(plannable); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			plannable = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(selected); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			selected = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{runs: runs, cost: cost, plannable: plannable, selected: selected}, nil
}

// RecordPlanningResult updates the planning metrics.
func (s *PromSink) RecordPlanningResult(r coremetrics.PlanningResult) error {
	s.runs.WithLabelValues(r.Strategy, r.SelectionMode, strconv.FormatBool(r.CoversLoad)).Inc()
	s.cost.Set(r.TotalCost)
	s.plannable.Set(float64(r.PlannableSpotPrices))
	s.selected.Set(float64(r.SelectedSpotPrices))
	return nil
}

// StartPromServer serves the metrics endpoint on the given port. It blocks.
func StartPromServer(port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(":"+port, mux)
}
