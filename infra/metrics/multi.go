package metrics

import (
	"errors"

	coremetrics "github.com/watthuis/spotplan/core/metrics"
)

// MultiSink fans planning results out to several sinks, collecting errors.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordPlanningResult forwards to every sink.
func (m *MultiSink) RecordPlanningResult(r coremetrics.PlanningResult) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordPlanningResult(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
