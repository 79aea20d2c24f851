package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/watthuis/spotplan/core/logger"
	"github.com/watthuis/spotplan/core/model"
)

// Config carries the planning parameters the engine is constructed with.
type Config struct {
	// PlannableLocalTimeSlots maps a weekday to the local time windows the
	// load may run in. A weekday without an entry has no plannable hours.
	PlannableLocalTimeSlots map[time.Weekday][]TimeSlot
	// LocalTimeZone is the IANA identifier the slots are expressed in.
	LocalTimeZone string
	// LoadProfile is the default load to plan for.
	LoadProfile LoadProfile
}

// Location resolves the configured time zone. Failure to resolve is a
// configuration error, surfaced before any filtering happens.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.LocalTimeZone)
	if err != nil {
		return nil, fmt.Errorf("resolve local time zone %q: %w", c.LocalTimeZone, err)
	}
	return loc, nil
}

// Request asks the planner for the best placement of a load profile within
// a spot price forecast.
type Request struct {
	SpotPrices  []model.SpotPrice
	LoadProfile LoadProfile
	Strategy    Strategy
	// After and Before bound the planning horizon. Intervals starting before
	// After or ending after Before are excluded.
	After  *time.Time
	Before *time.Time
}

// Response holds the selected block in time order together with the echoed
// load profile. An empty SpotPrices slice means nothing was plannable.
type Response struct {
	SpotPrices  []model.SpotPrice
	LoadProfile LoadProfile
}

// TotalCost returns the cost of running the load profile on the selected
// block.
func (r Response) TotalCost() float64 {
	return TotalCostForLoad(r.SpotPrices, r.LoadProfile)
}

// CoversLoad reports whether the selected block's duration reaches the load
// profile's total duration. Insufficient coverage is not an error; callers
// check it here.
func (r Response) CoversLoad() bool {
	var seconds int64
	for _, sp := range r.SpotPrices {
		seconds += sp.DurationSeconds()
	}
	return seconds >= r.LoadProfile.TotalDurationSeconds()
}

// Planner selects spot prices for a load according to its configuration.
// It is stateless beyond the configuration and safe for concurrent use.
type Planner struct {
	cfg Config
	log logger.Logger
}

// New creates a Planner. A nil logger disables logging.
func New(cfg Config, log logger.Logger) *Planner {
	if log == nil {
		log = nopLogger{}
	}
	return &Planner{cfg: cfg, log: log}
}

// Config returns the configuration the planner was built with.
func (p *Planner) Config() Config {
	return p.cfg
}

// PlannableSpotPrices filters spot prices down to those fully contained in a
// configured local time slot and inside the optional [after, before) bounds.
// Order is preserved.
func (p *Planner) PlannableSpotPrices(spotPrices []model.SpotPrice, after, before *time.Time) ([]model.SpotPrice, error) {
	loc, err := p.cfg.Location()
	if err != nil {
		return nil, err
	}

	p.log.Debugw("determining plannable spot prices", map[string]any{
		"spotPrices": len(spotPrices),
		"after":      after,
		"before":     before,
	})

	plannable := make([]model.SpotPrice, 0, len(spotPrices))
	for _, spotPrice := range spotPrices {
		if after != nil && spotPrice.From.Before(*after) {
			continue
		}
		if before != nil && spotPrice.Till.After(*before) {
			continue
		}

		localFrom := spotPrice.From.In(loc)
		localTill := spotPrice.Till.In(loc)

		// The slot table of the interval's start day decides; a slot that
		// wraps past midnight stays anchored to the day it starts on.
		slots := p.cfg.PlannableLocalTimeSlots[localFrom.Weekday()]
		for _, slot := range slots {
			if slot.contains(localFrom, localTill) {
				plannable = append(plannable, spotPrice)
				break
			}
		}
	}
	return plannable, nil
}

// BestSpotPrices returns the block of consecutive plannable spot prices that
// covers the load profile's duration at the best cost under the request's
// strategy. If no block covers the full duration the response carries an
// empty selection.
func (p *Planner) BestSpotPrices(req Request) (Response, error) {
	plannable, err := p.PlannableSpotPrices(req.SpotPrices, req.After, req.Before)
	if err != nil {
		return Response{}, err
	}
	if len(plannable) == 0 {
		return Response{SpotPrices: plannable, LoadProfile: req.LoadProfile}, nil
	}

	requiredSeconds := req.LoadProfile.TotalDurationSeconds()

	var best []model.SpotPrice
	for i := range plannable {
		selectedSeconds := int64(0)
		end := i
		for end < len(plannable) && selectedSeconds < requiredSeconds {
			selectedSeconds += plannable[end].DurationSeconds()
			end++
		}
		if selectedSeconds < requiredSeconds {
			// Later starting positions have strictly fewer trailing
			// intervals, so none of them can reach the duration either.
			break
		}

		selected := plannable[i:end:end]
		if best == nil {
			best = selected
			continue
		}
		if req.Strategy.better(TotalCostForLoad(selected, req.LoadProfile), TotalCostForLoad(best, req.LoadProfile)) {
			best = selected
		}
	}

	if best == nil {
		best = []model.SpotPrice{}
	}
	p.log.Infof("selected %d of %d plannable spot prices (%s)", len(best), len(plannable), req.Strategy)

	return Response{SpotPrices: best, LoadProfile: req.LoadProfile}, nil
}

// FragmentedSpotPrices implements the duration-bounded earliest-fit mode:
// plannable prices are ranked individually by total price, taken until the
// session duration is covered, and returned in time order. Unlike
// BestSpotPrices the selection need not be consecutive.
func (p *Planner) FragmentedSpotPrices(req Request, session time.Duration) (Response, error) {
	plannable, err := p.PlannableSpotPrices(req.SpotPrices, req.After, req.Before)
	if err != nil {
		return Response{}, err
	}

	ranked := make([]model.SpotPrice, len(plannable))
	copy(ranked, plannable)
	sort.SliceStable(ranked, func(i, j int) bool {
		if req.Strategy == HighestCost {
			return ranked[i].TotalPrice() > ranked[j].TotalPrice()
		}
		return ranked[i].TotalPrice() < ranked[j].TotalPrice()
	})

	var selected []model.SpotPrice
	var selectedDuration time.Duration
	for _, spotPrice := range ranked {
		if selectedDuration >= session {
			break
		}
		selectedDuration += spotPrice.Duration()
		selected = append(selected, spotPrice)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].From.Before(selected[j].From)
	})

	return Response{SpotPrices: selected, LoadProfile: req.LoadProfile}, nil
}

// nopLogger keeps the engine free of nil checks when no logger is wired.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
