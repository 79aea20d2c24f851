package config

import (
	"fmt"
	"time"

	"github.com/watthuis/spotplan/core/planner"
)

// PlannerConfig defines when and what to plan: the plannable local time
// windows per weekday, the zone they are expressed in, and the load profile
// of the appliance.
type PlannerConfig struct {
	// PlannableLocalTimeSlots is keyed by weekday name ("Mon" or "Monday",
	// case-insensitive). A till of 00:00:00 extends a slot through the end
	// of the day.
	PlannableLocalTimeSlots map[string][]planner.TimeSlot `json:"plannableLocalTimeSlots"`
	LocalTimeZone           string                        `json:"localTimeZone"`
	LoadProfile             planner.LoadProfile           `json:"loadProfile"`
	// PlanningStrategy is lowestCost or highestCost.
	PlanningStrategy string `json:"planningStrategy"`
	// SelectionMode is consecutive (default) or fragmented.
	SelectionMode string `json:"selectionMode"`
	// SessionMinutes bounds the fragmented selection; ignored in
	// consecutive mode.
	SessionMinutes int `json:"sessionMinutes"`
}

// SetDefaults applies sane defaults.
func (c *PlannerConfig) SetDefaults() {
	if c.PlanningStrategy == "" {
		c.PlanningStrategy = "lowestCost"
	}
	if c.SelectionMode == "" {
		c.SelectionMode = "consecutive"
	}
}

// Validate checks that the zone resolves and all enumerated fields parse.
func (c PlannerConfig) Validate() error {
	if c.LocalTimeZone == "" {
		return fmt.Errorf("planner.localTimeZone is required")
	}
	if _, err := time.LoadLocation(c.LocalTimeZone); err != nil {
		return fmt.Errorf("planner.localTimeZone: %w", err)
	}
	for weekday := range c.PlannableLocalTimeSlots {
		if _, err := planner.ParseWeekday(weekday); err != nil {
			return fmt.Errorf("planner.plannableLocalTimeSlots: %w", err)
		}
	}
	if _, err := planner.ParseStrategy(c.PlanningStrategy); err != nil {
		return err
	}
	if _, err := planner.ParseSelectionMode(c.SelectionMode); err != nil {
		return err
	}
	if mode, _ := planner.ParseSelectionMode(c.SelectionMode); mode == planner.Fragmented && c.SessionMinutes <= 0 {
		return fmt.Errorf("planner.sessionMinutes must be positive in fragmented mode")
	}
	return nil
}

// EngineConfig converts the file representation into the planner's config.
func (c PlannerConfig) EngineConfig() (planner.Config, error) {
	slots := make(map[time.Weekday][]planner.TimeSlot, len(c.PlannableLocalTimeSlots))
	for name, daySlots := range c.PlannableLocalTimeSlots {
		weekday, err := planner.ParseWeekday(name)
		if err != nil {
			return planner.Config{}, err
		}
		slots[weekday] = append(slots[weekday], daySlots...)
	}
	return planner.Config{
		PlannableLocalTimeSlots: slots,
		LocalTimeZone:           c.LocalTimeZone,
		LoadProfile:             c.LoadProfile,
	}, nil
}

// Strategy returns the parsed planning strategy.
func (c PlannerConfig) Strategy() planner.Strategy {
	s, _ := planner.ParseStrategy(c.PlanningStrategy)
	return s
}

// Mode returns the parsed selection mode.
func (c PlannerConfig) Mode() planner.SelectionMode {
	m, _ := planner.ParseSelectionMode(c.SelectionMode)
	return m
}

// Session returns the fragmented-mode session duration.
func (c PlannerConfig) Session() time.Duration {
	return time.Duration(c.SessionMinutes) * time.Minute
}
