package planner

import (
	"fmt"
	"strings"
	"time"
)

// ClockTime is a local time of day with second resolution, independent of
// any calendar date or zone.
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// ParseClockTime parses "HH:MM:SS" or "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	var c ClockTime
	switch strings.Count(s, ":") {
	case 1:
		if _, err := fmt.Sscanf(s, "%d:%d", &c.Hour, &c.Minute); err != nil {
			return ClockTime{}, fmt.Errorf("parse clock time %q: %w", s, err)
		}
	case 2:
		if _, err := fmt.Sscanf(s, "%d:%d:%d", &c.Hour, &c.Minute, &c.Second); err != nil {
			return ClockTime{}, fmt.Errorf("parse clock time %q: %w", s, err)
		}
	default:
		return ClockTime{}, fmt.Errorf("parse clock time %q: expected HH:MM[:SS]", s)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 || c.Second < 0 || c.Second > 59 {
		return ClockTime{}, fmt.Errorf("parse clock time %q: out of range", s)
	}
	return c, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// IsMidnight reports whether the time is exactly 00:00:00.
func (c ClockTime) IsMidnight() bool {
	return c.Hour == 0 && c.Minute == 0 && c.Second == 0
}

// MarshalText implements encoding.TextMarshaler.
func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// SlotEnd is the end of a plannable time slot. Configuration historically
// overloaded a till of 00:00:00 to mean "through the end of the day, rolling
// into the next calendar day"; SlotEnd keeps that sentinel explicit instead
// of leaving a midnight clock time ambiguous.
type SlotEnd struct {
	endOfDay bool
	at       ClockTime
}

// SlotEndAt returns a slot end at the given clock time on the same day.
func SlotEndAt(t ClockTime) SlotEnd {
	if t.IsMidnight() {
		return EndOfDay()
	}
	return SlotEnd{at: t}
}

// EndOfDay returns the slot end that extends through local midnight into the
// next calendar day.
func EndOfDay() SlotEnd {
	return SlotEnd{endOfDay: true}
}

// IsEndOfDay reports whether the slot rolls over into the next day.
func (e SlotEnd) IsEndOfDay() bool {
	return e.endOfDay
}

// At returns the clock time of a same-day slot end. For an end-of-day slot
// it returns midnight.
func (e SlotEnd) At() ClockTime {
	return e.at
}

func (e SlotEnd) String() string {
	if e.endOfDay {
		return "00:00:00"
	}
	return e.at.String()
}

// MarshalText writes the backward-compatible wire form, with end-of-day
// serialized as the 00:00:00 sentinel.
func (e SlotEnd) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText parses a clock time, mapping the 00:00:00 sentinel to
// end-of-day.
func (e *SlotEnd) UnmarshalText(b []byte) error {
	parsed, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*e = SlotEndAt(parsed)
	return nil
}

// TimeSlot is a window of plannable local time within a single day. A Till
// of end-of-day extends the window past midnight, so 23:00–00:00 is a one
// hour slot rather than a zero-length one.
type TimeSlot struct {
	From ClockTime `json:"from" yaml:"from" koanf:"from"`
	Till SlotEnd   `json:"till" yaml:"till" koanf:"till"`
}

// bounds returns the absolute start and end of the slot on the calendar day
// of ref, in ref's location. Zone-aware construction via time.Date absorbs
// daylight saving transitions.
func (s TimeSlot) bounds(ref time.Time) (time.Time, time.Time) {
	year, month, day := ref.Date()
	loc := ref.Location()
	from := time.Date(year, month, day, s.From.Hour, s.From.Minute, s.From.Second, 0, loc)
	var till time.Time
	if s.Till.IsEndOfDay() {
		till = time.Date(year, month, day, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	} else {
		at := s.Till.At()
		till = time.Date(year, month, day, at.Hour, at.Minute, at.Second, 0, loc)
	}
	return from, till
}

// contains reports whether [localFrom, localTill) lies fully inside the slot
// anchored to localFrom's calendar day.
func (s TimeSlot) contains(localFrom, localTill time.Time) bool {
	slotFrom, slotTill := s.bounds(localFrom)
	return !localFrom.Before(slotFrom) &&
		localFrom.Before(slotTill) &&
		localTill.After(slotFrom) &&
		!localTill.After(slotTill)
}

// ParseWeekday maps a configuration key such as "Thu" or "thursday" to a
// time.Weekday.
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "mon", "monday":
		return time.Monday, nil
	case "tue", "tuesday":
		return time.Tuesday, nil
	case "wed", "wednesday":
		return time.Wednesday, nil
	case "thu", "thursday":
		return time.Thursday, nil
	case "fri", "friday":
		return time.Friday, nil
	case "sat", "saturday":
		return time.Saturday, nil
	case "sun", "sunday":
		return time.Sunday, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
