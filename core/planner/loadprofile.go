package planner

import "time"

// LoadProfileSection is a constant-power segment of a task, e.g. "run the
// compressor at 2000 W for two hours".
type LoadProfileSection struct {
	DurationSeconds int64   `json:"durationSeconds" yaml:"durationSeconds" koanf:"durationSeconds"`
	PowerDrawWatt   float64 `json:"powerDrawWatt" yaml:"powerDrawWatt" koanf:"powerDrawWatt"`
}

// TotalPowerDrawWattSeconds returns the energy demand of the section in
// watt seconds.
func (s LoadProfileSection) TotalPowerDrawWattSeconds() float64 {
	return float64(s.DurationSeconds) * s.PowerDrawWatt
}

// LoadProfile is the ordered sequence of sections a task runs through once
// it is started. Order matters; the sections execute back to back.
type LoadProfile struct {
	Sections []LoadProfileSection `json:"sections" yaml:"sections" koanf:"sections"`
}

// TotalDurationSeconds returns the combined duration of all sections.
func (p LoadProfile) TotalDurationSeconds() int64 {
	var total int64
	for _, s := range p.Sections {
		total += s.DurationSeconds
	}
	return total
}

// TotalDuration returns the combined duration as a time.Duration.
func (p LoadProfile) TotalDuration() time.Duration {
	return time.Duration(p.TotalDurationSeconds()) * time.Second
}
