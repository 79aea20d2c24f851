package planner

import "fmt"

// Strategy is the cost comparison rule used to pick among candidate blocks.
type Strategy int

const (
	// LowestCost selects the block with the cheapest total cost.
	LowestCost Strategy = iota
	// HighestCost selects the most expensive block, useful when planning
	// feed-in rather than consumption.
	HighestCost
)

// ParseStrategy maps a configuration value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "lowestCost", "LowestCost", "lowest_cost":
		return LowestCost, nil
	case "highestCost", "HighestCost", "highest_cost":
		return HighestCost, nil
	}
	return LowestCost, fmt.Errorf("unknown planning strategy %q", s)
}

func (s Strategy) String() string {
	switch s {
	case LowestCost:
		return "lowestCost"
	case HighestCost:
		return "highestCost"
	default:
		return "unknown"
	}
}

// better reports whether candidate beats best under the strategy. Equality
// never replaces, so ties keep the earliest-found block.
func (s Strategy) better(candidate, best float64) bool {
	if s == HighestCost {
		return candidate > best
	}
	return candidate < best
}

// SelectionMode picks between the two historical ways of assembling a plan.
type SelectionMode int

const (
	// Consecutive searches for the best block of time-consecutive intervals
	// covering the load profile's duration.
	Consecutive SelectionMode = iota
	// Fragmented fills the requested session duration with the individually
	// best-priced intervals regardless of adjacency, then orders them by
	// time.
	Fragmented
)

// ParseSelectionMode maps a configuration value to a SelectionMode.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch s {
	case "", "consecutive", "Consecutive":
		return Consecutive, nil
	case "fragmented", "Fragmented":
		return Fragmented, nil
	}
	return Consecutive, fmt.Errorf("unknown selection mode %q", s)
}

func (m SelectionMode) String() string {
	if m == Fragmented {
		return "fragmented"
	}
	return "consecutive"
}
