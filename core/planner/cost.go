package planner

import "github.com/watthuis/spotplan/core/model"

// wattSecondsPerPriceUnit converts a spot price in EUR per kWh to EUR per
// watt second: 3600 seconds per hour times 1000 watts per kilowatt.
const wattSecondsPerPriceUnit = 3600.0 * 1000.0

// TotalCostForLoad computes the cost in EUR of running the load profile
// against the given spot prices, consumed in order. Both sides are expanded
// to per-second series so that price intervals and load sections need not
// align on common boundaries; the cost is then a plain dot product.
//
// Either side being empty yields 0. If the spot prices cover less than the
// profile's duration the uncovered trailing seconds contribute nothing;
// callers that care must check coverage by duration.
func TotalCostForLoad(spotPrices []model.SpotPrice, loadProfile LoadProfile) float64 {
	if len(spotPrices) == 0 || len(loadProfile.Sections) == 0 {
		return 0
	}

	requiredSeconds := int(loadProfile.TotalDurationSeconds())

	pricePerSecond := make([]float64, 0, requiredSeconds)
	for _, spotPrice := range spotPrices {
		if len(pricePerSecond) >= requiredSeconds {
			break
		}
		perSecond := spotPrice.TotalPrice() / wattSecondsPerPriceUnit
		seconds := int(spotPrice.DurationSeconds())
		if remaining := requiredSeconds - len(pricePerSecond); seconds > remaining {
			seconds = remaining
		}
		for i := 0; i < seconds; i++ {
			pricePerSecond = append(pricePerSecond, perSecond)
		}
	}

	powerDrawPerSecond := make([]float64, 0, requiredSeconds)
	for _, section := range loadProfile.Sections {
		for i := int64(0); i < section.DurationSeconds; i++ {
			powerDrawPerSecond = append(powerDrawPerSecond, section.PowerDrawWatt)
		}
	}

	var total float64
	for i := 0; i < len(pricePerSecond) && i < len(powerDrawPerSecond); i++ {
		total += pricePerSecond[i] * powerDrawPerSecond[i]
	}
	return total
}
