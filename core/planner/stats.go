package planner

import (
	"gonum.org/v1/gonum/stat"

	"github.com/watthuis/spotplan/core/model"
)

// PriceSummary describes the distribution of total prices in a forecast.
type PriceSummary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes summary statistics over the total price of each spot
// price. An empty input yields a zero summary.
func Summarize(spotPrices []model.SpotPrice) PriceSummary {
	if len(spotPrices) == 0 {
		return PriceSummary{}
	}
	totals := make([]float64, len(spotPrices))
	for i, sp := range spotPrices {
		totals[i] = sp.TotalPrice()
	}
	summary := PriceSummary{
		Count: len(totals),
		Mean:  stat.Mean(totals, nil),
		Min:   totals[0],
		Max:   totals[0],
	}
	if len(totals) > 1 {
		summary.StdDev = stat.StdDev(totals, nil)
	}
	for _, t := range totals[1:] {
		if t < summary.Min {
			summary.Min = t
		}
		if t > summary.Max {
			summary.Max = t
		}
	}
	return summary
}
