package model

import "time"

// SpotPrice is a time-bounded quote for the unit cost of electricity,
// expressed in EUR per kWh and split into its billing components.
type SpotPrice struct {
	ID     string    `json:"id,omitempty" yaml:"id,omitempty"`
	Source string    `json:"source,omitempty" yaml:"source,omitempty"`
	From   time.Time `json:"from" yaml:"from"`
	Till   time.Time `json:"till" yaml:"till"`

	MarketPrice         float64 `json:"marketPrice" yaml:"marketPrice"`
	MarketPriceTax      float64 `json:"marketPriceTax" yaml:"marketPriceTax"`
	SourcingMarkupPrice float64 `json:"sourcingMarkupPrice" yaml:"sourcingMarkupPrice"`
	EnergyTaxPrice      float64 `json:"energyTaxPrice" yaml:"energyTaxPrice"`
}

// TotalPrice returns the all-in unit price, the sum of all components.
func (p SpotPrice) TotalPrice() float64 {
	return p.MarketPrice + p.MarketPriceTax + p.SourcingMarkupPrice + p.EnergyTaxPrice
}

// Duration returns the length of the priced interval.
func (p SpotPrice) Duration() time.Duration {
	return p.Till.Sub(p.From)
}

// DurationSeconds returns the interval length in whole seconds.
func (p SpotPrice) DurationSeconds() int64 {
	return int64(p.Duration() / time.Second)
}

// SpotPricesState is the spot price forecast persisted between runs by a
// state store, so the planner can run without refetching the forecast.
type SpotPricesState struct {
	FutureSpotPrices []SpotPrice `json:"futureSpotPrices" yaml:"futureSpotPrices"`
	LastFrom         time.Time   `json:"lastFrom" yaml:"lastFrom"`
}
