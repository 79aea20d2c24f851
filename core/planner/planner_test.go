package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watthuis/spotplan/core/model"
)

func mustClock(t *testing.T, s string) ClockTime {
	t.Helper()
	c, err := ParseClockTime(s)
	require.NoError(t, err)
	return c
}

func slot(t *testing.T, from, till string) TimeSlot {
	t.Helper()
	end, err := ParseClockTime(till)
	require.NoError(t, err)
	return TimeSlot{From: mustClock(t, from), Till: SlotEndAt(end)}
}

func hourlyPrice(from time.Time, marketPrice, marketPriceTax float64) model.SpotPrice {
	return model.SpotPrice{
		From:                from,
		Till:                from.Add(time.Hour),
		MarketPrice:         marketPrice,
		MarketPriceTax:      marketPriceTax,
		SourcingMarkupPrice: 0.017,
		EnergyTaxPrice:      0.081,
	}
}

var twoHourProfile = LoadProfile{Sections: []LoadProfileSection{
	{DurationSeconds: 7200, PowerDrawWatt: 2000},
}}

func TestPlannableSpotPricesKeepsOnlyPricesInsideSlots(t *testing.T) {
	p := New(Config{
		LocalTimeZone: "Europe/Amsterdam",
		LoadProfile:   twoHourProfile,
		PlannableLocalTimeSlots: map[time.Weekday][]TimeSlot{
			time.Thursday: {slot(t, "14:00", "16:00")},
		},
	}, nil)

	// Four hourly prices 11:00-15:00 UTC; local time is UTC+2 in April, so
	// only the 12:00 and 13:00 UTC hours fall inside 14:00-16:00 local.
	spotPrices := []model.SpotPrice{
		hourlyPrice(utc(2022, time.April, 14, 11), 0.202, 0.0424053),
		hourlyPrice(utc(2022, time.April, 14, 12), 0.195, 0.0409899),
		hourlyPrice(utc(2022, time.April, 14, 13), 0.194, 0.0406644),
		hourlyPrice(utc(2022, time.April, 14, 14), 0.192, 0.0403179),
	}

	plannable, err := p.PlannableSpotPrices(spotPrices, nil, nil)
	require.NoError(t, err)

	require.Len(t, plannable, 2)
	assert.Equal(t, utc(2022, time.April, 14, 12), plannable[0].From)
	assert.Equal(t, utc(2022, time.April, 14, 13), plannable[0].Till)
	assert.Equal(t, utc(2022, time.April, 14, 13), plannable[1].From)
	assert.Equal(t, utc(2022, time.April, 14, 14), plannable[1].Till)
}

func TestPlannableSpotPricesHandlesSlotWrappingIntoNextDay(t *testing.T) {
	p := New(Config{
		LocalTimeZone: "Europe/Amsterdam",
		LoadProfile:   twoHourProfile,
		PlannableLocalTimeSlots: map[time.Weekday][]TimeSlot{
			time.Thursday: {
				slot(t, "14:00", "16:00"),
				slot(t, "23:00", "00:00"),
			},
			time.Friday: {slot(t, "00:00", "02:00")},
		},
	}, nil)

	spotPrices := []model.SpotPrice{
		hourlyPrice(utc(2022, time.April, 14, 20), 0.265, 0.0557466),
		hourlyPrice(utc(2022, time.April, 14, 21), 0.254, 0.0532728),
		hourlyPrice(utc(2022, time.April, 14, 22), 0.231, 0.0484281),
		hourlyPrice(utc(2022, time.April, 14, 23), 0.215, 0.045129),
		hourlyPrice(utc(2022, time.April, 15, 0), 0.217, 0.04557),
		hourlyPrice(utc(2022, time.April, 15, 1), 0.208, 0.0437535),
	}

	plannable, err := p.PlannableSpotPrices(spotPrices, nil, nil)
	require.NoError(t, err)

	// Local 23:00-00:00 Thursday plus 00:00-02:00 Friday.
	require.Len(t, plannable, 3)
	assert.Equal(t, utc(2022, time.April, 14, 21), plannable[0].From)
	assert.Equal(t, utc(2022, time.April, 14, 22), plannable[1].From)
	assert.Equal(t, utc(2022, time.April, 14, 23), plannable[2].From)
}

func TestPlannableSpotPricesMidnightWraparoundAnchorsToStartDay(t *testing.T) {
	p := New(Config{
		LocalTimeZone: "Europe/Amsterdam",
		PlannableLocalTimeSlots: map[time.Weekday][]TimeSlot{
			time.Thursday: {slot(t, "23:00", "00:00")},
		},
	}, nil)

	// Local Thursday 23:00-00:00 is accepted; local Thursday 00:00-01:00 is
	// the same weekday but before the slot, so it is rejected.
	lateThursday := hourlyPrice(utc(2022, time.April, 14, 21), 0.215, 0.045129)
	earlyThursday := hourlyPrice(utc(2022, time.April, 13, 22), 0.215, 0.045129)

	plannable, err := p.PlannableSpotPrices([]model.SpotPrice{earlyThursday, lateThursday}, nil, nil)
	require.NoError(t, err)

	require.Len(t, plannable, 1)
	assert.Equal(t, lateThursday.From, plannable[0].From)
}

func TestPlannableSpotPricesHonorsAfterAndBefore(t *testing.T) {
	p := New(Config{
		LocalTimeZone: "Europe/Amsterdam",
		PlannableLocalTimeSlots: map[time.Weekday][]TimeSlot{
			time.Thursday: {slot(t, "00:00", "00:00")},
			time.Friday:   {slot(t, "00:00", "00:00")},
		},
	}, nil)

	var spotPrices []model.SpotPrice
	for hour := 10; hour < 14; hour++ {
		spotPrices = append(spotPrices, hourlyPrice(utc(2022, time.April, 14, hour), 0.2, 0.042))
	}

	after := utc(2022, time.April, 14, 11)
	before := utc(2022, time.April, 14, 13)

	plannable, err := p.PlannableSpotPrices(spotPrices, &after, &before)
	require.NoError(t, err)

	require.Len(t, plannable, 2)
	assert.Equal(t, after, plannable[0].From)
	assert.Equal(t, before, plannable[1].Till)
}

func TestPlannableSpotPricesInvalidTimeZoneIsConfigurationError(t *testing.T) {
	p := New(Config{LocalTimeZone: "Not/AZone"}, nil)

	_, err := p.PlannableSpotPrices(nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not/AZone")
}

func TestBestSpotPricesPicksCheapestConsecutiveBlock(t *testing.T) {
	p := New(Config{
		LocalTimeZone: "Europe/Amsterdam",
		PlannableLocalTimeSlots: map[time.Weekday][]TimeSlot{
			time.Thursday: {slot(t, "00:00", "00:00")},
			time.Friday:   {slot(t, "00:00", "00:00")},
		},
	}, nil)

	spotPrices := []model.SpotPrice{
		hourlyPrice(utc(2022, time.April, 14, 20), 0.265, 0.0557466),
		hourlyPrice(utc(2022, time.April, 14, 21), 0.254, 0.0532728),
		hourlyPrice(utc(2022, time.April, 14, 22), 0.231, 0.0484281),
		hourlyPrice(utc(2022, time.April, 14, 23), 0.215, 0.045129),
		hourlyPrice(utc(2022, time.April, 15, 0), 0.217, 0.04557),
		hourlyPrice(utc(2022, time.April, 15, 1), 0.208, 0.0437535),
	}

	resp, err := p.BestSpotPrices(Request{
		SpotPrices:  spotPrices,
		LoadProfile: twoHourProfile,
		Strategy:    LowestCost,
	})
	require.NoError(t, err)

	// The 00:00 and 01:00 UTC hours form the cheapest consecutive pair.
	require.Len(t, resp.SpotPrices, 2)
	assert.Equal(t, utc(2022, time.April, 15, 0), resp.SpotPrices[0].From)
	assert.Equal(t, utc(2022, time.April, 15, 1), resp.SpotPrices[1].From)
	assert.True(t, resp.CoversLoad())

	// Every other same-duration consecutive block costs at least as much.
	bestCost := resp.TotalCost()
	for i := 0; i+1 < len(spotPrices); i++ {
		block := spotPrices[i : i+2]
		assert.GreaterOrEqual(t, TotalCostForLoad(block, twoHourProfile), bestCost)
	}
}

func TestBestSpotPricesHighestCostIsTheDual(t *testing.T) {
	p := New(Config{
		LocalTimeZone: "Europe/Amsterdam",
		PlannableLocalTimeSlots: map[time.Weekday][]TimeSlot{
			time.Thursday: {slot(t, "00:00", "00:00")},
			time.Friday:   {slot(t, "00:00", "00:00")},
		},
	}, nil)

	spotPrices := []model.SpotPrice{
		hourlyPrice(utc(2022, time.April, 14, 20), 0.265, 0.0557466),
		hourlyPrice(utc(2022, time.April, 14, 21), 0.254, 0.0532728),
		hourlyPrice(utc(2022, time.April, 14, 22), 0.231, 0.0484281),
		hourlyPrice(utc(2022, time.April, 14, 23), 0.215, 0.045129),
	}

	resp, err := p.BestSpotPrices(Request{
		SpotPrices:  spotPrices,
		LoadProfile: twoHourProfile,
		Strategy:    HighestCost,
	})
	require.NoError(t, err)

	require.Len(t, resp.SpotPrices, 2)
	assert.Equal(t, utc(2022, time.April, 14, 20), resp.SpotPrices[0].From)
	assert.Equal(t, utc(2022, time.April, 14, 21), resp.SpotPrices[1].From)
}

func TestBestSpotPricesTieKeepsEarliestBlock(t *testing.T) {
	p := New(Config{
		LocalTimeZone: "Europe/Amsterdam",
		PlannableLocalTimeSlots: map[time.Weekday][]TimeSlot{
			time.Thursday: {slot(t, "00:00", "00:00")},
		},
	}, nil)

	var spotPrices []model.SpotPrice
	for hour := 10; hour < 14; hour++ {
		spotPrices = append(spotPrices, hourlyPrice(utc(2022, time.April, 14, hour), 0.2, 0.042))
	}

	resp, err := p.BestSpotPrices(Request{
		SpotPrices:  spotPrices,
		LoadProfile: twoHourProfile,
		Strategy:    LowestCost,
	})
	require.NoError(t, err)

	require.Len(t, resp.SpotPrices, 2)
	assert.Equal(t, utc(2022, time.April, 14, 10), resp.SpotPrices[0].From)
}

func TestBestSpotPricesReturnsEmptySelectionWhenNothingPlannable(t *testing.T) {
	p := New(Config{
		LocalTimeZone:           "Europe/Amsterdam",
		PlannableLocalTimeSlots: map[time.Weekday][]TimeSlot{},
	}, nil)

	resp, err := p.BestSpotPrices(Request{
		SpotPrices:  []model.SpotPrice{hourlyPrice(utc(2022, time.April, 14, 12), 0.2, 0.042)},
		LoadProfile: twoHourProfile,
		Strategy:    LowestCost,
	})
	require.NoError(t, err)

	assert.Empty(t, resp.SpotPrices)
	assert.Zero(t, resp.TotalCost())
	assert.Equal(t, twoHourProfile, resp.LoadProfile)
}

func TestBestSpotPricesInsufficientIntervalsYieldEmptySelection(t *testing.T) {
	p := New(Config{
		LocalTimeZone: "Europe/Amsterdam",
		PlannableLocalTimeSlots: map[time.Weekday][]TimeSlot{
			time.Thursday: {slot(t, "00:00", "00:00")},
		},
	}, nil)

	// One plannable hour cannot cover a two hour profile. Not an error; the
	// caller sees it through the response shape.
	resp, err := p.BestSpotPrices(Request{
		SpotPrices:  []model.SpotPrice{hourlyPrice(utc(2022, time.April, 14, 12), 0.2, 0.042)},
		LoadProfile: twoHourProfile,
		Strategy:    LowestCost,
	})
	require.NoError(t, err)

	assert.Empty(t, resp.SpotPrices)
	assert.False(t, resp.CoversLoad())
}

func TestBestSpotPricesIsIdempotent(t *testing.T) {
	p := New(Config{
		LocalTimeZone: "Europe/Amsterdam",
		PlannableLocalTimeSlots: map[time.Weekday][]TimeSlot{
			time.Thursday: {slot(t, "00:00", "00:00")},
			time.Friday:   {slot(t, "00:00", "00:00")},
		},
	}, nil)

	req := Request{
		SpotPrices: []model.SpotPrice{
			hourlyPrice(utc(2022, time.April, 14, 20), 0.265, 0.0557466),
			hourlyPrice(utc(2022, time.April, 14, 21), 0.254, 0.0532728),
			hourlyPrice(utc(2022, time.April, 14, 22), 0.231, 0.0484281),
		},
		LoadProfile: twoHourProfile,
		Strategy:    LowestCost,
	}

	first, err := p.BestSpotPrices(req)
	require.NoError(t, err)
	second, err := p.BestSpotPrices(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFragmentedSpotPricesFillsSessionWithCheapestHours(t *testing.T) {
	p := New(Config{
		LocalTimeZone: "Europe/Amsterdam",
		PlannableLocalTimeSlots: map[time.Weekday][]TimeSlot{
			time.Thursday: {slot(t, "00:00", "00:00")},
			time.Friday:   {slot(t, "00:00", "00:00")},
		},
	}, nil)

	spotPrices := []model.SpotPrice{
		hourlyPrice(utc(2022, time.April, 14, 20), 0.265, 0.0557466),
		hourlyPrice(utc(2022, time.April, 14, 21), 0.254, 0.0532728),
		hourlyPrice(utc(2022, time.April, 14, 22), 0.231, 0.0484281),
		hourlyPrice(utc(2022, time.April, 14, 23), 0.215, 0.045129),
		hourlyPrice(utc(2022, time.April, 15, 0), 0.217, 0.04557),
		hourlyPrice(utc(2022, time.April, 15, 1), 0.208, 0.0437535),
	}

	resp, err := p.FragmentedSpotPrices(Request{
		SpotPrices:  spotPrices,
		LoadProfile: twoHourProfile,
		Strategy:    LowestCost,
	}, 2*time.Hour)
	require.NoError(t, err)

	// The two individually cheapest hours, returned in time order.
	require.Len(t, resp.SpotPrices, 2)
	assert.Equal(t, utc(2022, time.April, 14, 23), resp.SpotPrices[0].From)
	assert.Equal(t, 0.215, resp.SpotPrices[0].MarketPrice)
	assert.Equal(t, utc(2022, time.April, 15, 1), resp.SpotPrices[1].From)
	assert.Equal(t, 0.208, resp.SpotPrices[1].MarketPrice)
}
