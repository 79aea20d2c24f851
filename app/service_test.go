package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watthuis/spotplan/config"
	"github.com/watthuis/spotplan/core/model"
	"github.com/watthuis/spotplan/core/planner"
	"github.com/watthuis/spotplan/infra/mqtt"
)

type mockStore struct {
	state  *model.SpotPricesState
	stored []model.SpotPricesState
	err    error
}

func (m *mockStore) ReadState(context.Context) (*model.SpotPricesState, error) {
	return m.state, m.err
}

func (m *mockStore) StoreState(_ context.Context, s model.SpotPricesState) error {
	m.stored = append(m.stored, s)
	return nil
}

type recordingBus struct {
	measurements []model.Measurement
}

func (b *recordingBus) PublishMeasurement(m model.Measurement) error {
	b.measurements = append(b.measurements, m)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Location: "home",
		Planner: config.PlannerConfig{
			PlannableLocalTimeSlots: map[string][]planner.TimeSlot{
				"Monday":    allDay(t),
				"Tuesday":   allDay(t),
				"Wednesday": allDay(t),
				"Thursday":  allDay(t),
				"Friday":    allDay(t),
				"Saturday":  allDay(t),
				"Sunday":    allDay(t),
			},
			LocalTimeZone: "Europe/Amsterdam",
			LoadProfile: planner.LoadProfile{Sections: []planner.LoadProfileSection{
				{DurationSeconds: 7200, PowerDrawWatt: 2000},
			}},
		},
	}
	cfg.Planner.SetDefaults()
	require.NoError(t, cfg.Planner.Validate())
	return cfg
}

func allDay(t *testing.T) []planner.TimeSlot {
	t.Helper()
	from, err := planner.ParseClockTime("00:00:00")
	require.NoError(t, err)
	return []planner.TimeSlot{{From: from, Till: planner.EndOfDay()}}
}

func futurePrices(base time.Time) []model.SpotPrice {
	prices := []float64{0.25, 0.21, 0.19, 0.23}
	out := make([]model.SpotPrice, 0, len(prices))
	for i, p := range prices {
		from := base.Add(time.Duration(i) * time.Hour)
		out = append(out, model.SpotPrice{
			From:                from,
			Till:                from.Add(time.Hour),
			MarketPrice:         p,
			SourcingMarkupPrice: 0.017,
			EnergyTaxPrice:      0.081,
		})
	}
	return out
}

func newTestService(t *testing.T, cfg *config.Config, store *mockStore, plans *mqtt.MockPublisher, bus MeasurementPublisher) *Service {
	t.Helper()
	engineCfg, err := cfg.Planner.EngineConfig()
	require.NoError(t, err)
	return newService(cfg, planner.New(engineCfg, nil), store, plans, bus, nil, nil)
}

func TestRunWithoutStateReturnsError(t *testing.T) {
	svc := newTestService(t, testConfig(t), &mockStore{}, nil, nil)
	err := svc.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoSpotPricesState)
}

func TestRunPublishesPlanAndMeasurement(t *testing.T) {
	cfg := testConfig(t)
	base := time.Now().UTC().Truncate(time.Hour).Add(2 * time.Hour)
	store := &mockStore{state: &model.SpotPricesState{
		FutureSpotPrices: futurePrices(base),
		LastFrom:         base.Add(3 * time.Hour),
	}}
	plans := &mqtt.MockPublisher{}
	bus := &recordingBus{}

	svc := newTestService(t, cfg, store, plans, bus)
	require.NoError(t, svc.Run(context.Background()))

	require.Len(t, plans.Plans, 1)
	selected := plans.Plans[0].SpotPrices
	require.Len(t, selected, 2)
	assert.Equal(t, base.Add(time.Hour), selected[0].From)
	assert.Equal(t, base.Add(3*time.Hour), selected[1].Till)

	require.Len(t, bus.measurements, 1)
	m := bus.measurements[0]
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "spotplan", m.Source)
	assert.Equal(t, "home", m.Location)
	require.NotEmpty(t, m.Samples)
	assert.Equal(t, model.SampleTypeEnergyCost, m.Samples[0].SampleType)
	assert.InDelta(t, plans.Plans[0].TotalCost(), m.Samples[0].Value, 1e-9)
}

func TestRunFragmentedSelectsCheapestHours(t *testing.T) {
	cfg := testConfig(t)
	cfg.Planner.SelectionMode = "fragmented"
	cfg.Planner.SessionMinutes = 120
	require.NoError(t, cfg.Planner.Validate())

	base := time.Now().UTC().Truncate(time.Hour).Add(2 * time.Hour)
	store := &mockStore{state: &model.SpotPricesState{FutureSpotPrices: futurePrices(base)}}
	plans := &mqtt.MockPublisher{}

	svc := newTestService(t, cfg, store, plans, nil)
	require.NoError(t, svc.Run(context.Background()))

	require.Len(t, plans.Plans, 1)
	selected := plans.Plans[0].SpotPrices
	require.Len(t, selected, 2)
	// The two cheapest hours, back in time order.
	assert.Equal(t, base.Add(time.Hour), selected[0].From)
	assert.Equal(t, base.Add(2*time.Hour), selected[1].From)
}

func TestRunSkipsPlanPublishWhenNothingSelected(t *testing.T) {
	cfg := testConfig(t)
	// Only one hour of prices for a two hour load profile.
	base := time.Now().UTC().Truncate(time.Hour).Add(2 * time.Hour)
	store := &mockStore{state: &model.SpotPricesState{FutureSpotPrices: futurePrices(base)[:1]}}
	plans := &mqtt.MockPublisher{}

	svc := newTestService(t, cfg, store, plans, nil)
	require.NoError(t, svc.Run(context.Background()))
	assert.Empty(t, plans.Plans)
}
