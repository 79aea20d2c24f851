package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watthuis/spotplan/core/model"
)

func TestFileStoreReadStateMissingFileReturnsNil(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "absent.yaml"))

	st, err := s.ReadState(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "spot-prices.yaml")
	s := NewFileStore(path)

	from := time.Date(2022, time.April, 14, 11, 0, 0, 0, time.UTC)
	want := model.SpotPricesState{
		FutureSpotPrices: []model.SpotPrice{{
			From:                from,
			Till:                from.Add(time.Hour),
			MarketPrice:         0.202,
			MarketPriceTax:      0.0424053,
			SourcingMarkupPrice: 0.017,
			EnergyTaxPrice:      0.081,
		}},
		LastFrom: from,
	}
	require.NoError(t, s.StoreState(context.Background(), want))

	got, err := s.ReadState(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.LastFrom.Equal(want.LastFrom))
	require.Len(t, got.FutureSpotPrices, 1)
	assert.True(t, got.FutureSpotPrices[0].From.Equal(from))
	assert.Equal(t, 0.202, got.FutureSpotPrices[0].MarketPrice)
}

func TestNewStoreUnknownBackend(t *testing.T) {
	_, err := NewStore(Config{Backend: "configmap"})
	assert.Error(t, err)
}
