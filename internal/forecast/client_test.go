package forecast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSpotPricesDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "MarketPrices", req.OperationName)
		assert.Equal(t, "2022-04-14", req.Variables.StartDate)
		assert.Equal(t, "2022-04-15", req.Variables.EndDate)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"marketPricesElectricity": [
					{
						"from": "2022-04-14T11:00:00Z",
						"till": "2022-04-14T12:00:00Z",
						"marketPrice": 0.202,
						"marketPriceTax": 0.0424053,
						"sourcingMarkupPrice": 0.017,
						"energyTaxPrice": 0.081
					}
				]
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, APIKey: "secret", TimeoutSeconds: 5})
	prices, err := c.FetchSpotPrices(context.Background(),
		time.Date(2022, time.April, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2022, time.April, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, prices, 1)
	assert.Equal(t, time.Date(2022, time.April, 14, 11, 0, 0, 0, time.UTC), prices[0].From.UTC())
	assert.InDelta(t, 0.3424053, prices[0].TotalPrice(), 1e-9)
}

func TestFetchSpotPricesNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, TimeoutSeconds: 5})
	_, err := c.FetchSpotPrices(context.Background(), time.Now(), time.Now().Add(24*time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
