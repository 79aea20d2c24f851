// Package forecast retrieves the spot price forecast from the energy
// provider's GraphQL endpoint.
package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/watthuis/spotplan/core/model"
	"github.com/watthuis/spotplan/infra/logger"
)

const marketPricesQuery = `query MarketPrices($startDate: Date!, $endDate: Date!) {
  marketPricesElectricity(startDate: $startDate, endDate: $endDate) {
    from
    till
    marketPrice
    marketPriceTax
    sourcingMarkupPrice
    energyTaxPrice
  }
}`

// Config defines the forecast endpoint.
type Config struct {
	URL            string `json:"url"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Request is the GraphQL request body for the market prices query.
type Request struct {
	Query         string           `json:"query"`
	Variables     RequestVariables `json:"variables"`
	OperationName string           `json:"operationName"`
}

// RequestVariables bounds the requested forecast window by calendar date.
type RequestVariables struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Response is the GraphQL response envelope.
type Response struct {
	Data ResponseData `json:"data"`
}

// ResponseData carries the priced intervals.
type ResponseData struct {
	MarketPricesElectricity []model.SpotPrice `json:"marketPricesElectricity"`
}

// Client fetches spot prices over HTTP.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        logger.Logger
}

// NewClient creates a forecast client.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:        logger.New("forecast-client"),
	}
}

// FetchSpotPrices retrieves the forecast for [start, end] and returns the
// priced intervals in the order the provider sends them.
func (c *Client) FetchSpotPrices(ctx context.Context, start, end time.Time) ([]model.SpotPrice, error) {
	body, err := json.Marshal(Request{
		Query: marketPricesQuery,
		Variables: RequestVariables{
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		},
		OperationName: "MarketPrices",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal forecast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create forecast request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, b)
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}

	c.log.Infof("fetched %d spot prices", len(decoded.Data.MarketPricesElectricity))
	return decoded.Data.MarketPricesElectricity, nil
}
