package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/watthuis/spotplan/config"
	"github.com/watthuis/spotplan/core/model"
	"github.com/watthuis/spotplan/infra/logger"
	"github.com/watthuis/spotplan/infra/state"
	"github.com/watthuis/spotplan/internal/forecast"
)

var fetchDays int

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the spot price forecast and store it",
	RunE:  fetchForecast,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchDays, "days", 2, "number of days to fetch, starting today")
	rootCmd.AddCommand(fetchCmd)
}

func fetchForecast(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New("fetch-command")
	client := forecast.NewClient(cfg.Forecast)

	start := time.Now().UTC().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, fetchDays)
	prices, err := client.FetchSpotPrices(ctx, start, end)
	if err != nil {
		return fmt.Errorf("fetch spot prices: %w", err)
	}
	if len(prices) == 0 {
		return fmt.Errorf("provider returned no spot prices for %s to %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	store, err := state.NewStore(cfg.State)
	if err != nil {
		return fmt.Errorf("state store: %w", err)
	}

	st := model.SpotPricesState{FutureSpotPrices: prices}
	for _, sp := range prices {
		if sp.From.After(st.LastFrom) {
			st.LastFrom = sp.From
		}
	}
	if err := store.StoreState(ctx, st); err != nil {
		return fmt.Errorf("store state: %w", err)
	}

	logg.Infof("stored %d spot prices, last interval starts %s", len(prices), st.LastFrom)
	return nil
}
