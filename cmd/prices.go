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
	"github.com/watthuis/spotplan/core/planner"
	"github.com/watthuis/spotplan/infra/state"
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Summarize the stored spot price forecast",
	RunE:  summarizePrices,
}

func init() {
	rootCmd.AddCommand(pricesCmd)
}

func summarizePrices(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := state.NewStore(cfg.State)
	if err != nil {
		return fmt.Errorf("state store: %w", err)
	}
	st, err := store.ReadState(ctx)
	if err != nil {
		return fmt.Errorf("read spot prices state: %w", err)
	}
	if st == nil {
		return fmt.Errorf("no spot prices state present; run spotplan fetch first")
	}

	summary := planner.Summarize(st.FutureSpotPrices)
	fmt.Printf("intervals: %d\n", summary.Count)
	fmt.Printf("mean:      %.5f EUR/kWh\n", summary.Mean)
	fmt.Printf("stddev:    %.5f\n", summary.StdDev)
	fmt.Printf("min:       %.5f EUR/kWh\n", summary.Min)
	fmt.Printf("max:       %.5f EUR/kWh\n", summary.Max)
	fmt.Printf("last from: %s\n", st.LastFrom.Format(time.RFC3339))
	return nil
}
