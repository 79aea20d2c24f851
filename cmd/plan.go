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
	"github.com/watthuis/spotplan/infra/logger"
	"github.com/watthuis/spotplan/infra/state"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan against the stored forecast and print the selection",
	RunE:  planOnce,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func planOnce(cmd *cobra.Command, args []string) error {
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

	engineCfg, err := cfg.Planner.EngineConfig()
	if err != nil {
		return fmt.Errorf("planner config: %w", err)
	}
	pl := planner.New(engineCfg, logger.New("plan-command"))

	now := time.Now().UTC()
	req := planner.Request{
		SpotPrices:  st.FutureSpotPrices,
		LoadProfile: cfg.Planner.LoadProfile,
		Strategy:    cfg.Planner.Strategy(),
		After:       &now,
	}

	var resp planner.Response
	switch cfg.Planner.Mode() {
	case planner.Fragmented:
		resp, err = pl.FragmentedSpotPrices(req, cfg.Planner.Session())
	default:
		resp, err = pl.BestSpotPrices(req)
	}
	if err != nil {
		return err
	}

	if len(resp.SpotPrices) == 0 {
		fmt.Println("no plannable spot prices cover the load profile")
		return nil
	}
	for _, sp := range resp.SpotPrices {
		fmt.Printf("%s - %s  %.5f EUR/kWh\n",
			sp.From.Format(time.RFC3339), sp.Till.Format(time.RFC3339), sp.TotalPrice())
	}
	fmt.Printf("total cost: %.4f EUR\n", resp.TotalCost())
	if !resp.CoversLoad() {
		fmt.Println("warning: selection covers less than the load profile duration")
	}
	return nil
}
