package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/waypoint-ops/itinerary-cli/internal/config"
	"github.com/waypoint-ops/itinerary-cli/internal/geo"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "itinerary-cli",
	Short: "Travel itinerary gap detection and reconciliation",
	Long: "Loads a travel-leg table, detects gaps between consecutive legs, mines a " +
		"mail corpus for the missing travel, and writes a reconciled, annotated table.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		if cfg.Geo.OverridesPath != "" {
			if err := geo.LoadOverrides(cfg.Geo.OverridesPath); err != nil {
				return fmt.Errorf("load geo overrides: %w", err)
			}
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
