package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gregorizeidler/urbansight/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "urbansight",
	Short: "Property location intelligence from OpenStreetMap data",
	Long:  "Geocodes an address, collects the surrounding points of interest, and scores the neighborhood: walkability, accessibility, diversity, density, clustering.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
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
