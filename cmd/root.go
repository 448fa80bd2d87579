package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrovision/cropcast/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cropcast",
	Short: "Crop price prediction and farm advisory service",
	Long:  "Ingests historical market spreadsheets, trains a boosted-tree price model, and serves predictions with economic and agronomic advice.",
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
