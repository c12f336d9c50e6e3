package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"souq.GO/config"
	settingsRepository "souq.GO/model/repository/settings"
	"souq.GO/service/pricing"
)

var repriceDryRun bool

var repriceCmd = &cobra.Command{
	Use:   "catalog:reprice",
	Short: "Recompute catalog prices from stored raw prices and the current rate table",
	Run: func(cmd *cobra.Command, args []string) {
		config.LoadAppConfig()
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		rate, err := settingsRepository.NewRatesRepository(db).Get()
		if err != nil {
			fmt.Printf("Failed to load shipping rates: %v\n", err)
			return
		}
		rt := pricing.FromSettings(rate, config.AppConfig)

		start := time.Now()
		res, err := pricing.RepriceCatalog(db, rt, pricing.RepriceOptions{
			LocalThreshold: config.AppConfig.LocalCurrencyThreshold,
			DryRun:         repriceDryRun,
		})
		if err != nil {
			fmt.Printf("Repricing failed: %v\n", err)
			return
		}

		mode := "applied"
		if repriceDryRun {
			mode = "dry run"
		}
		fmt.Printf(`
=== Reprice Report (%s) ===
Scanned:           %d
Repriced:          %d
Variants repriced: %d
Skipped:           %d
Total time:        %s
===========================
`, mode, res.Scanned, res.Repriced, res.VariantsRepriced, res.Skipped,
			time.Since(start).Round(time.Millisecond))
	},
}

func init() {
	repriceCmd.Flags().BoolVar(&repriceDryRun, "dry-run", false, "Log intended changes without writing")
	rootCmd.AddCommand(repriceCmd)
}
