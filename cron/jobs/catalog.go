package jobs

import (
	"log"

	"souq.GO/config"
	catalogRepository "souq.GO/model/repository/catalog"
	settingsRepository "souq.GO/model/repository/settings"
	"souq.GO/cron"
	"souq.GO/service/pricing"
)

const refreshDrainBatch = 100

func init() {
	// Nightly, after the marketplace's own price updates settle.
	cron.Register("catalog:reprice", "0 2 * * *", runReprice)
	cron.Register("catalog:refresh-drain", "*/15 * * * *", runRefreshDrain)
}

// runReprice recomputes catalog prices against the current rate table.
func runReprice(args ...string) {
	config.LoadAppConfig()
	db, err := config.NewDB()
	if err != nil {
		log.Printf("cron reprice: db: %v", err)
		return
	}
	rate, err := settingsRepository.NewRatesRepository(db).Get()
	if err != nil {
		log.Printf("cron reprice: rates: %v", err)
		return
	}
	rt := pricing.FromSettings(rate, config.AppConfig)

	res, err := pricing.RepriceCatalog(db, rt, pricing.RepriceOptions{
		LocalThreshold: config.AppConfig.LocalCurrencyThreshold,
	})
	if err != nil {
		log.Printf("cron reprice: %v", err)
		return
	}
	log.Printf("cron reprice: scanned=%d repriced=%d variants=%d skipped=%d",
		res.Scanned, res.Repriced, res.VariantsRepriced, res.Skipped)
}

// runRefreshDrain services the duplicate-triggered refresh signals:
// each flagged product gets its price recomputed from the stored raw
// figures, then the signal is marked processed. Refreshing is best
// effort; a failed product stays pending for the next run.
func runRefreshDrain(args ...string) {
	config.LoadAppConfig()
	db, err := config.NewDB()
	if err != nil {
		log.Printf("cron refresh: db: %v", err)
		return
	}
	repo := catalogRepository.NewCatalogRepository(db)

	signals, err := repo.PendingRefresh(refreshDrainBatch)
	if err != nil {
		log.Printf("cron refresh: load signals: %v", err)
		return
	}
	if len(signals) == 0 {
		return
	}

	rate, err := settingsRepository.NewRatesRepository(db).Get()
	if err != nil {
		log.Printf("cron refresh: rates: %v", err)
		return
	}
	rt := pricing.FromSettings(rate, config.AppConfig)

	var done []uint
	for _, sig := range signals {
		if err := refreshProduct(repo, sig.ProductID, rt); err != nil {
			log.Printf("cron refresh: product %d: %v", sig.ProductID, err)
			continue
		}
		done = append(done, sig.ID)
	}
	if len(done) > 0 {
		if err := repo.MarkRefreshed(done); err != nil {
			log.Printf("cron refresh: mark processed: %v", err)
		}
	}
	log.Printf("cron refresh: processed=%d pending=%d", len(done), len(signals)-len(done))
}

func refreshProduct(repo *catalogRepository.CatalogRepository, id uint, rt pricing.RateTable) error {
	p, err := repo.FindByID(id)
	if err != nil {
		return err
	}
	return pricing.RefreshProduct(repo, p, rt, config.AppConfig.LocalCurrencyThreshold)
}
