package pricing

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	catalogEntity "souq.GO/model/entity/catalog"
	catalogRepo "souq.GO/model/repository/catalog"
)

// RepriceOptions configures a whole-catalog repricing run.
type RepriceOptions struct {
	PageSize       int
	LocalThreshold float64 // magnitude cutoff for ClassifyStoredPrice
	DryRun         bool
}

// RepriceResult holds counters from a repricing run.
type RepriceResult struct {
	Scanned          int
	Repriced         int
	VariantsScanned  int
	VariantsRepriced int
	Skipped          int
	Warnings         []string
}

// RepriceCatalog walks the product table in fixed-size pages and
// recomputes prices with the current rate table. Only entries whose
// stored raw price still classifies as source currency are touched;
// rows that already carry finalized local figures are left alone. Every
// classification is logged so near-threshold decisions can be audited.
func RepriceCatalog(db *gorm.DB, rt RateTable, opts RepriceOptions) (*RepriceResult, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = 200
	}
	repo := catalogRepo.NewCatalogRepository(db)
	result := &RepriceResult{}

	for offset := 0; ; offset += opts.PageSize {
		page, err := repo.Page(offset, opts.PageSize)
		if err != nil {
			return result, fmt.Errorf("load product page at %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}
		for i := range page {
			p := &page[i]
			result.Scanned++
			repriceProduct(repo, p, rt, opts, result)
		}
		if len(page) < opts.PageSize {
			break
		}
	}
	return result, nil
}

func repriceProduct(repo *catalogRepo.CatalogRepository, p *catalogEntity.Product, rt RateTable, opts RepriceOptions, result *RepriceResult) {
	if p.RawPrice <= 0 {
		// Rows priced before raw prices were stored. The markup-only
		// inverse is an approximation, so the estimate is persisted for
		// the next walk but the stored price is left alone.
		if p.Price > 0 {
			est := EstimateRawBasePrice(p.Price, p.DomesticFee, rt)
			log.Printf("reprice: product=%d estimated raw=%.2f from stored=%d", p.ID, est, p.Price)
			if est > 0 && !opts.DryRun {
				if err := repo.UpdatePrice(p.ID, p.Price, est); err != nil {
					result.Warnings = append(result.Warnings, fmt.Sprintf("product %d: %v", p.ID, err))
				}
			}
		}
		result.Skipped++
		return
	}

	origin := ClassifyStoredPrice(p.RawPrice, opts.LocalThreshold)
	log.Printf("reprice: product=%d raw=%.2f classified=%s", p.ID, p.RawPrice, origin)
	if origin == OriginLocal {
		result.Skipped++
		return
	}

	price := Calculate(Input{
		RawPrice:    p.RawPrice,
		DomesticFee: p.DomesticFee,
		WeightKg:    deref(p.WeightKg),
		LengthCm:    deref(p.LengthCm),
		WidthCm:     deref(p.WidthCm),
		HeightCm:    deref(p.HeightCm),
	}, rt)
	if price <= 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("product %d: recompute produced zero price", p.ID))
		return
	}
	if price != p.Price {
		if !opts.DryRun {
			if err := repo.UpdatePrice(p.ID, price, p.RawPrice); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("product %d: %v", p.ID, err))
				return
			}
		}
		result.Repriced++
	}

	for vi := range p.Variants {
		v := &p.Variants[vi]
		result.VariantsScanned++
		if v.RawPrice <= 0 {
			continue
		}
		vo := ClassifyStoredPrice(v.RawPrice, opts.LocalThreshold)
		log.Printf("reprice: variant=%d raw=%.2f classified=%s", v.ID, v.RawPrice, vo)
		if vo == OriginLocal {
			continue
		}
		vPrice := Calculate(Input{
			RawPrice:    v.RawPrice,
			DomesticFee: p.DomesticFee,
			WeightKg:    firstPositive(deref(v.WeightKg), deref(p.WeightKg)),
			LengthCm:    firstPositive(deref(v.LengthCm), deref(p.LengthCm)),
			WidthCm:     firstPositive(deref(v.WidthCm), deref(p.WidthCm)),
			HeightCm:    firstPositive(deref(v.HeightCm), deref(p.HeightCm)),
		}, rt)
		if vPrice <= 0 || vPrice == v.Price {
			continue
		}
		if !opts.DryRun {
			if err := repo.UpdateVariantPrice(v.ID, vPrice, v.RawPrice); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("variant %d: %v", v.ID, err))
				continue
			}
		}
		result.VariantsRepriced++
	}
}

// RefreshProduct recomputes one product's price and variant prices in
// place, same rules as the catalog walk. Used when a duplicate
// submission signals that a product's source data may be stale.
func RefreshProduct(repo *catalogRepo.CatalogRepository, p *catalogEntity.Product, rt RateTable, localThreshold float64) error {
	result := &RepriceResult{}
	repriceProduct(repo, p, rt, RepriceOptions{LocalThreshold: localThreshold}, result)
	if len(result.Warnings) > 0 {
		return fmt.Errorf("%s", result.Warnings[0])
	}
	return nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
