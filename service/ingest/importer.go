package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"souq.GO/config"
	catalogEntity "souq.GO/model/entity/catalog"
	catalogRepository "souq.GO/model/repository/catalog"
	settingsRepository "souq.GO/model/repository/settings"
	"souq.GO/service/pricing"
	"souq.GO/service/search"
)

// ImportOptions configures a bulk ingestion run.
type ImportOptions struct {
	// Progress receives percentage updates when set, 0 and 100
	// included. Sends never block, so the channel needs a little
	// buffer or a prompt consumer; a slow one just misses
	// intermediate steps.
	Progress chan<- int
	// MaxErrors bounds the per-item error list in the result.
	MaxErrors int
	// Status is the lifecycle state for created products. Synchronous
	// imports publish immediately; queued ones land as drafts for
	// review. Empty means published.
	Status string
}

// ImportResult holds counters and timing from an ingestion run. One
// bad item never fails the batch; it lands in Failed with an entry in
// Errors instead.
type ImportResult struct {
	Total     int           `json:"total"`
	Imported  int           `json:"imported"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Requeued  int           `json:"requeued"`
	Errors    []string      `json:"errors,omitempty"`
	TotalTime time.Duration `json:"-"`
}

func (r *ImportResult) addError(maxErrors int, format string, args ...interface{}) {
	if len(r.Errors) < maxErrors {
		r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	}
}

// draft is one listing after extraction and normalization, ready to be
// deduplicated and persisted.
type draft struct {
	index        int
	title        string
	originalName string
	rawPrice     float64
	domesticFee  float64
	purchaseURL  string
	mainImage    string
	images       []string
	deliveryTime string
	specs        string
	weightKg     float64
	lengthCm     float64
	widthCm      float64
	heightCm     float64
	metadata     map[string]string
	options      []DraftOption
	variants     []DraftVariant
}

var purchaseURLFields = []string{"purchase_url", "purchaseUrl", "detailUrl", "productUrl", "url", "link"}
var domesticFeeFields = []string{"domestic_fee", "domesticFee", "freight", "freightFee", "localShipping"}
var deliveryTimeFields = []string{"delivery_time", "deliveryTime", "leadTime", "deliveryPeriod"}

// ImportProducts runs the full pipeline over one batch: extraction and
// normalization first for every item, then a single catalog key
// preload, then dedup, pricing and persistence item by item. ctx bounds
// the remote translation calls; everything else is local.
func ImportProducts(ctx context.Context, db *gorm.DB, cfg *config.Config, items []RawProduct, opts ImportOptions) (*ImportResult, error) {
	start := time.Now()
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = 50
	}

	if opts.Status == "" {
		opts.Status = catalogEntity.StatusPublished
	}

	result := &ImportResult{Total: len(items)}
	emitProgress(opts.Progress, 0)
	defer func() {
		emitProgress(opts.Progress, 100)
		result.TotalTime = time.Since(start)
	}()

	if len(items) == 0 {
		return result, nil
	}

	rate, err := settingsRepository.NewRatesRepository(db).Get()
	if err != nil {
		return nil, fmt.Errorf("loading shipping rates: %w", err)
	}
	rt := pricing.FromSettings(rate, cfg)

	// Phase 1: build drafts. Translation and extraction failures are
	// per-item; a nil slot marks a failed item.
	drafts := make([]*draft, len(items))
	urls := make([]string, 0, len(items))
	names := make([]string, 0, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := buildDraft(ctx, item, i)
		if err != nil {
			result.Failed++
			result.addError(opts.MaxErrors, "item %d: %v", i, err)
			continue
		}
		drafts[i] = d
		if d.purchaseURL != "" {
			urls = append(urls, d.purchaseURL)
		}
		if d.title != DefaultTitle {
			names = append(names, d.title)
		}
	}

	repo := catalogRepository.NewCatalogRepository(db)
	detector, err := newDupeDetector(repo, urls, names)
	if err != nil {
		return nil, err
	}

	// Phase 2: dedup, price, persist.
	lastStep := 0
	for i, d := range drafts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d == nil {
			continue
		}
		existingID, dup := detector.Check(d.purchaseURL, d.title, d.index)
		if dup {
			result.Skipped++
			if existingID != 0 {
				resaveDuplicate(repo, d, rt, existingID, result, opts.MaxErrors)
			}
			advanceProgress(opts.Progress, i+1, len(drafts), &lastStep)
			continue
		}
		product, err := persistDraft(repo, d, rt, opts.Status)
		if err != nil {
			result.Failed++
			result.addError(opts.MaxErrors, "item %d: %v", i, err)
		} else {
			result.Imported++
			search.GetService().IndexProduct(ctx, product)
		}
		advanceProgress(opts.Progress, i+1, len(drafts), &lastStep)
	}

	log.Printf("ingest: total=%d imported=%d skipped=%d failed=%d requeued=%d in %s",
		result.Total, result.Imported, result.Skipped, result.Failed, result.Requeued, time.Since(start))
	return result, nil
}

// buildDraft extracts and normalizes one raw listing.
func buildDraft(ctx context.Context, raw RawProduct, index int) (*draft, error) {
	title, original := ExtractTitle(ctx, raw)

	rawPrice := ExtractPrice(raw)
	if rawPrice <= 0 {
		return nil, fmt.Errorf("no usable price")
	}

	d := &draft{
		index:        index,
		title:        title,
		originalName: original,
		rawPrice:     rawPrice,
		purchaseURL:  toString(firstOf(raw, purchaseURLFields...)),
		deliveryTime: toString(firstOf(raw, deliveryTimeFields...)),
		specs:        toString(firstOf(raw, "specs", "specification", "description")),
		images:       ExtractImages(raw),
		weightKg:     pricing.ParseWeight(ExtractWeight(raw)),
	}
	if fee, ok := toFloat(firstOf(raw, domesticFeeFields...)); ok && fee > 0 {
		d.domesticFee = fee
	}
	if len(d.images) > 0 {
		d.mainImage = d.images[0]
	}
	d.lengthCm, d.widthCm, d.heightCm = ParseDimensions(ExtractDimensions(raw))

	d.metadata = map[string]string{
		"material": ExtractMaterial(raw, title),
		"design":   ExtractDesign(raw),
		"fit":      ExtractFit(raw),
		"collar":   ExtractCollar(raw),
		"sleeves":  ExtractSleeves(raw),
		"features": ExtractFeatures(raw),
		"season":   ExtractSeason(raw),
		"length":   ExtractLength(raw),
	}

	d.options, d.variants = NormalizeOptions(raw, rawPrice)
	return d, nil
}

// persistDraft prices a draft and writes it with its children in one
// transaction.
func persistDraft(repo *catalogRepository.CatalogRepository, d *draft, rt pricing.RateTable, status string) (*catalogEntity.Product, error) {
	price := pricing.Calculate(pricing.Input{
		RawPrice:    d.rawPrice,
		DomesticFee: d.domesticFee,
		WeightKg:    d.weightKg,
		LengthCm:    d.lengthCm,
		WidthCm:     d.widthCm,
		HeightCm:    d.heightCm,
	}, rt)
	if price <= 0 {
		return nil, fmt.Errorf("price resolved to %d", price)
	}

	metadata, _ := json.Marshal(d.metadata)
	images, _ := json.Marshal(d.images)
	product := &catalogEntity.Product{
		Name:         d.title,
		OriginalName: d.originalName,
		Price:        price,
		RawPrice:     d.rawPrice,
		MainImage:    d.mainImage,
		Images:       images,
		PurchaseURL:  d.purchaseURL,
		Status:       status,
		IsActive:     true,
		DomesticFee:  d.domesticFee,
		DeliveryTime: d.deliveryTime,
		Specs:        d.specs,
		AIMetadata:   metadata,
	}
	setPositive(&product.WeightKg, d.weightKg)
	setPositive(&product.LengthCm, d.lengthCm)
	setPositive(&product.WidthCm, d.widthCm)
	setPositive(&product.HeightCm, d.heightCm)

	options, variants := buildChildren(d, rt)
	if err := repo.CreateWithChildren(product, options, variants); err != nil {
		return nil, err
	}
	return product, nil
}

// buildChildren prices a draft's options and variants into entity form.
func buildChildren(d *draft, rt pricing.RateTable) ([]catalogEntity.Option, []catalogEntity.Variant) {
	options := make([]catalogEntity.Option, 0, len(d.options))
	for pos, opt := range d.options {
		o := catalogEntity.Option{Name: opt.Name, Position: pos}
		o.SetValues(opt.Values)
		options = append(options, o)
	}
	variants := make([]catalogEntity.Variant, 0, len(d.variants))
	for _, v := range d.variants {
		variants = append(variants, priceVariant(d, v, rt))
	}
	return options, variants
}

// resaveDuplicate handles a resubmitted listing that already exists in
// the catalog. A re-save never patches children incrementally: when the
// fresh draft carries options or variants the stored set is replaced
// wholesale, and a refresh signal is queued so the nightly drain
// reprices the product.
func resaveDuplicate(repo *catalogRepository.CatalogRepository, d *draft, rt pricing.RateTable, existingID uint, result *ImportResult, maxErrors int) {
	options, variants := buildChildren(d, rt)
	if len(options) > 0 || len(variants) > 0 {
		if err := repo.ReplaceChildren(existingID, options, variants); err != nil {
			result.addError(maxErrors, "item %d: replace children: %v", d.index, err)
		}
	}
	if err := repo.QueueRefresh(existingID, d.purchaseURL); err != nil {
		result.addError(maxErrors, "item %d: queue refresh: %v", d.index, err)
		return
	}
	result.Requeued++
}

// priceVariant computes a variant's own consumer price: variant
// physicals override the product's, and a variant without its own raw
// price inherits the product raw price.
func priceVariant(d *draft, v DraftVariant, rt pricing.RateTable) catalogEntity.Variant {
	rawPrice := v.RawPrice
	if rawPrice <= 0 {
		rawPrice = d.rawPrice
	}
	in := pricing.Input{
		RawPrice:    rawPrice,
		DomesticFee: d.domesticFee,
		WeightKg:    firstPositiveOf(v.WeightKg, d.weightKg),
		LengthCm:    firstPositiveOf(v.LengthCm, d.lengthCm),
		WidthCm:     firstPositiveOf(v.WidthCm, d.widthCm),
		HeightCm:    firstPositiveOf(v.HeightCm, d.heightCm),
	}
	switch strings.ToLower(v.ShippingMethod) {
	case "air":
		in.Method = pricing.MethodAir
	case "sea":
		in.Method = pricing.MethodSea
	}

	out := catalogEntity.Variant{
		Price:    pricing.Calculate(in, rt),
		RawPrice: rawPrice,
		Image:    v.Image,
	}
	out.SetCombination(v.Combination)
	setPositive(&out.WeightKg, v.WeightKg)
	setPositive(&out.LengthCm, v.LengthCm)
	setPositive(&out.WidthCm, v.WidthCm)
	setPositive(&out.HeightCm, v.HeightCm)
	return out
}

func setPositive(dst **float64, v float64) {
	if v > 0 {
		val := v
		*dst = &val
	}
}

func firstPositiveOf(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

// emitProgress sends without blocking.
func emitProgress(ch chan<- int, pct int) {
	if ch == nil {
		return
	}
	select {
	case ch <- pct:
	default:
	}
}

// advanceProgress emits intermediate percentages in steps of five so a
// large batch does not flood the channel.
func advanceProgress(ch chan<- int, done, total int, lastStep *int) {
	if ch == nil || total == 0 {
		return
	}
	pct := done * 100 / total
	step := pct / 5
	if step > *lastStep && pct < 100 {
		*lastStep = step
		emitProgress(ch, pct)
	}
}
