package pricing

import (
	"math"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	catalogEntity "souq.GO/model/entity/catalog"
)

func repriceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&catalogEntity.Product{},
		&catalogEntity.Option{},
		&catalogEntity.Variant{},
		&catalogEntity.RefreshSignal{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func fptr(v float64) *float64 { return &v }

func TestRepriceCatalog(t *testing.T) {
	db := repriceDB(t)
	rt := testRates()

	stale := catalogEntity.Product{
		Name: "هوديس نسائي", RawPrice: 58, Price: 1000,
		WeightKg: fptr(0.8), Status: catalogEntity.StatusPublished, IsActive: true,
	}
	db.Create(&stale)
	variant := catalogEntity.Variant{ProductID: stale.ID, RawPrice: 100, Price: 500}
	variant.SetCombination(map[string]string{"اللون": "أحمر"})
	db.Create(&variant)

	finalized := catalogEntity.Product{
		Name: "فستان صيفي", RawPrice: 28500, Price: 28500,
		Status: catalogEntity.StatusPublished, IsActive: true,
	}
	db.Create(&finalized)

	rejected := catalogEntity.Product{
		Name: "مسودة", RawPrice: 0, Price: 0,
		Status: catalogEntity.StatusDraft, IsActive: false,
	}
	db.Create(&rejected)

	res, err := RepriceCatalog(db, rt, RepriceOptions{PageSize: 2, LocalThreshold: 5000})
	if err != nil {
		t.Fatalf("RepriceCatalog: %v", err)
	}
	if res.Scanned != 3 {
		t.Errorf("Scanned = %d, want 3", res.Scanned)
	}
	if res.Repriced != 1 {
		t.Errorf("Repriced = %d, want 1", res.Repriced)
	}
	if res.VariantsRepriced != 1 {
		t.Errorf("VariantsRepriced = %d, want 1", res.VariantsRepriced)
	}
	if res.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", res.Skipped)
	}

	var got catalogEntity.Product
	db.First(&got, stale.ID)
	want := Calculate(Input{RawPrice: 58, WeightKg: 0.8}, rt)
	if got.Price != want {
		t.Errorf("stale product price = %d, want %d", got.Price, want)
	}
	if got.Price%rt.RoundIncrement != 0 {
		t.Errorf("price %d not a multiple of %d", got.Price, rt.RoundIncrement)
	}

	var gotVar catalogEntity.Variant
	db.First(&gotVar, variant.ID)
	wantVar := Calculate(Input{RawPrice: 100, WeightKg: 0.8}, rt)
	if gotVar.Price != wantVar {
		t.Errorf("variant price = %d, want %d", gotVar.Price, wantVar)
	}

	var untouched catalogEntity.Product
	db.First(&untouched, finalized.ID)
	if untouched.Price != 28500 {
		t.Errorf("finalized product price changed to %d", untouched.Price)
	}
}

func TestRepriceCatalog_BackfillsMissingRawPrice(t *testing.T) {
	db := repriceDB(t)
	legacy := catalogEntity.Product{
		Name: "بنطلون جينز", RawPrice: 0, Price: 2300,
		Status: catalogEntity.StatusPublished, IsActive: true,
	}
	db.Create(&legacy)

	res, err := RepriceCatalog(db, testRates(), RepriceOptions{LocalThreshold: 5000})
	if err != nil {
		t.Fatalf("RepriceCatalog: %v", err)
	}
	if res.Skipped != 1 || res.Repriced != 0 {
		t.Errorf("result = %+v", res)
	}

	var got catalogEntity.Product
	db.First(&got, legacy.ID)
	if got.Price != 2300 {
		t.Errorf("stored price changed to %d", got.Price)
	}
	// 2300 / 1.15 = 2000
	if math.Abs(got.RawPrice-2000) > 0.01 {
		t.Errorf("estimated raw price = %v, want 2000", got.RawPrice)
	}
}

func TestRepriceCatalog_DryRun(t *testing.T) {
	db := repriceDB(t)
	p := catalogEntity.Product{Name: "تيشيرت", RawPrice: 42, Price: 1000, Status: catalogEntity.StatusPublished}
	db.Create(&p)

	res, err := RepriceCatalog(db, testRates(), RepriceOptions{LocalThreshold: 5000, DryRun: true})
	if err != nil {
		t.Fatalf("RepriceCatalog: %v", err)
	}
	if res.Repriced != 1 {
		t.Errorf("Repriced = %d, want 1", res.Repriced)
	}
	var got catalogEntity.Product
	db.First(&got, p.ID)
	if got.Price != 1000 {
		t.Errorf("dry run mutated price to %d", got.Price)
	}
}
