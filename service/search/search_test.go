package search

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	catalogEntity "souq.GO/model/entity/catalog"
)

func searchDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&catalogEntity.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	seed := []catalogEntity.Product{
		{Name: "هوديس نسائي خريفي", Price: 15000, Status: catalogEntity.StatusPublished, IsActive: true},
		{Name: "فستان صيفي", Price: 22000, Status: catalogEntity.StatusPublished, IsActive: true},
		{Name: "هوديس رجالي", Price: 18000, Status: catalogEntity.StatusDraft, IsActive: true},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return db
}

func fallbackService() *Service {
	return &Service{index: "test"} // no client: database path
}

func TestSearchExactWord(t *testing.T) {
	db := searchDB(t)
	got, err := fallbackService().Search(context.Background(), db, "هوديس", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Name != "هوديس نسائي خريفي" {
		t.Fatalf("results = %+v", got)
	}
}

func TestSearchDialectVariant(t *testing.T) {
	db := searchDB(t)
	// shoppers write the singular; the catalog stores the plural
	got, err := fallbackService().Search(context.Background(), db, "هودي", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Name != "هوديس نسائي خريفي" {
		t.Fatalf("results = %+v", got)
	}
}

func TestSearchMultipleWordsNarrow(t *testing.T) {
	db := searchDB(t)
	got, err := fallbackService().Search(context.Background(), db, "هوديس رجالي", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// the only matching product for both words is an unpublished draft
	if len(got) != 0 {
		t.Fatalf("results = %+v", got)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	db := searchDB(t)
	got, err := fallbackService().Search(context.Background(), db, "   ", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("results = %+v", got)
	}
}
