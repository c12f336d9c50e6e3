package catalog

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	catalogEntity "souq.GO/model/entity/catalog"
)

func newCatalogServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&catalogEntity.Product{},
		&catalogEntity.Option{},
		&catalogEntity.Variant{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := echo.New()
	RegisterCatalogRoutes(e.Group("/api"), db)
	return e, db
}

func seedProduct(t *testing.T, db *gorm.DB) catalogEntity.Product {
	t.Helper()
	p := catalogEntity.Product{
		Name:        "هوديس نسائي خريفي",
		Price:       3000,
		RawPrice:    58,
		PurchaseURL: "https://detail.1688.com/offer/7349210.html",
		Status:      catalogEntity.StatusPublished,
		IsActive:    true,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	opt := catalogEntity.Option{ProductID: p.ID, Name: "اللون"}
	opt.SetValues([]string{"أحمر"})
	db.Create(&opt)
	v := catalogEntity.Variant{ProductID: p.ID, Price: 3000, RawPrice: 58}
	v.SetCombination(map[string]string{"اللون": "أحمر"})
	db.Create(&v)
	return p
}

func TestCatalogGetProduct(t *testing.T) {
	e, db := newCatalogServer(t)
	p := seedProduct(t, db)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/catalog/products/%d", p.ID), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/catalog/products/9999", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestCatalogLookupByURL(t *testing.T) {
	e, db := newCatalogServer(t)
	seedProduct(t, db)

	req := httptest.NewRequest(http.MethodGet,
		"/api/catalog/products/lookup?url=https%3A%2F%2Fdetail.1688.com%2Foffer%2F7349210.html", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/catalog/products/lookup?url=https%3A%2F%2Fexample.com%2Fnope", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown url status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/catalog/products/lookup", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing url status = %d, want 400", rec.Code)
	}
}

func TestCatalogSoftDelete(t *testing.T) {
	e, db := newCatalogServer(t)
	p := seedProduct(t, db)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/catalog/products/%d", p.ID), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got catalogEntity.Product
	if err := db.First(&got, p.ID).Error; err != nil {
		t.Fatalf("row should survive a soft delete: %v", err)
	}
	if got.Status != catalogEntity.StatusDeleted || got.IsActive {
		t.Errorf("product after delete = status %q active %v", got.Status, got.IsActive)
	}

	// removed products vanish from reads and from URL lookup
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/catalog/products/%d", p.ID), nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
	req = httptest.NewRequest(http.MethodGet,
		"/api/catalog/products/lookup?url=https%3A%2F%2Fdetail.1688.com%2Foffer%2F7349210.html", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("lookup after delete = %d, want 404", rec.Code)
	}
}

func TestCatalogHardDelete(t *testing.T) {
	e, db := newCatalogServer(t)
	p := seedProduct(t, db)

	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/catalog/products/%d?permanent=true", p.ID), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var products, options, variants int64
	db.Model(&catalogEntity.Product{}).Count(&products)
	db.Model(&catalogEntity.Option{}).Count(&options)
	db.Model(&catalogEntity.Variant{}).Count(&variants)
	if products != 0 || options != 0 || variants != 0 {
		t.Errorf("rows after hard delete = %d/%d/%d, want 0/0/0", products, options, variants)
	}
}

func TestCatalogDeleteUnknownProduct(t *testing.T) {
	e, _ := newCatalogServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/catalog/products/41", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
