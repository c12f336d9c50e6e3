package ingest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"souq.GO/config"
	catalogEntity "souq.GO/model/entity/catalog"
	settingsEntity "souq.GO/model/entity/settings"
	settingsRepository "souq.GO/model/repository/settings"
	ingestService "souq.GO/service/ingest"
)

func apiDB(t *testing.T) *gorm.DB {
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
		&settingsEntity.ShippingRate{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	err = settingsRepository.NewRatesRepository(db).Update(&settingsEntity.ShippingRate{
		AirRatePerKg: 5000, SeaRatePerCbm: 150000, AirMinFloor: 1000, SeaMinFloor: 5000,
	})
	if err != nil {
		t.Fatalf("seed rates: %v", err)
	}
	return db
}

func newServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	config.LoadAppConfig()
	db := apiDB(t)
	e := echo.New()
	RegisterIngestRoutes(e.Group("/api"), db)
	return e, db
}

const listingJSON = `[{
	"title": "卫衣女秋季新款",
	"price": 58,
	"purchase_url": "https://detail.1688.com/offer/991.html",
	"generated_options": [{"color": "红色", "sizes": ["S", "M"], "price": 58}]
}]`

func TestIngestProductsSync(t *testing.T) {
	e, db := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/products", strings.NewReader(listingJSON))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
		Failed   int `json:"failed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Imported != 1 || body.Failed != 0 {
		t.Fatalf("body = %+v", body)
	}

	var product catalogEntity.Product
	if err := db.First(&product).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Status != catalogEntity.StatusPublished {
		t.Errorf("sync import status = %q, want published", product.Status)
	}
}

func TestIngestProductsEmptyBody(t *testing.T) {
	e, _ := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/products", strings.NewReader(`[]`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestIngestProductsAsyncLifecycle(t *testing.T) {
	e, db := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/products/async", strings.NewReader(listingJSON))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var accepted struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil || accepted.JobID == "" {
		t.Fatalf("body = %s", rec.Body.String())
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		statusReq := httptest.NewRequest(http.MethodGet, "/api/ingest/jobs/"+accepted.JobID, nil)
		statusRec := httptest.NewRecorder()
		e.ServeHTTP(statusRec, statusReq)
		if statusRec.Code != http.StatusOK {
			t.Fatalf("status endpoint = %d", statusRec.Code)
		}
		var job struct {
			Status   string `json:"status"`
			Progress int    `json:"progress"`
		}
		if err := json.Unmarshal(statusRec.Body.Bytes(), &job); err != nil {
			t.Fatalf("decode job: %v", err)
		}
		if job.Status == ingestService.JobCompleted {
			if job.Progress != 100 {
				t.Errorf("progress = %d", job.Progress)
			}
			break
		}
		if job.Status == ingestService.JobFailed {
			t.Fatalf("job failed: %s", statusRec.Body.String())
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not finish, last status %q", job.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	var product catalogEntity.Product
	if err := db.First(&product).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Status != catalogEntity.StatusDraft {
		t.Errorf("async import status = %q, want draft", product.Status)
	}
}

func TestIngestJobNotFound(t *testing.T) {
	e, _ := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ingest/jobs/missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
