package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"souq.GO/api"
	catalogEntity "souq.GO/model/entity/catalog"
	catalogRepository "souq.GO/model/repository/catalog"
)

func init() {
	api.RegisterModule(RegisterCatalogRoutes)
}

// RegisterCatalogRoutes exposes product lookup and removal. Removal is
// a soft delete by default: the row stays for auditing but stops
// matching search, dedupe and repricing. permanent=true drops the
// product together with its options and variants.
func RegisterCatalogRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/catalog")
	repo := catalogRepository.NewCatalogRepository(db)

	// GET /api/catalog/products/lookup?url= – resolve a source listing
	// URL to its catalog product, used to check before re-scraping
	g.GET("/products/lookup", func(c echo.Context) error {
		url := c.QueryParam("url")
		if url == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "url parameter is required"})
		}
		product, err := repo.FindByPurchaseURL(url)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if product == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no product for this url"})
		}
		return c.JSON(http.StatusOK, product)
	})

	// GET /api/catalog/products/:id
	g.GET("/products/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
		}
		product, err := repo.FindByID(uint(id))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if product.Status == catalogEntity.StatusDeleted {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusOK, product)
	})

	// DELETE /api/catalog/products/:id[?permanent=true]
	g.DELETE("/products/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
		}
		if _, err := repo.FindByID(uint(id)); errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		} else if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		if c.QueryParam("permanent") == "true" {
			if err := repo.HardDelete(uint(id)); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, echo.Map{"deleted": true, "permanent": true})
		}
		if err := repo.SoftDelete(uint(id)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"deleted": true, "permanent": false})
	})
}
