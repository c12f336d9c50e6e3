package search

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"souq.GO/api"
	searchService "souq.GO/service/search"
)

func init() {
	api.RegisterModule(RegisterSearchRoutes)
}

// RegisterSearchRoutes exposes catalog keyword search. The route sits
// in the auth skipper list: storefronts call it anonymously.
func RegisterSearchRoutes(apiGroup *echo.Group, db *gorm.DB) {
	apiGroup.GET("/search", func(c echo.Context) error {
		q := c.QueryParam("q")
		if q == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "q parameter is required"})
		}
		limit, _ := strconv.Atoi(c.QueryParam("limit"))

		products, err := searchService.GetService().Search(c.Request().Context(), db, q, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"query":    q,
			"count":    len(products),
			"products": products,
		})
	})
}
