package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"souq.GO/api"
	settingsEntity "souq.GO/model/entity/settings"
	settingsRepository "souq.GO/model/repository/settings"
)

func init() {
	api.RegisterModule(RegisterSettingsRoutes)
}

func RegisterSettingsRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/settings")
	repo := settingsRepository.NewRatesRepository(db)

	// GET /api/settings/shipping-rates
	g.GET("/shipping-rates", func(c echo.Context) error {
		rate, err := repo.Get()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, rate)
	})

	// PUT /api/settings/shipping-rates – replaces the rate table;
	// catalog prices follow on the next repricing run
	g.PUT("/shipping-rates", func(c echo.Context) error {
		var rate settingsEntity.ShippingRate
		if err := c.Bind(&rate); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if rate.AirRatePerKg < 0 || rate.SeaRatePerCbm < 0 || rate.AirMinFloor < 0 || rate.SeaMinFloor < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rates and floors must not be negative"})
		}
		if err := repo.Update(&rate); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, rate)
	})
}
