package config

import (
	"os"
	"strconv"
	"sync"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string
	Port    string
	Env     string
	Debug   bool

	// Pricing constants. The markup factor and rounding increment are
	// deployment configuration, not algorithm constants: older catalogs
	// were priced at markup 1.20 and never migrated, so both values
	// must stay overridable per environment.
	MarkupFactor    float64 // applied to base+domestic+shipping
	RoundIncrement  int     // final prices are multiples of this (IQD)
	AirCutoffKg     float64 // at or above this weight, sea is assumed
	DimPaddingCm    float64 // added per dimension before sea volume
	DefaultWeightKg float64 // assumed when the source has no weight

	// Stored prices at or above this magnitude are treated as already
	// finalized local-currency values during repricing (see
	// pricing.ClassifyStoredPrice).
	LocalCurrencyThreshold float64
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		AppConfig = &Config{
			AppName: os.Getenv("APP_NAME"),
			Port:    os.Getenv("PORT"),
			Env:     os.Getenv("APP_ENV"),
			Debug:   os.Getenv("DEBUG") == "true",

			MarkupFactor:           envFloat("PRICING_MARKUP", 1.15),
			RoundIncrement:         envInt("PRICING_ROUND_INCREMENT", 250),
			AirCutoffKg:            envFloat("PRICING_AIR_CUTOFF_KG", 2),
			DimPaddingCm:           envFloat("PRICING_DIM_PADDING_CM", 5),
			DefaultWeightKg:        envFloat("PRICING_DEFAULT_WEIGHT_KG", 0.5),
			LocalCurrencyThreshold: envFloat("PRICING_LOCAL_THRESHOLD", 5000),
		}
	})
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
