package pricing

import (
	"math"
	"strconv"
	"strings"

	"souq.GO/config"
	settingsEntity "souq.GO/model/entity/settings"
)

// Method is the shipping method a price was computed with.
type Method string

const (
	MethodAir Method = "air"
	MethodSea Method = "sea"
)

// RateTable carries everything Calculate needs: the administrative
// shipping rates plus the deployment pricing constants. Callers build
// it once per batch via FromSettings; nothing in this package reads
// globals at calculation time.
type RateTable struct {
	AirRatePerKg     float64
	SeaRatePerCbm    float64
	AirMinFloor      float64
	SeaMinFloor      float64
	AirFreeThreshold float64
	SeaFreeThreshold float64

	AirCutoffKg     float64
	DimPaddingCm    float64
	MarkupFactor    float64
	RoundIncrement  int
	DefaultWeightKg float64
}

// FromSettings merges the stored rate table with the process pricing
// configuration.
func FromSettings(s *settingsEntity.ShippingRate, cfg *config.Config) RateTable {
	return RateTable{
		AirRatePerKg:     s.AirRatePerKg,
		SeaRatePerCbm:    s.SeaRatePerCbm,
		AirMinFloor:      s.AirMinFloor,
		SeaMinFloor:      s.SeaMinFloor,
		AirFreeThreshold: s.AirFreeThreshold,
		SeaFreeThreshold: s.SeaFreeThreshold,
		AirCutoffKg:      cfg.AirCutoffKg,
		DimPaddingCm:     cfg.DimPaddingCm,
		MarkupFactor:     cfg.MarkupFactor,
		RoundIncrement:   cfg.RoundIncrement,
		DefaultWeightKg:  cfg.DefaultWeightKg,
	}
}

// Input is one pricing request. Zero physical values mean "absent":
// weight falls back to the configured default, missing dimensions
// leave the sea branch on its minimum floor. Method empty means
// classify by weight.
type Input struct {
	RawPrice    float64
	DomesticFee float64
	WeightKg    float64
	LengthCm    float64
	WidthCm     float64
	HeightCm    float64
	Method      Method
}

// ParseWeight converts a scraped weight string ("0.75", "1,2") to kg.
// Unparseable or absent input returns 0 so Calculate applies the
// configured default.
func ParseWeight(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil || w < 0 {
		return 0
	}
	return w
}

// ResolveMethod returns the explicit method when given, otherwise
// classifies by weight: under the cutoff ships air, at or above ships
// sea.
func ResolveMethod(weightKg float64, explicit Method, rt RateTable) Method {
	if explicit == MethodAir || explicit == MethodSea {
		return explicit
	}
	if weightKg < rt.AirCutoffKg {
		return MethodAir
	}
	return MethodSea
}

// ShippingCost computes the shipping component for the resolved method.
func ShippingCost(in Input, rt RateTable) (float64, Method) {
	weight := in.WeightKg
	if weight <= 0 {
		weight = rt.DefaultWeightKg
	}
	method := ResolveMethod(weight, in.Method, rt)

	switch method {
	case MethodAir:
		if rt.AirFreeThreshold > 0 && in.RawPrice >= rt.AirFreeThreshold {
			return 0, method
		}
		cost := weight * rt.AirRatePerKg
		if cost < rt.AirMinFloor {
			cost = rt.AirMinFloor
		}
		return cost, method
	default:
		if rt.SeaFreeThreshold > 0 && in.RawPrice >= rt.SeaFreeThreshold {
			return 0, method
		}
		// Volume uses padded dimensions: cartons measure larger than
		// the listed product.
		l := (in.LengthCm + rt.DimPaddingCm) / 100
		w := (in.WidthCm + rt.DimPaddingCm) / 100
		h := (in.HeightCm + rt.DimPaddingCm) / 100
		cost := l * w * h * rt.SeaRatePerCbm
		if cost < rt.SeaMinFloor {
			cost = rt.SeaMinFloor
		}
		return cost, method
	}
}

// Calculate maps a raw source price to the final consumer price:
// ceil((raw + domestic + shipping) * markup / increment) * increment.
// A non-positive raw price returns 0, the caller's rejection signal.
func Calculate(in Input, rt RateTable) int {
	if in.RawPrice <= 0 {
		return 0
	}
	shipping, _ := ShippingCost(in, rt)
	return roundUp((in.RawPrice+in.DomesticFee+shipping)*rt.MarkupFactor, rt.RoundIncrement)
}

// CalculateNoShipping is the simplified markup-only form,
// ceil((raw + domestic) * markup / increment) * increment. This is the
// only form EstimateRawBasePrice can invert.
func CalculateNoShipping(rawPrice, domesticFee float64, rt RateTable) int {
	if rawPrice <= 0 {
		return 0
	}
	return roundUp((rawPrice+domesticFee)*rt.MarkupFactor, rt.RoundIncrement)
}

// EstimateRawBasePrice recovers an approximate raw base price from a
// stored final price under the markup-only formula. It cannot invert
// the full air/sea formula: which shipping branch produced a stored
// price is not recorded, so shipping-inclusive prices only round-trip
// within the shipping cost's magnitude.
func EstimateRawBasePrice(storedPrice int, domesticFee float64, rt RateTable) float64 {
	if storedPrice <= 0 || rt.MarkupFactor <= 0 {
		return 0
	}
	raw := float64(storedPrice)/rt.MarkupFactor - domesticFee
	if raw < 0 {
		return 0
	}
	return raw
}

// Origin classifies what currency a stored price figure is in.
type Origin int

const (
	// OriginSource: the figure still looks like the foreign wholesale
	// price and needs the full pricing formula.
	OriginSource Origin = iota
	// OriginLocal: the figure is already a finalized local price.
	OriginLocal
)

func (o Origin) String() string {
	if o == OriginLocal {
		return "local"
	}
	return "source"
}

// ClassifyStoredPrice decides by magnitude whether a stored figure is
// still in source currency. Source-currency prices sit two orders of
// magnitude below local ones, but values near the threshold are
// genuinely ambiguous: callers must log each decision, and the
// threshold stays overridable rather than baked in.
func ClassifyStoredPrice(value, localThreshold float64) Origin {
	if value >= localThreshold {
		return OriginLocal
	}
	return OriginSource
}

func roundUp(v float64, increment int) int {
	if increment <= 0 {
		increment = 1
	}
	return int(math.Ceil(v/float64(increment))) * increment
}
