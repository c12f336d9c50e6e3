package settings

import "time"

// ShippingRate is the singleton rate table read on every pricing
// operation. Air is billed per kg, sea per cubic meter; each method has
// a minimum cost floor and a free-shipping threshold. Mutated only by
// administrative settings updates, so reads are cached aggressively.
type ShippingRate struct {
	ID               uint      `gorm:"column:id;primaryKey" json:"id"`
	AirRatePerKg     float64   `gorm:"column:air_rate_per_kg;type:decimal(12,2);not null;default:0" json:"air_rate_per_kg"`
	SeaRatePerCbm    float64   `gorm:"column:sea_rate_per_cbm;type:decimal(12,2);not null;default:0" json:"sea_rate_per_cbm"`
	AirMinFloor      float64   `gorm:"column:air_min_floor;type:decimal(12,2);not null;default:0" json:"air_min_floor"`
	SeaMinFloor      float64   `gorm:"column:sea_min_floor;type:decimal(12,2);not null;default:0" json:"sea_min_floor"`
	AirFreeThreshold float64   `gorm:"column:air_free_threshold;type:decimal(12,2);not null;default:0" json:"air_free_threshold"`
	SeaFreeThreshold float64   `gorm:"column:sea_free_threshold;type:decimal(12,2);not null;default:0" json:"sea_free_threshold"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ShippingRate) TableName() string {
	return "settings_shipping_rates"
}
