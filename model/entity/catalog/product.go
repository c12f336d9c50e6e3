package catalog

import (
	"time"

	"gorm.io/datatypes"
)

// Product lifecycle status values.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusDeleted   = "DELETED"
)

// Product represents one catalog entry assembled from a scraped source
// listing. Price is the finalized consumer price in local currency and
// is always a positive multiple of the configured rounding increment;
// RawPrice keeps the source-currency figure the pricing formula started
// from so the catalog can be repriced after a rate change.
type Product struct {
	ID           uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"column:name;type:varchar(512);not null;index" json:"name"`
	OriginalName string         `gorm:"column:original_name;type:varchar(512)" json:"original_name,omitempty"`
	Description  string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Price        int            `gorm:"column:price;not null;default:0" json:"price"`
	RawPrice     float64        `gorm:"column:raw_price;type:decimal(12,2);not null;default:0" json:"raw_price"`
	MainImage    string         `gorm:"column:main_image;type:varchar(1024)" json:"main_image,omitempty"`
	Images       datatypes.JSON `gorm:"column:images" json:"images,omitempty"`
	PurchaseURL  string         `gorm:"column:purchase_url;type:varchar(1024);index:idx_products_purchase_url,length:255" json:"purchase_url,omitempty"`
	Status       string         `gorm:"column:status;type:varchar(16);not null;default:DRAFT;index" json:"status"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`

	// Physical attributes are nullable: absence means "use defaults"
	// during pricing, not zero.
	WeightKg *float64 `gorm:"column:weight_kg;type:decimal(8,3)" json:"weight_kg,omitempty"`
	LengthCm *float64 `gorm:"column:length_cm;type:decimal(8,2)" json:"length_cm,omitempty"`
	WidthCm  *float64 `gorm:"column:width_cm;type:decimal(8,2)" json:"width_cm,omitempty"`
	HeightCm *float64 `gorm:"column:height_cm;type:decimal(8,2)" json:"height_cm,omitempty"`

	DomesticFee  float64        `gorm:"column:domestic_fee;type:decimal(12,2);not null;default:0" json:"domestic_fee"`
	DeliveryTime string         `gorm:"column:delivery_time;type:varchar(128)" json:"delivery_time,omitempty"`
	Specs        string         `gorm:"column:specs;type:text" json:"specs,omitempty"`
	AIMetadata   datatypes.JSON `gorm:"column:ai_metadata" json:"ai_metadata,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	Options  []Option  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	Variants []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "catalog_products"
}
