package catalog

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Variant is one purchasable combination of option values. Combination
// maps canonical option name -> selected value; its keys are always a
// subset of the parent product's option names. Physical attributes
// override the product defaults when set.
type Variant struct {
	ID          uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID   uint           `gorm:"column:product_id;not null;index" json:"product_id"`
	Combination datatypes.JSON `gorm:"column:combination;not null" json:"combination"`
	Price       int            `gorm:"column:price;not null;default:0" json:"price"`
	RawPrice    float64        `gorm:"column:raw_price;type:decimal(12,2);not null;default:0" json:"raw_price"`
	Image       string         `gorm:"column:image;type:varchar(1024)" json:"image,omitempty"`

	WeightKg *float64 `gorm:"column:weight_kg;type:decimal(8,3)" json:"weight_kg,omitempty"`
	LengthCm *float64 `gorm:"column:length_cm;type:decimal(8,2)" json:"length_cm,omitempty"`
	WidthCm  *float64 `gorm:"column:width_cm;type:decimal(8,2)" json:"width_cm,omitempty"`
	HeightCm *float64 `gorm:"column:height_cm;type:decimal(8,2)" json:"height_cm,omitempty"`
}

func (Variant) TableName() string {
	return "catalog_product_variants"
}

// CombinationMap decodes the stored combination.
func (v *Variant) CombinationMap() map[string]string {
	m := map[string]string{}
	_ = json.Unmarshal(v.Combination, &m)
	return m
}

// SetCombination encodes a combination into the JSON column.
func (v *Variant) SetCombination(m map[string]string) {
	b, _ := json.Marshal(m)
	v.Combination = b
}
