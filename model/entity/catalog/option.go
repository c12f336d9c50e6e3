package catalog

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Option is one selectable dimension of a product ("Color", "Size").
// Name is always a canonical label (source-language synonyms are folded
// before persistence); Values keeps declaration order and is unique.
type Option struct {
	ID        uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID uint           `gorm:"column:product_id;not null;index" json:"product_id"`
	Name      string         `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Values    datatypes.JSON `gorm:"column:values;not null" json:"values"`
	Position  int            `gorm:"column:position;not null;default:0" json:"position"`
}

func (Option) TableName() string {
	return "catalog_product_options"
}

// ValueList decodes the stored JSON value array.
func (o *Option) ValueList() []string {
	var vals []string
	_ = json.Unmarshal(o.Values, &vals)
	return vals
}

// SetValues encodes a value list into the JSON column.
func (o *Option) SetValues(vals []string) {
	b, _ := json.Marshal(vals)
	o.Values = b
}
