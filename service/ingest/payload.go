package ingest

import (
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// RawProduct is one scraped listing as it arrives: a JSON object of
// unknown shape. Field names, nesting and types vary between scraper
// versions, so everything goes through the extractor strategies rather
// than direct field access.
type RawProduct map[string]interface{}

// generatedOption is the flat per-combination record shape found in
// generated_options / variants_data arrays. Metadata keys decode into
// named fields; whatever remains in Dims is treated as option
// dimensions. WeaklyTypedInput tolerates the scrapers' habit of
// sending numbers as strings.
type generatedOption struct {
	Price          float64                `mapstructure:"price"`
	Image          string                 `mapstructure:"image"`
	ShippingMethod string                 `mapstructure:"shippingMethod"`
	Stock          int                    `mapstructure:"stock"`
	SKU            string                 `mapstructure:"sku"`
	Weight         float64                `mapstructure:"weight"`
	Length         float64                `mapstructure:"length"`
	Width          float64                `mapstructure:"width"`
	Height         float64                `mapstructure:"height"`
	Options        map[string]interface{} `mapstructure:"options"`
	Combination    map[string]interface{} `mapstructure:"combination"`
	Dims           map[string]interface{} `mapstructure:",remain"`
}

// decodeGeneratedOption lifts metadata fields out of a flat record.
func decodeGeneratedOption(rec map[string]interface{}) (*generatedOption, error) {
	var out generatedOption
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(rec); err != nil {
		return nil, err
	}
	return &out, nil
}

// metadataKeys are per-combination record keys that must never become
// option dimensions, beyond the ones the decoder already lifts out.
var metadataKeys = map[string]bool{
	"price": true, "image": true, "img": true, "imageurl": true,
	"shippingmethod": true, "shipping_method": true,
	"stock": true, "quantity": true, "qty": true,
	"sku": true, "id": true, "skuid": true, "spec_id": true,
	"weight": true, "length": true, "width": true, "height": true,
	"options": true, "combination": true,
}

func isMetadataKey(key string) bool {
	return metadataKeys[strings.ToLower(strings.TrimSpace(key))]
}

// toFloat coerces the scrapers' assorted numeric encodings.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toString coerces scalar values to a trimmed string.
func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// toSlice returns v as []interface{} when it is one.
func toSlice(v interface{}) ([]interface{}, bool) {
	s, ok := v.([]interface{})
	return s, ok
}

// toMap returns v as a map when it is one.
func toMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}
