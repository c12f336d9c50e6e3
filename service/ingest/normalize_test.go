package ingest

import (
	"testing"

	"souq.GO/service/translate"
)

func optionByName(opts []DraftOption, name string) *DraftOption {
	for i := range opts {
		if opts[i].Name == name {
			return &opts[i]
		}
	}
	return nil
}

func TestNormalizeDeclaredOptionsArray(t *testing.T) {
	raw := RawProduct{
		"options": []interface{}{
			map[string]interface{}{"name": "color", "values": []interface{}{"红色", "黑色"}},
			map[string]interface{}{"name": "尺码", "values": []interface{}{"M", "L"}},
		},
	}
	opts, variants := NormalizeOptions(raw, 0)
	if len(variants) != 0 {
		t.Fatalf("declared options alone produced %d variants", len(variants))
	}
	if len(opts) != 2 {
		t.Fatalf("options = %+v, want 2", opts)
	}
	color := optionByName(opts, translate.OptionColor)
	if color == nil || len(color.Values) != 2 || color.Values[0] != "أحمر" || color.Values[1] != "أسود" {
		t.Errorf("color option = %+v", color)
	}
	size := optionByName(opts, translate.OptionSize)
	if size == nil || len(size.Values) != 2 {
		t.Errorf("size option = %+v", size)
	}
}

func TestNormalizeDeclaredOptionsObject(t *testing.T) {
	raw := RawProduct{
		"options": map[string]interface{}{
			"颜色": []interface{}{"白色"},
		},
	}
	opts, _ := NormalizeOptions(raw, 0)
	color := optionByName(opts, translate.OptionColor)
	if color == nil || len(color.Values) != 1 || color.Values[0] != "أبيض" {
		t.Errorf("color option = %+v", color)
	}
}

func TestNormalizeGeneratedRecordExpansion(t *testing.T) {
	raw := RawProduct{
		"generated_options": []interface{}{
			map[string]interface{}{
				"color": "Red",
				"sizes": []interface{}{"S", "M"},
				"price": 100,
				"stock": 5,
				"sku":   "A-1",
			},
		},
	}
	opts, variants := NormalizeOptions(raw, 75)

	if len(opts) != 2 {
		t.Fatalf("options = %+v, want color and size", opts)
	}
	if optionByName(opts, "stock") != nil || optionByName(opts, "sku") != nil {
		t.Fatalf("metadata keys leaked into options: %+v", opts)
	}
	if len(variants) != 2 {
		t.Fatalf("variants = %+v, want 2 (one per size)", variants)
	}
	for _, v := range variants {
		if v.RawPrice != 100 {
			t.Errorf("variant price = %v, want record price 100", v.RawPrice)
		}
		if v.Combination[translate.OptionColor] != "Red" {
			t.Errorf("combination = %v", v.Combination)
		}
	}
}

func TestNormalizeCartesianProduct(t *testing.T) {
	raw := RawProduct{
		"generated_options": []interface{}{
			map[string]interface{}{
				"colors": []interface{}{"红色", "黑色"},
				"sizes":  []interface{}{"S", "M", "L"},
				"price":  "48.5",
			},
		},
	}
	opts, variants := NormalizeOptions(raw, 0)
	if len(variants) != 6 {
		t.Fatalf("got %d variants, want 2x3 = 6", len(variants))
	}
	seen := map[string]bool{}
	for _, v := range variants {
		if v.RawPrice != 48.5 {
			t.Errorf("variant price = %v", v.RawPrice)
		}
		key := v.Combination[translate.OptionColor] + "/" + v.Combination[translate.OptionSize]
		if seen[key] {
			t.Errorf("duplicate combination %q", key)
		}
		seen[key] = true
		// every combination value must come from a declared option set
		for name, value := range v.Combination {
			opt := optionByName(opts, name)
			if opt == nil {
				t.Fatalf("combination key %q has no option", name)
			}
			found := false
			for _, ov := range opt.Values {
				if ov == value {
					found = true
				}
			}
			if !found {
				t.Errorf("value %q not in option %q set %v", value, name, opt.Values)
			}
		}
	}
}

func TestNormalizeRecordWithoutPriceInheritsFallback(t *testing.T) {
	raw := RawProduct{
		"generated_options": []interface{}{
			map[string]interface{}{"color": "蓝色"},
		},
	}
	_, variants := NormalizeOptions(raw, 62.0)
	if len(variants) != 1 {
		t.Fatalf("variants = %+v", variants)
	}
	if variants[0].RawPrice != 62.0 {
		t.Errorf("price = %v, want fallback 62", variants[0].RawPrice)
	}
	if variants[0].Combination[translate.OptionColor] != "أزرق" {
		t.Errorf("combination = %v", variants[0].Combination)
	}
}

func TestNormalizeNestedCombinationObject(t *testing.T) {
	raw := RawProduct{
		"variants_data": []interface{}{
			map[string]interface{}{
				"combination": map[string]interface{}{"颜色": "灰色", "尺寸": "XL"},
				"price":       30,
				"image":       "https://img.example.com/sku-grey-xl.jpg",
				"weight":      "1.2",
			},
		},
	}
	opts, variants := NormalizeOptions(raw, 0)
	if len(variants) != 1 {
		t.Fatalf("variants = %+v", variants)
	}
	v := variants[0]
	if v.Combination[translate.OptionColor] != "رمادي" || v.Combination[translate.OptionSize] != "XL" {
		t.Errorf("combination = %v", v.Combination)
	}
	if v.Image == "" || v.WeightKg != 1.2 {
		t.Errorf("variant metadata = %+v", v)
	}
	if len(opts) != 2 {
		t.Errorf("options = %+v", opts)
	}
}

func TestNormalizeFallsBackToSkuProps(t *testing.T) {
	raw := RawProduct{
		"skuProps": []interface{}{
			map[string]interface{}{
				"prop": "颜色",
				"value": []interface{}{
					map[string]interface{}{"name": "红色"},
					map[string]interface{}{"name": "白色"},
				},
			},
		},
	}
	opts, variants := NormalizeOptions(raw, 0)
	if len(variants) != 0 {
		t.Fatalf("sku props carry no prices, want no variants, got %+v", variants)
	}
	color := optionByName(opts, translate.OptionColor)
	if color == nil || len(color.Values) != 2 {
		t.Errorf("color option = %+v", color)
	}
}

func TestNormalizeMalformedRecordsSkipped(t *testing.T) {
	raw := RawProduct{
		"generated_options": []interface{}{
			"not-an-object",
			map[string]interface{}{"color": "黑色", "price": 10},
		},
	}
	_, variants := NormalizeOptions(raw, 0)
	if len(variants) != 1 {
		t.Fatalf("variants = %+v, want the one well-formed record", variants)
	}
}
