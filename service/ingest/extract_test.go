package ingest

import (
	"context"
	"testing"
)

func TestExtractTitleFromKnownPaths(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	raw := RawProduct{"productInfo": map[string]interface{}{"title": "连衣裙"}}
	title, original := ExtractTitle(context.Background(), raw)
	if original != "连衣裙" {
		t.Errorf("original = %q", original)
	}
	if title != "فستان" {
		t.Errorf("title = %q", title)
	}
}

func TestExtractTitleFromMarkup(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	raw := RawProduct{"markup": `<html><h1> 卫衣 </h1></html>`}
	title, original := ExtractTitle(context.Background(), raw)
	if original != "卫衣" {
		t.Errorf("original = %q", original)
	}
	if title != "هوديس" {
		t.Errorf("title = %q", title)
	}
}

func TestExtractTitleDefault(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	title, original := ExtractTitle(context.Background(), RawProduct{})
	if title != DefaultTitle || original != "" {
		t.Errorf("title = %q, original = %q", title, original)
	}
}

func TestExtractPriceShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  RawProduct
		want float64
	}{
		{"scalar", RawProduct{"price": 58}, 58},
		{"scalar string", RawProduct{"price": "58.5"}, 58.5},
		{"nested", RawProduct{"productInfo": map[string]interface{}{"price": 32}}, 32},
		{"current prices max", RawProduct{"currentPrices": []interface{}{12.0, 58.0, 30.0}}, 58},
		{"price objects max", RawProduct{"prices": []interface{}{
			map[string]interface{}{"price": 20},
			map[string]interface{}{"price": 45},
		}}, 45},
		{"range max wins", RawProduct{"priceRange": map[string]interface{}{"min": 10, "max": 25}}, 25},
		{"range min fallback", RawProduct{"priceRange": map[string]interface{}{"min": 10}}, 10},
		{"sku map", RawProduct{"skuPrices": map[string]interface{}{"a": 18, "b": 22}}, 22},
		{"markup yuan", RawProduct{"markup": `<span>￥ 68.5</span>`}, 68.5},
		{"missing", RawProduct{"title": "x"}, 0},
		{"zero rejected", RawProduct{"price": 0}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractPrice(tc.raw); got != tc.want {
				t.Errorf("ExtractPrice = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtractImagesExplicitList(t *testing.T) {
	raw := RawProduct{"images": []interface{}{
		"https://img.example.com/catalog/hoodie-grey-main-photo.jpg",
		"https://img.example.com/catalog/hoodie-grey-main-photo.jpg", // duplicate
		"https://img.example.com/catalog/hoodie-grey-main-photo.summ.jpg",
		"https://img.example.com/assets/shop-logo-header-banner.png",
		"https://cdn.example.com/catalog/thumb/item-photo_100x100.jpg",
		"short.jpg",
		map[string]interface{}{"fullPathImageURI": "https://img.example.com/catalog/hoodie-grey-back-photo.jpg"},
	}}
	got := ExtractImages(raw)
	want := []string{
		"https://img.example.com/catalog/hoodie-grey-main-photo.jpg",
		"https://img.example.com/catalog/hoodie-grey-back-photo.jpg",
	}
	if len(got) != len(want) {
		t.Fatalf("images = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("images[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractImagesFromMarkup(t *testing.T) {
	raw := RawProduct{"markup": `
		<img src="https://img.example.com/catalog/listing-photo-front-view.jpg">
		<img src="https://img.example.com/sprites/nav-sprite-sheet-x.png">
		"https://img.example.com/catalog/listing-photo-detail-shot.webp"
	`}
	got := ExtractImages(raw)
	if len(got) != 2 {
		t.Fatalf("images = %v", got)
	}
}

func TestExtractWeightAveragesScales(t *testing.T) {
	raw := RawProduct{"unitWeight": map[string]interface{}{"scales": []interface{}{
		map[string]interface{}{"weight": 400},
		map[string]interface{}{"weight": 600},
	}}}
	if got := ExtractWeight(raw); got != "0.5" {
		t.Errorf("weight = %q, want 0.5 (mean of 400g and 600g)", got)
	}
}

func TestExtractWeightDefault(t *testing.T) {
	if got := ExtractWeight(RawProduct{}); got != DefaultWeight {
		t.Errorf("weight = %q", got)
	}
}

func TestExtractDimensionsRoundTrip(t *testing.T) {
	raw := RawProduct{"weightScales": []interface{}{
		map[string]interface{}{"weight": 15000, "length": 65, "width": 62, "height": 32},
	}}
	s := ExtractDimensions(raw)
	if s != "65x62x32" {
		t.Fatalf("dimensions = %q", s)
	}
	l, w, h := ParseDimensions(s)
	if l != 65 || w != 62 || h != 32 {
		t.Errorf("parsed = %v,%v,%v", l, w, h)
	}
}

func TestParseDimensionsMalformed(t *testing.T) {
	for _, s := range []string{"", "65x62", "axbxc", "65x-1x32"} {
		if l, w, h := ParseDimensions(s); l != 0 || w != 0 || h != 0 {
			t.Errorf("ParseDimensions(%q) = %v,%v,%v, want zeros", s, l, w, h)
		}
	}
}

func TestExtractAttributeShapes(t *testing.T) {
	pairList := RawProduct{"attributes": []interface{}{
		map[string]interface{}{"name": "面料", "value": "纯棉"},
	}}
	if got := ExtractAttribute(pairList, []string{"面料"}, ""); got != "قطن" {
		t.Errorf("pair list attribute = %q", got)
	}

	asMap := RawProduct{"props": map[string]interface{}{"材质": "皮革"}}
	if got := ExtractAttribute(asMap, []string{"材质"}, ""); got != "جلد" {
		t.Errorf("map attribute = %q", got)
	}

	if got := ExtractAttribute(RawProduct{}, []string{"材质"}, "غير محدد"); got != "غير محدد" {
		t.Errorf("fallback = %q", got)
	}
}

func TestExtractMaterialTitleInference(t *testing.T) {
	if got := ExtractMaterial(RawProduct{}, "جاكيت جلد رجالي"); got != "جلد" {
		t.Errorf("material = %q", got)
	}
	if got := ExtractMaterial(RawProduct{"title": "牛仔裤"}, "جينز"); got != "دنيم" {
		t.Errorf("material from source title = %q", got)
	}
	if got := ExtractMaterial(RawProduct{}, "قبعة"); got != "غير محدد" {
		t.Errorf("material default = %q", got)
	}
}

func TestExtractVariantsSkuProps(t *testing.T) {
	raw := RawProduct{"skuProps": []interface{}{
		map[string]interface{}{"prop": "颜色", "value": []interface{}{
			map[string]interface{}{"name": "红色"},
			map[string]interface{}{"name": "黑色"},
		}},
		map[string]interface{}{"prop": "尺码", "value": []interface{}{"M", "L", "XL"}},
	}}
	colors, sizes := ExtractVariants(raw)
	if len(colors) != 2 || colors[0] != "أحمر" || colors[1] != "أسود" {
		t.Errorf("colors = %v", colors)
	}
	if len(sizes) != 3 {
		t.Errorf("sizes = %v", sizes)
	}
}

func TestExtractVariantsBracketSKUs(t *testing.T) {
	raw := RawProduct{"weightScales": []interface{}{
		map[string]interface{}{"sku": "【灰色】尺码【M】", "weight": 500},
		map[string]interface{}{"sku": "【灰色】尺码【L】", "weight": 520},
		map[string]interface{}{"sku": "【黑色】尺码【M】", "weight": 500},
	}}
	colors, sizes := ExtractVariants(raw)
	if len(colors) != 2 || colors[0] != "رمادي" || colors[1] != "أسود" {
		t.Errorf("colors = %v", colors)
	}
	if len(sizes) != 2 || sizes[0] != "M" || sizes[1] != "L" {
		t.Errorf("sizes = %v", sizes)
	}
}

func TestExtractVariantsSkuTable(t *testing.T) {
	raw := RawProduct{"skuTable": map[string]interface{}{
		"columns": []interface{}{"颜色", "尺码", "价格"},
		"rows": []interface{}{
			[]interface{}{"白色", "S", 58},
			[]interface{}{"白色", "M", 58},
		},
	}}
	colors, sizes := ExtractVariants(raw)
	if len(colors) != 1 || colors[0] != "أبيض" {
		t.Errorf("colors = %v", colors)
	}
	if len(sizes) != 2 {
		t.Errorf("sizes = %v", sizes)
	}
}
