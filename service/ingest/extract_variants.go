package ingest

import (
	"regexp"
	"strings"

	"souq.GO/service/translate"
)

var bracketPattern = regexp.MustCompile(`【([^】]+)】`)

func isColorKey(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "颜色") || strings.Contains(name, "色") ||
		strings.Contains(name, "color") || strings.Contains(name, "لون")
}

func isSizeKey(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "尺码") || strings.Contains(name, "尺寸") ||
		strings.Contains(name, "size") || strings.Contains(name, "مقاس") ||
		strings.Contains(name, "码")
}

// ExtractVariants resolves the color and size value lists from the four
// source shapes that appeared across scraper generations, oldest last:
// the standard SKU-property array, bracket-delimited SKU strings inside
// the piece weight scale, the legacy column+row SKU table, and the
// secondary product-level SKU-property array. Shapes are tried in that
// order and the search stops as soon as both lists are non-empty. All
// values pass through translation.
func ExtractVariants(raw RawProduct) (colors, sizes []string) {
	shapes := []func(RawProduct) ([]string, []string){
		variantsFromSkuProps("skuProps"),
		variantsFromWeightScaleSKUs,
		variantsFromSkuTable,
		variantsFromSkuProps("productSkuInfos"),
	}
	for _, shape := range shapes {
		c, s := shape(raw)
		colors = appendUnique(colors, c...)
		sizes = appendUnique(sizes, s...)
		if len(colors) > 0 && len(sizes) > 0 {
			break
		}
	}
	return colors, sizes
}

// variantsFromSkuProps reads [{prop, value: [{name}...]}] arrays.
func variantsFromSkuProps(field string) func(RawProduct) ([]string, []string) {
	return func(raw RawProduct) (colors, sizes []string) {
		arr, ok := toSlice(raw[field])
		if !ok {
			return nil, nil
		}
		for _, item := range arr {
			m, ok := toMap(item)
			if !ok {
				continue
			}
			propName := toString(firstOf(m, "prop", "name", "propName"))
			values, ok := toSlice(firstOf(m, "value", "values"))
			if !ok {
				continue
			}
			var list []string
			for _, v := range values {
				s := toString(v)
				if s == "" {
					if vm, ok := toMap(v); ok {
						s = toString(firstOf(vm, "name", "value"))
					}
				}
				if s != "" {
					list = append(list, translate.TranslateValue(s))
				}
			}
			switch {
			case isColorKey(propName):
				colors = appendUnique(colors, list...)
			case isSizeKey(propName):
				sizes = appendUnique(sizes, list...)
			}
		}
		return colors, sizes
	}
}

// variantsFromWeightScaleSKUs parses bracket-delimited SKU strings from
// the piece weight scale: a leading 【value】 names the color, while a
// size-key prefix before the bracket (尺码【M】) names a size.
func variantsFromWeightScaleSKUs(raw RawProduct) (colors, sizes []string) {
	for _, e := range weightScaleEntries(raw) {
		sku := toString(firstOf(e, "sku", "skuName", "spec"))
		if sku == "" {
			continue
		}
		locs := bracketPattern.FindAllStringSubmatchIndex(sku, -1)
		for _, loc := range locs {
			value := sku[loc[2]:loc[3]]
			prefix := sku[:loc[0]]
			translated := translate.TranslateValue(value)
			if isSizeKey(prefix) {
				sizes = appendUnique(sizes, translated)
			} else if strings.HasPrefix(sku, "【") && loc[0] == 0 {
				colors = appendUnique(colors, translated)
			} else if isColorKey(prefix) {
				colors = appendUnique(colors, translated)
			}
		}
	}
	return colors, sizes
}

// variantsFromSkuTable reads the legacy {columns, rows} SKU table.
func variantsFromSkuTable(raw RawProduct) (colors, sizes []string) {
	m, ok := toMap(raw["skuTable"])
	if !ok {
		return nil, nil
	}
	cols, ok := toSlice(m["columns"])
	if !ok {
		return nil, nil
	}
	rows, ok := toSlice(m["rows"])
	if !ok {
		return nil, nil
	}
	colorIdx, sizeIdx := -1, -1
	for i, c := range cols {
		name := toString(c)
		if isColorKey(name) && colorIdx < 0 {
			colorIdx = i
		}
		if isSizeKey(name) && sizeIdx < 0 {
			sizeIdx = i
		}
	}
	for _, r := range rows {
		cells, ok := toSlice(r)
		if !ok {
			continue
		}
		if colorIdx >= 0 && colorIdx < len(cells) {
			if s := toString(cells[colorIdx]); s != "" {
				colors = appendUnique(colors, translate.TranslateValue(s))
			}
		}
		if sizeIdx >= 0 && sizeIdx < len(cells) {
			if s := toString(cells[sizeIdx]); s != "" {
				sizes = appendUnique(sizes, translate.TranslateValue(s))
			}
		}
	}
	return colors, sizes
}

func appendUnique(list []string, vals ...string) []string {
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		dup := false
		for _, existing := range list {
			if existing == v {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, v)
		}
	}
	return list
}
