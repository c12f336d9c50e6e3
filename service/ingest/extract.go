package ingest

import (
	"context"
	"regexp"
	"strings"

	"souq.GO/service/translate"
)

// DefaultTitle is the last-resort product name when every source path
// comes up empty.
const DefaultTitle = "منتج بدون اسم"

// StrategyKind tags how a field strategy reads the payload.
type StrategyKind int

const (
	// StrategyPath reads dot-separated object paths.
	StrategyPath StrategyKind = iota
	// StrategyRegex matches a pattern against raw page markup.
	StrategyRegex
	// StrategySelector scans markup for a named tag's attribute.
	StrategySelector
)

// Strategy is one way of pulling a value out of a scraped record.
// Extraction tries an ordered list of these and stops at the first hit;
// the tagged-variant form keeps the fallback order visible in one
// place instead of nested conditionals.
type Strategy struct {
	Kind     StrategyKind
	Paths    []string
	Pattern  *regexp.Regexp
	Tag      string
	Attr     string
}

// markupFields are where scrapers stash raw page HTML.
var markupFields = []string{"markup", "html", "pageHtml", "rawHtml"}

// lookupPath walks a dot-separated path through nested maps. A path
// segment that hits an array takes the first element.
func lookupPath(raw map[string]interface{}, path string) (interface{}, bool) {
	var cur interface{} = raw
	for _, seg := range strings.Split(path, ".") {
		if arr, ok := toSlice(cur); ok {
			if len(arr) == 0 {
				return nil, false
			}
			cur = arr[0]
		}
		m, ok := toMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func markup(raw RawProduct) string {
	for _, f := range markupFields {
		if s := toString(raw[f]); s != "" {
			return s
		}
	}
	return ""
}

// Apply runs one strategy against a payload, returning the first
// non-empty string it yields.
func (s Strategy) Apply(raw RawProduct) (string, bool) {
	switch s.Kind {
	case StrategyPath:
		for _, p := range s.Paths {
			if v, ok := lookupPath(raw, p); ok {
				if str := toString(v); str != "" {
					return str, true
				}
			}
		}
	case StrategyRegex:
		if s.Pattern == nil {
			return "", false
		}
		if m := s.Pattern.FindStringSubmatch(markup(raw)); len(m) > 1 {
			return strings.TrimSpace(m[1]), true
		}
	case StrategySelector:
		if got := scanTag(markup(raw), s.Tag, s.Attr); got != "" {
			return got, true
		}
	}
	return "", false
}

// applyFirst runs strategies in order and returns the first hit.
func applyFirst(raw RawProduct, strategies []Strategy) (string, bool) {
	for _, s := range strategies {
		if v, ok := s.Apply(raw); ok {
			return v, true
		}
	}
	return "", false
}

// scanTag is a minimal selector: returns the attribute value (or inner
// text when attr is "") of the first matching tag in markup.
func scanTag(html, tag, attr string) string {
	if html == "" || tag == "" {
		return ""
	}
	var re *regexp.Regexp
	if attr == "" {
		re = regexp.MustCompile(`(?is)<` + tag + `[^>]*>(.*?)</` + tag + `>`)
	} else {
		re = regexp.MustCompile(`(?is)<` + tag + `[^>]+` + attr + `\s*=\s*["']([^"']+)["']`)
	}
	if m := re.FindStringSubmatch(html); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

var titleStrategies = []Strategy{
	{Kind: StrategyPath, Paths: []string{
		"title", "subject", "name", "productTitle",
		"productInfo.title", "data.title",
	}},
	{Kind: StrategySelector, Tag: "h1"},
	{Kind: StrategySelector, Tag: "title"},
}

// ExtractTitle resolves a display title, trying known source paths,
// then markup selectors, then the fixed default. The resolved text
// always goes through translation: callers never see raw
// source-language titles.
func ExtractTitle(ctx context.Context, raw RawProduct) (title, original string) {
	original, _ = applyFirst(raw, titleStrategies)
	if original == "" {
		return DefaultTitle, ""
	}
	title = translate.TranslateTitle(ctx, original)
	if title == "" {
		title = DefaultTitle
	}
	return title, original
}

var priceMarkupStrategies = []Strategy{
	{Kind: StrategyRegex, Pattern: regexp.MustCompile(`(?i)(?:¥|￥|price["':\s]+)\s*([0-9]+(?:\.[0-9]+)?)`)},
}

// ExtractPrice resolves a raw base price in source currency. When a
// listing carries several price signals (tiered quantities, accessory
// SKUs) the maximum wins: selecting a minimum risks pricing the whole
// product off a bundle accessory. Returns 0 when nothing is found;
// that is the caller's rejection signal, not an error.
func ExtractPrice(raw RawProduct) float64 {
	// Explicit scalar field.
	for _, path := range []string{"price", "productInfo.price", "data.price", "referencePrice"} {
		if v, ok := lookupPath(raw, path); ok {
			if f, ok := toFloat(v); ok && f > 0 {
				return f
			}
		}
	}
	// Array of current prices: take the maximum.
	for _, path := range []string{"currentPrices", "prices"} {
		if v, ok := lookupPath(raw, path); ok {
			if arr, ok := toSlice(v); ok {
				if max := maxFloat(arr); max > 0 {
					return max
				}
			}
		}
	}
	// Price-range object.
	if v, ok := lookupPath(raw, "priceRange"); ok {
		if m, ok := toMap(v); ok {
			if f, ok := toFloat(m["max"]); ok && f > 0 {
				return f
			}
			if f, ok := toFloat(m["min"]); ok && f > 0 {
				return f
			}
		}
	}
	// SKU id -> price map: take the maximum.
	for _, path := range []string{"skuPrices", "skuMap"} {
		if v, ok := lookupPath(raw, path); ok {
			if m, ok := toMap(v); ok {
				best := 0.0
				for _, pv := range m {
					if f, ok := toFloat(pv); ok && f > best {
						best = f
					}
					if sub, ok := toMap(pv); ok {
						if f, ok := toFloat(sub["price"]); ok && f > best {
							best = f
						}
					}
				}
				if best > 0 {
					return best
				}
			}
		}
	}
	// Last resort: numeric pattern in page markup.
	if s, ok := applyFirst(raw, priceMarkupStrategies); ok {
		if f, ok := toFloat(s); ok {
			return f
		}
	}
	return 0
}

func maxFloat(vals []interface{}) float64 {
	best := 0.0
	for _, v := range vals {
		if f, ok := toFloat(v); ok && f > best {
			best = f
		}
		if m, ok := toMap(v); ok {
			if f, ok := toFloat(m["price"]); ok && f > best {
				best = f
			}
		}
	}
	return best
}

// attributeContainers are the fields carrying generic key/value
// property lists.
var attributeContainers = []string{"attributes", "props", "properties", "productAttributes"}

// ExtractAttribute finds the first property whose key matches (by
// substring) any of the candidate keys, translates it, and returns
// fallback when absent.
func ExtractAttribute(raw RawProduct, keys []string, fallback string) string {
	for _, container := range attributeContainers {
		v, ok := raw[container]
		if !ok {
			continue
		}
		// Array-of-pairs shape: [{name: ..., value: ...}].
		if arr, ok := toSlice(v); ok {
			for _, item := range arr {
				m, ok := toMap(item)
				if !ok {
					continue
				}
				name := toString(firstOf(m, "name", "attrName", "key"))
				value := toString(firstOf(m, "value", "attrValue", "val"))
				if name == "" || value == "" {
					continue
				}
				for _, k := range keys {
					if strings.Contains(name, k) {
						return translate.TranslateValue(value)
					}
				}
			}
		}
		// Map shape: {propName: value}.
		if m, ok := toMap(v); ok {
			for name, pv := range m {
				value := toString(pv)
				if value == "" {
					continue
				}
				for _, k := range keys {
					if strings.Contains(name, k) {
						return translate.TranslateValue(value)
					}
				}
			}
		}
	}
	return fallback
}

func firstOf(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

// materialKeywords maps title keywords to material names, used when the
// property list has no material entry.
var materialKeywords = map[string]string{
	"棉":   "قطن",
	"皮":   "جلد",
	"羊毛":  "صوف",
	"牛仔":  "دنيم",
	"جلد": "جلد",
	"قطن": "قطن",
}

// ExtractMaterial reads the material attribute, falling back to keyword
// inference from the already-resolved title.
func ExtractMaterial(raw RawProduct, title string) string {
	if got := ExtractAttribute(raw, []string{"材质", "面料", "material", "خامة"}, ""); got != "" {
		return got
	}
	for kw, mat := range materialKeywords {
		if strings.Contains(title, kw) {
			return mat
		}
	}
	if orig := toString(raw["title"]); orig != "" {
		for kw, mat := range materialKeywords {
			if strings.Contains(orig, kw) {
				return mat
			}
		}
	}
	return "غير محدد"
}

func ExtractDesign(raw RawProduct) string {
	return ExtractAttribute(raw, []string{"图案", "款式", "design", "style"}, "غير محدد")
}

func ExtractFit(raw RawProduct) string {
	return ExtractAttribute(raw, []string{"版型", "fit"}, "عادي")
}

func ExtractCollar(raw RawProduct) string {
	return ExtractAttribute(raw, []string{"领型", "领", "collar"}, "غير محدد")
}

func ExtractSleeves(raw RawProduct) string {
	return ExtractAttribute(raw, []string{"袖长", "袖", "sleeve"}, "غير محدد")
}

func ExtractFeatures(raw RawProduct) string {
	return ExtractAttribute(raw, []string{"特点", "风格", "功能", "feature"}, "")
}

func ExtractSeason(raw RawProduct) string {
	return ExtractAttribute(raw, []string{"季节", "适用季节", "season"}, "لكل المواسم")
}

func ExtractLength(raw RawProduct) string {
	return ExtractAttribute(raw, []string{"衣长", "裙长", "裤长", "length"}, "غير محدد")
}
