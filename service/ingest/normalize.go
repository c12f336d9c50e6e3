package ingest

import (
	"sort"

	"souq.GO/service/translate"
)

// DraftOption is a normalized option dimension.
type DraftOption struct {
	Name   string
	Values []string
}

// DraftVariant is one normalized combination with its own price signal
// and optional physical overrides.
type DraftVariant struct {
	Combination    map[string]string
	RawPrice       float64
	Image          string
	ShippingMethod string
	WeightKg       float64
	LengthCm       float64
	WidthCm        float64
	HeightCm       float64
}

// generatedFields carry flat per-combination records, newest shape
// first.
var generatedFields = []string{"generated_options", "variants_data"}

// NormalizeOptions collapses the payload's heterogeneous variant
// representations into canonical options plus per-combination variants.
// Explicit option declarations and flat generated records both
// contribute; when neither is present the color/size lists recovered by
// ExtractVariants become options without variants. fallbackPrice is
// inherited by records that carry no price of their own.
func NormalizeOptions(raw RawProduct, fallbackPrice float64) ([]DraftOption, []DraftVariant) {
	acc := newOptionAccumulator()

	collectDeclaredOptions(raw, acc)

	var variants []DraftVariant
	for _, field := range generatedFields {
		arr, ok := toSlice(raw[field])
		if !ok {
			continue
		}
		for _, item := range arr {
			rec, ok := toMap(item)
			if !ok {
				continue // malformed record: skip, item proceeds
			}
			variants = append(variants, expandGeneratedRecord(rec, fallbackPrice, acc)...)
		}
		if len(variants) > 0 {
			break
		}
	}

	if acc.empty() {
		colors, sizes := ExtractVariants(raw)
		if len(colors) > 0 {
			acc.add(translate.OptionColor, colors...)
		}
		if len(sizes) > 0 {
			acc.add(translate.OptionSize, sizes...)
		}
	}

	return acc.options(), variants
}

// collectDeclaredOptions reads the explicit options field in either of
// its shapes: [{name, values[]}] or {name: [values]}.
func collectDeclaredOptions(raw RawProduct, acc *optionAccumulator) {
	v, ok := raw["options"]
	if !ok {
		return
	}
	if arr, ok := toSlice(v); ok {
		for _, item := range arr {
			m, ok := toMap(item)
			if !ok {
				continue
			}
			name := toString(firstOf(m, "name", "optionName", "prop"))
			values, _ := toSlice(firstOf(m, "values", "value"))
			addOptionValues(acc, name, values)
		}
		return
	}
	if m, ok := toMap(v); ok {
		for name, vv := range m {
			values, _ := toSlice(vv)
			addOptionValues(acc, name, values)
		}
	}
}

func addOptionValues(acc *optionAccumulator, name string, values []interface{}) {
	if name == "" || len(values) == 0 {
		return
	}
	canonical := translate.CanonicalOptionName(name)
	for _, v := range values {
		if s := toString(v); s != "" {
			acc.add(canonical, translate.TranslateValue(s))
		}
	}
}

// expandGeneratedRecord turns one flat per-combination record into
// variants. Metadata keys never become dimensions; nested options and
// combination sub-objects flatten into the same key space; a dimension
// declaring several values expands into the Cartesian product, every
// expanded combination inheriting the record's single price. The
// accumulator learns each dimension value, which keeps every emitted
// combination inside the declared option sets.
func expandGeneratedRecord(rec map[string]interface{}, fallbackPrice float64, acc *optionAccumulator) []DraftVariant {
	decoded, err := decodeGeneratedOption(rec)
	if err != nil {
		return nil // unparseable record: skip, item proceeds
	}

	dimNames, dims := flattenDims(decoded)
	if len(dimNames) == 0 {
		return nil
	}
	for _, name := range dimNames {
		acc.add(name, dims[name]...)
	}

	price := decoded.Price
	if price <= 0 {
		price = fallbackPrice
	}

	combos := cartesian(dimNames, dims)
	out := make([]DraftVariant, 0, len(combos))
	for _, combo := range combos {
		out = append(out, DraftVariant{
			Combination:    combo,
			RawPrice:       price,
			Image:          decoded.Image,
			ShippingMethod: decoded.ShippingMethod,
			WeightKg:       decoded.Weight,
			LengthCm:       decoded.Length,
			WidthCm:        decoded.Width,
			HeightCm:       decoded.Height,
		})
	}
	return out
}

// flattenDims merges a record's loose dimension keys with its nested
// options/combination sub-objects into one canonical-name -> values
// space, in stable first-seen order.
func flattenDims(rec *generatedOption) ([]string, map[string][]string) {
	var order []string
	dims := map[string][]string{}

	var walk func(m map[string]interface{})
	add := func(name string, vals []string) {
		if len(vals) == 0 {
			return
		}
		canonical := translate.CanonicalOptionName(name)
		if _, seen := dims[canonical]; !seen {
			order = append(order, canonical)
		}
		for _, v := range vals {
			dims[canonical] = appendUnique(dims[canonical], v)
		}
	}
	walk = func(m map[string]interface{}) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := m[k]
			if isMetadataKey(k) {
				continue
			}
			if sub, ok := toMap(v); ok {
				walk(sub)
				continue
			}
			if arr, ok := toSlice(v); ok {
				var vals []string
				for _, item := range arr {
					if s := toString(item); s != "" {
						vals = append(vals, translate.TranslateValue(s))
					}
				}
				add(k, vals)
				continue
			}
			if s := toString(v); s != "" {
				add(k, []string{translate.TranslateValue(s)})
			}
		}
	}

	walk(rec.Dims)
	walk(rec.Options)
	walk(rec.Combination)
	return order, dims
}

// cartesian expands dimension value lists into every combination.
func cartesian(names []string, dims map[string][]string) []map[string]string {
	combos := []map[string]string{{}}
	for _, name := range names {
		values := dims[name]
		if len(values) == 0 {
			continue
		}
		next := make([]map[string]string, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, v := range values {
				expanded := make(map[string]string, len(combo)+1)
				for k, cv := range combo {
					expanded[k] = cv
				}
				expanded[name] = v
				next = append(next, expanded)
			}
		}
		combos = next
	}
	if len(combos) == 1 && len(combos[0]) == 0 {
		return nil
	}
	return combos
}

// optionAccumulator collects option values in first-seen order and
// deduplicates names and values.
type optionAccumulator struct {
	order  []string
	values map[string][]string
}

func newOptionAccumulator() *optionAccumulator {
	return &optionAccumulator{values: map[string][]string{}}
}

func (a *optionAccumulator) add(name string, vals ...string) {
	if name == "" {
		return
	}
	if _, seen := a.values[name]; !seen {
		a.order = append(a.order, name)
		a.values[name] = nil
	}
	a.values[name] = appendUnique(a.values[name], vals...)
}

func (a *optionAccumulator) empty() bool {
	return len(a.order) == 0
}

func (a *optionAccumulator) options() []DraftOption {
	out := make([]DraftOption, 0, len(a.order))
	for _, name := range a.order {
		if len(a.values[name]) == 0 {
			continue
		}
		out = append(out, DraftOption{Name: name, Values: a.values[name]})
	}
	return out
}
