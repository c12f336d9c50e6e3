package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultWeight is the assumed weight string when a listing carries no
// weight-scale data.
const DefaultWeight = "0.5"

// weightScaleFields are where the per-unit weight-scale structure
// (grams + carton dimensions per purchase unit) appears.
var weightScaleFields = []string{"unitWeight.scales", "weightScales", "skuWeights", "piecesWeightScale"}

func weightScaleEntries(raw RawProduct) []map[string]interface{} {
	for _, path := range weightScaleFields {
		v, ok := lookupPath(raw, path)
		if !ok {
			continue
		}
		arr, ok := toSlice(v)
		if !ok || len(arr) == 0 {
			continue
		}
		var out []map[string]interface{}
		for _, item := range arr {
			if m, ok := toMap(item); ok {
				out = append(out, m)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// ExtractWeight returns the product weight in kg as a string. Multiple
// scale entries average out (scales are per purchase quantity, grams);
// absence yields the fixed default.
func ExtractWeight(raw RawProduct) string {
	entries := weightScaleEntries(raw)
	if len(entries) == 0 {
		return DefaultWeight
	}
	sum, n := 0.0, 0
	for _, e := range entries {
		if g, ok := toFloat(firstOf(e, "weight", "grams", "unitWeight")); ok && g > 0 {
			sum += g
			n++
		}
	}
	if n == 0 {
		return DefaultWeight
	}
	kg := sum / float64(n) / 1000
	return strconv.FormatFloat(kg, 'f', -1, 64)
}

// ExtractDimensions returns "LxWxH" in cm from the first weight-scale
// entry (entries share one carton size), or "" when absent.
func ExtractDimensions(raw RawProduct) string {
	entries := weightScaleEntries(raw)
	if len(entries) == 0 {
		return ""
	}
	e := entries[0]
	l, okL := toFloat(firstOf(e, "length", "len"))
	w, okW := toFloat(firstOf(e, "width"))
	h, okH := toFloat(firstOf(e, "height"))
	if !okL || !okW || !okH || l <= 0 || w <= 0 || h <= 0 {
		return ""
	}
	return fmt.Sprintf("%gx%gx%g", l, w, h)
}

// ParseDimensions splits an "LxWxH" string into centimeters. Returns
// zeros for malformed input.
func ParseDimensions(s string) (l, w, h float64) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 3 {
		return 0, 0, 0
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || f < 0 {
			return 0, 0, 0
		}
		vals[i] = f
	}
	return vals[0], vals[1], vals[2]
}
