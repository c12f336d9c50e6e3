package ingest

import (
	"regexp"
	"strings"
)

const maxImages = 15

// minImageURLLen: anything shorter is a sprite/icon path, not a product
// photo URL.
const minImageURLLen = 25

var (
	imgTagPattern    = regexp.MustCompile(`(?i)<img[^>]+src\s*=\s*["']([^"']+)["']`)
	inlineURLPattern = regexp.MustCompile(`https?://[^"'\\\s]+?\.(?:jpg|jpeg|png|webp)`)
	sizeSuffixPattern = regexp.MustCompile(`[._-]\d{2,4}x\d{2,4}\.`)
)

// deniedImageMarkers reject icons, logos, placeholders and compressed
// copies. ".summ." marks the marketplace's downscaled duplicate of an
// image that also appears full size.
var deniedImageMarkers = []string{
	".summ.", "icon", "logo", "placeholder", "sprite", "avatar", "blank.",
}

func acceptImageURL(u string) bool {
	u = strings.TrimSpace(u)
	if len(u) < minImageURLLen {
		return false
	}
	if !strings.HasPrefix(u, "http") {
		return false
	}
	lower := strings.ToLower(u)
	for _, marker := range deniedImageMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	if sizeSuffixPattern.MatchString(lower) {
		return false
	}
	return true
}

// imageListFields are the explicit image-array fields, in priority
// order.
var imageListFields = []string{"images", "imageList", "productInfo.images", "gallery"}

// ExtractImages resolves up to 15 product image URLs. An explicit image
// list wins; otherwise markup is scanned for <img> tags and inline
// JSON-embedded URLs. Both paths run the same allow/deny filter.
func ExtractImages(raw RawProduct) []string {
	for _, path := range imageListFields {
		v, ok := lookupPath(raw, path)
		if !ok {
			continue
		}
		arr, ok := toSlice(v)
		if !ok {
			continue
		}
		urls := collectImageURLs(arr)
		if len(urls) > 0 {
			return urls
		}
	}

	html := markup(raw)
	if html == "" {
		return nil
	}
	var candidates []string
	for _, m := range imgTagPattern.FindAllStringSubmatch(html, -1) {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, inlineURLPattern.FindAllString(html, -1)...)

	var out []string
	seen := map[string]bool{}
	for _, u := range candidates {
		u = strings.TrimSpace(u)
		if seen[u] || !acceptImageURL(u) {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if len(out) == maxImages {
			break
		}
	}
	return out
}

func collectImageURLs(arr []interface{}) []string {
	var out []string
	seen := map[string]bool{}
	for _, item := range arr {
		u := toString(item)
		if u == "" {
			if m, ok := toMap(item); ok {
				u = toString(firstOf(m, "url", "fullPathImageURI", "imageURI", "src"))
			}
		}
		if u == "" || seen[u] || !acceptImageURL(u) {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if len(out) == maxImages {
			break
		}
	}
	return out
}
