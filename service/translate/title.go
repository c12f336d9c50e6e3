package translate

import (
	"context"
	"log"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"souq.GO/core/cache"
)

const (
	titleTimeout  = 8 * time.Second
	titleCacheTTL = 24 * 3600 // seconds
	titleCacheTag = "translations"

	// Fixed prompt: the model must return only the translated name, in
	// plain commercial Arabic, no explanations.
	titlePrompt = "ترجم اسم المنتج التالي إلى العربية بصياغة تجارية مختصرة. أعد الاسم المترجم فقط دون أي شرح أو علامات ترقيم إضافية:\n"
)

// IsMostlyArabic reports whether text is already predominantly Arabic:
// more than 10 Arabic runes and fewer than 2 Han runes.
func IsMostlyArabic(s string) bool {
	arabic, han := 0, 0
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			arabic++
		}
		if unicode.Is(unicode.Han, r) {
			han++
		}
	}
	return arabic > 10 && han < 2
}

// TranslateTitle resolves a product title to Arabic. Already-Arabic
// text short-circuits to the character filter. Otherwise the external
// model is asked with a hard timeout; any failure (missing credentials,
// timeout, empty response) degrades to the static dictionary. The
// result never contains runes outside the allow-list and never raw
// source-language text.
func TranslateTitle(ctx context.Context, title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	if IsMostlyArabic(title) {
		return FilterAllowed(title)
	}

	if v, ok := cache.GetInstance().GetN("title", title); ok {
		if s, isStr := v.(string); isStr {
			return s
		}
	}

	out := remoteTranslate(ctx, title)
	if out == "" {
		out = FilterAllowed(TranslateValue(title))
	}
	if out == "" {
		out = "منتج بدون اسم" // untitled product
	}
	cache.GetInstance().SetN([]interface{}{"title", title}, out, titleCacheTTL, []string{titleCacheTag})
	return out
}

// remoteTranslate calls the text-completion service. Returns "" on any
// failure; the service is best-effort enhancement, never a hard
// dependency.
func remoteTranslate(ctx context.Context, title string) string {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, titleTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		log.Printf("translate: client init failed: %v", err)
		return ""
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-1.5-flash")
	resp, err := model.GenerateContent(ctx, genai.Text(titlePrompt+title))
	if err != nil {
		log.Printf("translate: request failed, falling back to dictionary: %v", err)
		return ""
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return FilterAllowed(b.String())
}
