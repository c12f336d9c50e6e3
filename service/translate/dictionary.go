package translate

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Canonical option labels. Every source-language synonym of an option
// dimension folds to one of these before persistence.
const (
	OptionColor = "اللون"
	OptionSize  = "المقاس"
)

// optionSynonyms maps lowercased source spellings of option names to
// their canonical label.
var optionSynonyms = map[string]string{
	"color":  OptionColor,
	"colors": OptionColor,
	"colour": OptionColor,
	"颜色":     OptionColor,
	"色":      OptionColor,
	"اللون":  OptionColor,
	"لون":    OptionColor,
	"size":   OptionSize,
	"sizes":  OptionSize,
	"尺码":     OptionSize,
	"尺寸":     OptionSize,
	"大小":     OptionSize,
	"المقاس": OptionSize,
	"مقاس":   OptionSize,
	"القياس": OptionSize,
}

// CanonicalOptionName folds an option-dimension name to its canonical
// label. Unknown names pass through the value dictionary instead.
func CanonicalOptionName(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := optionSynonyms[key]; ok {
		return canonical
	}
	return TranslateValue(name)
}

// dictionary is the static Chinese -> Arabic attribute-value table.
// Trailing spaces on Arabic values keep words separated when several
// substrings are replaced inside one title.
var dictionary = map[string]string{
	// garment types
	"卫衣":   "هوديس ",
	"连衣裙":  "فستان ",
	"T恤":   "تيشيرت ",
	"t恤":   "تيشيرت ",
	"衬衫":   "قميص ",
	"裤子":   "بنطلون ",
	"牛仔裤":  "جينز ",
	"外套":   "جاكيت ",
	"夹克":   "جاكيت ",
	"毛衣":   "كنزة ",
	"短裤":   "شورت ",
	"裙子":   "تنورة ",
	"套装":   "طقم ",
	"运动鞋":  "حذاء رياضي ",
	"鞋":    "حذاء ",
	"袜子":   "جوارب ",
	"帽子":   "قبعة ",
	"围巾":   "وشاح ",
	"手套":   "قفازات ",
	"包":    "حقيبة ",
	"背包":   "حقيبة ظهر ",
	// audience
	"女":  "نسائي ",
	"女装": "نسائي ",
	"男":  "رجالي ",
	"男装": "رجالي ",
	"儿童": "أطفال ",
	"童装": "أطفال ",
	// seasons
	"秋季": "خريفي ",
	"秋":  "خريفي ",
	"夏季": "صيفي ",
	"夏":  "صيفي ",
	"冬季": "شتوي ",
	"冬":  "شتوي ",
	"春季": "ربيعي ",
	"春":  "ربيعي ",
	"四季": "لكل المواسم ",
	// colors
	"红色": "أحمر",
	"黑色": "أسود",
	"白色": "أبيض",
	"蓝色": "أزرق",
	"深蓝": "كحلي",
	"绿色": "أخضر",
	"黄色": "أصفر",
	"灰色": "رمادي",
	"粉色": "وردي",
	"粉红": "وردي",
	"紫色": "بنفسجي",
	"橙色": "برتقالي",
	"棕色": "بني",
	"米色": "بيج",
	"金色": "ذهبي",
	"银色": "فضي",
	// materials
	"纯棉":   "قطن ",
	"棉":    "قطن ",
	"聚酯纤维": "بوليستر ",
	"涤纶":   "بوليستر ",
	"皮革":   "جلد ",
	"真皮":   "جلد طبيعي ",
	"羊毛":   "صوف ",
	"尼龙":   "نايلون ",
	"丝绸":   "حرير ",
	"亚麻":   "كتان ",
	"牛仔布":  "دنيم ",
	// fits and cuts
	"宽松": "واسع ",
	"修身": "ضيق ",
	"加绒": "مبطن ",
	"加厚": "سميك ",
	"长袖": "كم طويل ",
	"短袖": "كم قصير ",
	"无袖": "بدون أكمام ",
	"圆领": "ياقة دائرية ",
	"高领": "ياقة عالية ",
	"连帽": "بقبعة ",
	"拉链": "سحاب ",
	"新款": "موديل جديد ",
	"时尚": "عصري ",
	"休闲": "كاجوال ",
	"运动": "رياضي ",
}

var (
	sortedKeysOnce sync.Once
	sortedKeys     []string
)

// dictionaryKeys returns dictionary keys sorted by descending rune
// length. Longest-match-first keeps a short key from clobbering part of
// a longer replacement already applied.
func dictionaryKeys() []string {
	sortedKeysOnce.Do(func() {
		sortedKeys = make([]string, 0, len(dictionary))
		for k := range dictionary {
			sortedKeys = append(sortedKeys, k)
		}
		sort.Slice(sortedKeys, func(i, j int) bool {
			li, lj := len([]rune(sortedKeys[i])), len([]rune(sortedKeys[j]))
			if li != lj {
				return li > lj
			}
			return sortedKeys[i] < sortedKeys[j]
		})
	})
	return sortedKeys
}

// TranslateValue maps a scraped attribute value to Arabic. Exact match
// first, then longest-match substring replacement. Unknown input passes
// through unchanged; there is no error path.
func TranslateValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if v, ok := dictionary[s]; ok {
		return strings.TrimSpace(v)
	}
	out := s
	for _, k := range dictionaryKeys() {
		if strings.Contains(out, k) {
			out = strings.ReplaceAll(out, k, dictionary[k])
		}
	}
	return strings.Join(strings.Fields(out), " ")
}

// FilterAllowed strips every rune outside the output allow-list:
// Arabic, Latin letters, digits, space, hyphen, '!' and '%'.
func FilterAllowed(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Arabic, r),
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == ' ', r == '-', r == '!', r == '%':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeDialect folds Arabic spelling variants for matching: hamza
// forms to bare alef, teh marbuta to heh, alef maqsura to yeh, and
// strips tatweel and diacritics.
func NormalizeDialect(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case 'أ', 'إ', 'آ':
			b.WriteRune('ا')
		case 'ة':
			b.WriteRune('ه')
		case 'ى':
			b.WriteRune('ي')
		case 'ؤ':
			b.WriteRune('و')
		case 'ئ':
			b.WriteRune('ي')
		case 'ـ': // tatweel
		default:
			if unicode.Is(unicode.Mn, r) {
				continue // diacritics
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dialectVariants lists alternative spellings shoppers use for common
// catalog words. Keys and values are stored dialect-normalized.
var dialectVariants = map[string][]string{
	"هوديس":  {"هودي", "هوديز"},
	"تيشيرت": {"تيشرت", "تي شيرت", "بلوزه"},
	"بنطلون": {"بنطال", "سروال"},
	"جاكيت":  {"جاكيته", "سترا"},
	"حذاء":   {"جزمه", "بوط"},
	"فستان":  {"فصتان"},
}

// ExpandSynonyms returns a dialect-normalized term plus its known
// variant spellings, the input term first.
func ExpandSynonyms(term string) []string {
	norm := NormalizeDialect(strings.TrimSpace(term))
	out := []string{norm}
	if vars, ok := dialectVariants[norm]; ok {
		out = append(out, vars...)
	}
	for canonical, vars := range dialectVariants {
		for _, v := range vars {
			if v == norm {
				out = append(out, canonical)
			}
		}
	}
	return out
}
