package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code2   string   // ISO 639-1
	code3   string   // ISO 639-2/T
	alt3    []string // ISO 639-2/B and macrolanguage members
	display string
	words   []string
}

var languages = []entry{
	{"zh", "zho", []string{"chi", "cmn", "yue", "wuu", "nan"}, "Chinese", []string{"chinese", "mandarin", "cantonese"}},
	{"en", "eng", nil, "English", []string{"english"}},
	{"es", "spa", nil, "Spanish", []string{"spanish"}},
	{"fr", "fra", []string{"fre"}, "French", []string{"french"}},
	{"de", "deu", []string{"ger"}, "German", []string{"german"}},
	{"it", "ita", nil, "Italian", []string{"italian"}},
	{"pt", "por", nil, "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", nil, "Japanese", []string{"japanese"}},
	{"ko", "kor", nil, "Korean", []string{"korean"}},
	{"ru", "rus", nil, "Russian", []string{"russian"}},
	{"vi", "vie", nil, "Vietnamese", []string{"vietnamese"}},
	{"th", "tha", nil, "Thai", []string{"thai"}},
	{"id", "ind", nil, "Indonesian", []string{"indonesian"}},
	{"ms", "msa", []string{"may"}, "Malay", []string{"malay"}},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		for _, alt := range e.alt3 {
			byCode3[alt] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	if base := ietfBase(code); base != "" && base != code {
		return lookup(base)
	}
	return nil
}

// ietfBase returns the primary language subtag of a BCP 47 tag with
// subtags, such as "zh" for "zh-Hant-TW". Bare codes return "".
func ietfBase(code string) string {
	if !strings.ContainsAny(code, "-_") {
		return ""
	}
	tag, err := xlanguage.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}

// ToISO2 converts a code, tag or word to ISO 639-1. Unknown two-letter codes
// pass through; anything else unknown yields "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if base := ietfBase(code); len(base) == 2 {
		return base
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// ToISO3 converts a code to ISO 639-2. Unknown three-letter codes pass
// through; anything else unknown yields "und".
func ToISO3(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "und"
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	if len(code) == 3 {
		return code
	}
	return "und"
}

// DisplayName returns an English name for the code.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	if tag, err := xlanguage.Parse(trimmed); err == nil {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(trimmed)
}

// IsChinese reports whether code names Chinese or one of its varieties.
func IsChinese(code string) bool {
	e := lookup(code)
	return e != nil && e.code2 == "zh"
}

// FromTrack picks the most specific language for a track, preferring the
// IETF tag over the legacy code, and returns it as ISO 639-1 when known.
func FromTrack(legacy, ietf string) string {
	for _, candidate := range []string{ietf, legacy} {
		candidate = strings.TrimSpace(strings.ReplaceAll(candidate, "\u0000", ""))
		if candidate == "" || strings.EqualFold(candidate, "und") {
			continue
		}
		if iso := ToISO2(candidate); iso != "" {
			return iso
		}
		return strings.ToLower(candidate)
	}
	return ""
}
