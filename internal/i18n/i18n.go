// Package i18n holds the supported languages, locale negotiation and the UI string table.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Language codes supported by the client and the backend.
const (
	Korean     = "ko"
	English    = "en"
	Japanese   = "ja"
	Vietnamese = "vi"
	Chinese    = "zh"
)

// Default is used when nothing else matches.
const Default = Korean

// Supported lists languages in the order the settings screen cycles through them.
var Supported = []string{Korean, English, Japanese, Vietnamese, Chinese}

var names = map[string]string{
	Korean:     "한국어",
	English:    "English",
	Japanese:   "日本語",
	Vietnamese: "Tiếng Việt",
	Chinese:    "中文",
}

var voices = map[string]string{
	Korean:     "ko-KR",
	English:    "en-US",
	Japanese:   "ja-JP",
	Vietnamese: "vi-VN",
	Chinese:    "zh-CN",
}

var matcher = language.NewMatcher([]language.Tag{
	language.Korean,
	language.English,
	language.Japanese,
	language.Vietnamese,
	language.Chinese,
})

// IsSupported reports whether code is one of the supported language codes.
func IsSupported(code string) bool {
	_, ok := names[code]
	return ok
}

// Name returns the language's own display name.
func Name(code string) string {
	if n, ok := names[code]; ok {
		return n
	}
	return code
}

// VoiceLocale returns the speech synthesis locale for a language code.
func VoiceLocale(code string) string {
	if v, ok := voices[code]; ok {
		return v
	}
	return voices[Default]
}

// Next returns the language after code in Supported, wrapping around.
func Next(code string) string {
	for i, c := range Supported {
		if c == code {
			return Supported[(i+1)%len(Supported)]
		}
	}
	return Supported[0]
}

// DetermineLocale resolves a supported language code from a list of preferences such as
// "en-US,en;q=0.9", "ja_JP.UTF-8" or "zh-Hant". Empty or unmatched input yields Default.
func DetermineLocale(prefs ...string) string {
	var tags []language.Tag
	for _, p := range prefs {
		p = normalizePOSIX(p)
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return Default
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// normalizePOSIX turns "ko_KR.UTF-8" into "ko-KR"; "C" and "POSIX" mean no preference.
func normalizePOSIX(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}

// T returns the translated string for key in lang, falling back to English, then Korean, then
// the key itself.
func T(lang, key string) string {
	for _, l := range []string{lang, English, Korean} {
		if m, ok := translations[l]; ok {
			if v, ok := m[key]; ok {
				return v
			}
		}
	}
	return key
}

// Lookup returns the translation for key in lang only, without fallback.
func Lookup(lang, key string) (string, bool) {
	m, ok := translations[lang]
	if !ok {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// QuestionText returns the localized text for a symptom question code, or fallback when the
// table has no entry for that code in lang.
func QuestionText(lang, code, fallback string) string {
	if v, ok := Lookup(lang, "question."+code); ok {
		return v
	}
	return fallback
}

// FromName maps a display name (as stored by older clients) back to its code.
func FromName(name string) (string, bool) {
	for code, n := range names {
		if n == name {
			return code, true
		}
	}
	return "", false
}
