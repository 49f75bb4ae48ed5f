package model

import "strings"

// Language is a supported language code.
type Language string

// Supported languages. English is the pivot language: every query is
// canonicalized to English before routing and localized back afterwards.
const (
	LangEnglish Language = "en"
	LangHindi   Language = "hi"
	LangTelugu  Language = "te"
	LangBengali Language = "bn"
	LangTamil   Language = "ta"
)

// Pivot is the canonical processing language.
const Pivot = LangEnglish

// SupportedLanguages lists all languages the assistant can answer in.
var SupportedLanguages = []Language{LangEnglish, LangHindi, LangTelugu, LangBengali, LangTamil}

// LanguageInfo holds the code and English name of a language.
type LanguageInfo struct {
	Code Language `json:"code"` // e.g., "hi"
	Name string   `json:"name"` // e.g., "Hindi"
}

var languageNames = map[Language]string{
	LangEnglish: "English",
	LangHindi:   "Hindi",
	LangTelugu:  "Telugu",
	LangBengali: "Bengali",
	LangTamil:   "Tamil",
}

// Info returns code and English name for a language.
func (l Language) Info() LanguageInfo {
	name, ok := languageNames[l]
	if !ok {
		name = string(l)
	}
	return LanguageInfo{Code: l, Name: name}
}

// IsSupported reports whether l is in the fixed language set.
func (l Language) IsSupported() bool {
	_, ok := languageNames[l]
	return ok
}

// NormalizeLanguage cleans a client-supplied language value and forces it into
// the supported set. Unknown or empty values fall back to English.
func NormalizeLanguage(raw string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(raw)))
	if l == "" {
		return Pivot, true
	}
	if l.IsSupported() {
		return l, true
	}
	return Pivot, false
}

// LocalizedText maps language codes to translated strings. The English entry
// is the canonical value; For applies the fallback-to-English rule uniformly
// so call sites never re-implement it.
type LocalizedText map[Language]string

// For returns the string localized to lang, degrading to English when no
// entry for lang exists. The second return is false when the fallback fired.
func (t LocalizedText) For(lang Language) (string, bool) {
	if s, ok := t[lang]; ok && s != "" {
		return s, true
	}
	return t[Pivot], lang == Pivot
}
