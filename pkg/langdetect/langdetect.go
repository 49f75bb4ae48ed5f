// Package langdetect guesses the language of a short text by counting
// characters in language-specific Unicode script blocks. It is intentionally
// lightweight: farmer queries are short, and the supported scripts do not
// overlap, so a simple majority count is reliable enough to route the
// pipeline without a network call.
package langdetect

import (
	"unicode"

	"krishigo/pkg/model"
)

// script ranges for the supported Indic languages. Latin text (and anything
// we cannot place) falls through to English.
var scriptRanges = []struct {
	lang model.Language
	lo   rune
	hi   rune
}{
	{model.LangHindi, 0x0900, 0x097F},   // Devanagari
	{model.LangBengali, 0x0980, 0x09FF}, // Bengali
	{model.LangTamil, 0x0B80, 0x0BFF},   // Tamil
	{model.LangTelugu, 0x0C00, 0x0C7F},  // Telugu
}

// Detect returns the language whose script block contributes the most
// characters to text. Digits, punctuation and whitespace are ignored.
// Empty or purely Latin input returns English.
func Detect(text string) model.Language {
	counts := make(map[model.Language]int, len(scriptRanges))
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsDigit(r) || unicode.IsPunct(r) {
			continue
		}
		for _, sr := range scriptRanges {
			if r >= sr.lo && r <= sr.hi {
				counts[sr.lang]++
				break
			}
		}
	}

	best := model.LangEnglish
	bestCount := 0
	for _, sr := range scriptRanges {
		if c := counts[sr.lang]; c > bestCount {
			best = sr.lang
			bestCount = c
		}
	}
	return best
}
