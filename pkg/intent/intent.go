// Package intent classifies a pivot-language query into one of the fixed
// intents by keyword matching. The rule table is ordered: when a query
// matches several keyword sets ("what disease and how to treat it"), the
// first matching intent wins, every run, on every machine.
package intent

import (
	"strings"
	"unicode"

	"krishigo/pkg/model"
)

// rule pairs an intent with its trigger keywords. Multi-word keywords are
// matched as substrings of the normalized text.
type rule struct {
	intent   model.Intent
	keywords []string
}

// rules in priority order.
var rules = []rule{
	{model.IntentGreeting, []string{"hello", "hi", "hey", "greetings", "namaste"}},
	{model.IntentHelp, []string{"help", "what can you do", "capabilities"}},
	{model.IntentDisease, []string{"disease", "infection", "blight", "spot", "problem"}},
	{model.IntentTreatment, []string{"treat", "cure", "medicine", "pesticide", "solution"}},
	{model.IntentWeather, []string{"weather", "temperature", "rain", "climate", "forecast"}},
}

// Route classifies pivotText. Unmatched text yields IntentUnknown.
func Route(pivotText string) model.Intent {
	norm := " " + strings.Join(Tokenize(pivotText), " ") + " "
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(norm, " "+kw+" ") {
				return r.intent
			}
		}
	}
	return model.IntentUnknown
}

// Tokenize lowercases text and splits it into words, stripping punctuation
// so "Hello!" and "hello" match the same keyword.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// locationMarkers are the prepositions that introduce a place name in a
// weather query ("weather in Guntur").
var locationMarkers = map[string]bool{
	"in":  true,
	"at":  true,
	"for": true,
}

// ExtractLocation scans pivotText for a marker preposition and returns the
// following token, title-cased for the weather API. Empty means no location
// was named and the configured default applies.
func ExtractLocation(pivotText string) string {
	words := Tokenize(pivotText)
	for i, w := range words {
		if locationMarkers[w] && i+1 < len(words) {
			next := []rune(words[i+1])
			return string(unicode.ToUpper(next[0])) + string(next[1:])
		}
	}
	return ""
}
