package model

import "time"

// Intent is one of the fixed query categories the router can produce.
type Intent string

// Intents in priority order. When keyword sets overlap, the earlier intent
// wins; this ordering is a documented tie-break, not an accident.
const (
	IntentGreeting  Intent = "greeting"
	IntentHelp      Intent = "help"
	IntentDisease   Intent = "disease"
	IntentTreatment Intent = "treatment"
	IntentWeather   Intent = "weather"
	IntentUnknown   Intent = "unknown"
)

// DiseaseEntry is an immutable knowledge-base record, keyed by the canonical
// (English, script-independent) disease name.
type DiseaseEntry struct {
	Canonical   string        `json:"name"`
	Names       LocalizedText `json:"names"`
	Description LocalizedText `json:"description"`
	Treatment   LocalizedText `json:"treatment"`
}

// ResponseTemplate is a canned per-intent reply with localized variants.
type ResponseTemplate struct {
	Intent Intent        `json:"intent"`
	Text   LocalizedText `json:"text"`
}

// Degradation identifies a pipeline stage that fell back rather than failed.
type Degradation string

const (
	DegradedRecognition    Degradation = "recognition_failed"
	DegradedTranslation    Degradation = "translation_degraded"
	DegradedSynthesis      Degradation = "synthesis_failed"
	DegradedLanguage       Degradation = "unsupported_language"
	DegradedClassification Degradation = "classification_unavailable"
	DegradedWeather        Degradation = "weather_unavailable"
	DegradedLLM            Degradation = "llm_unavailable"
)

// Query carries a request through the pipeline. Stages derive new values
// instead of mutating shared state, so a finalized Query can be replayed.
type Query struct {
	Raw        string   // input text as received (or recognized)
	SourceLang Language // detected or caller-declared language
	TargetLang Language // language the answer must be rendered in
	PivotText  string   // canonical English form of Raw
	Intent     Intent
	PivotReply string // resolved answer in the pivot language
}

// Answer is the finalized pipeline output.
type Answer struct {
	Text           string        `json:"answerText"`
	Language       Language      `json:"language"`
	Intent         Intent        `json:"intent"`
	Disease        string        `json:"disease,omitempty"`
	AudioAvailable bool          `json:"audioAvailable"`
	Degradations   []Degradation `json:"degradations,omitempty"`
}

// Degraded reports whether d occurred while producing the answer.
func (a *Answer) Degraded(d Degradation) bool {
	for _, got := range a.Degradations {
		if got == d {
			return true
		}
	}
	return false
}

// AudioArtifact references a synthesized speech file. Artifacts are ephemeral
// render-on-demand output; the store owning them may delete superseded files
// at any time.
type AudioArtifact struct {
	Path      string
	Format    string // "mp3" or "wav"
	Language  Language
	CreatedAt time.Time
}
