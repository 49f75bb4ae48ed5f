// Package resolver turns a routed intent into a pivot-language answer. All
// external lookups degrade to a helpful message instead of failing: a farmer
// always gets text back, plus machine-readable flags saying what fell over.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"krishigo/pkg/intent"
	"krishigo/pkg/kb"
	"krishigo/pkg/llm"
	"krishigo/pkg/model"
	"krishigo/pkg/weather"
)

// Resolution is an answer in the pivot language. Localized carries the
// knowledge base's own translations when it has them, letting the pipeline
// skip the translation engine for canned replies.
type Resolution struct {
	Text         string
	Localized    model.LocalizedText
	Disease      string
	Degradations []model.Degradation
}

// Resolver produces answers per intent.
type Resolver struct {
	KB      *kb.Store
	Weather weather.Service
	LLM     llm.Provider
}

const answerPrompt = `You are an agricultural assistant for smallholder farmers.
Answer the following farming question briefly and practically, in English:

%s`

// Resolve answers pivotText according to its routed intent.
func (r *Resolver) Resolve(ctx context.Context, in model.Intent, pivotText string) Resolution {
	switch in {
	case model.IntentGreeting, model.IntentHelp:
		return r.template(in)
	case model.IntentDisease:
		return r.disease(pivotText)
	case model.IntentTreatment:
		return r.treatment(pivotText)
	case model.IntentWeather:
		return r.weather(ctx, pivotText)
	default:
		return r.unknown(ctx, pivotText)
	}
}

func (r *Resolver) template(in model.Intent) Resolution {
	tmpl, ok := r.KB.Template(in)
	if !ok {
		return r.fallback()
	}
	text, _ := tmpl.Text.For(model.Pivot)
	return Resolution{Text: text, Localized: tmpl.Text}
}

func (r *Resolver) disease(pivotText string) Resolution {
	entry, ok := r.KB.Match(pivotText)
	if !ok {
		return r.clarification("disease_clarification")
	}
	desc, _ := entry.Description.For(model.Pivot)
	return Resolution{
		Text:    fmt.Sprintf("%s: %s", entry.Canonical, desc),
		Disease: entry.Canonical,
	}
}

func (r *Resolver) treatment(pivotText string) Resolution {
	entry, ok := r.KB.Match(pivotText)
	if !ok {
		return r.clarification("treatment_clarification")
	}
	treatment, _ := entry.Treatment.For(model.Pivot)
	if treatment == "" {
		treatment = "Consult a local agricultural expert for treatment options."
	}
	return Resolution{
		Text:    fmt.Sprintf("Treatment for %s: %s", entry.Canonical, treatment),
		Disease: entry.Canonical,
	}
}

func (r *Resolver) weather(ctx context.Context, pivotText string) Resolution {
	location := intent.ExtractLocation(pivotText)

	report, err := r.Weather.Current(ctx, location)
	if err != nil {
		if errors.Is(err, weather.ErrNoCredential) {
			return Resolution{
				Text:         "Weather information requires an API key. Please set OPENWEATHER_API_KEY environment variable.",
				Degradations: []model.Degradation{model.DegradedWeather},
			}
		}
		slog.Warn("weather lookup degraded", "location", location, "error", err)
		text := "Weather service temporarily unavailable"
		if location != "" {
			text = fmt.Sprintf("Could not fetch weather for %s", location)
		}
		return Resolution{
			Text:         text,
			Degradations: []model.Degradation{model.DegradedWeather},
		}
	}
	return Resolution{Text: report.Summary()}
}

func (r *Resolver) unknown(ctx context.Context, pivotText string) Resolution {
	if r.LLM != nil && r.LLM.HasProfile("answer") && pivotText != "" {
		text, err := r.LLM.GenerateText(ctx, "answer", fmt.Sprintf(answerPrompt, pivotText))
		if err == nil && text != "" {
			return Resolution{Text: text}
		}
		if err != nil && !errors.Is(err, llm.ErrNotConfigured) {
			slog.Warn("llm answer degraded, using fallback template", "error", err)
			res := r.fallback()
			res.Degradations = append(res.Degradations, model.DegradedLLM)
			return res
		}
	}
	return r.fallback()
}

func (r *Resolver) clarification(key string) Resolution {
	if text, ok := r.KB.Snippet(key); ok {
		s, _ := text.For(model.Pivot)
		return Resolution{Text: s, Localized: text}
	}
	return r.fallback()
}

func (r *Resolver) fallback() Resolution {
	if tmpl, ok := r.KB.Template(model.IntentUnknown); ok {
		text, _ := tmpl.Text.For(model.Pivot)
		return Resolution{Text: text, Localized: tmpl.Text}
	}
	return Resolution{Text: "I'm not sure about that. Say 'help' for more information."}
}
