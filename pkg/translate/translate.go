// Package translate moves text between the supported languages and the
// English pivot. Translation never fails a request: on any engine error the
// original text comes back unchanged with Degraded set, and callers decide
// how to surface that.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"krishigo/pkg/llm"
	"krishigo/pkg/model"
	"krishigo/pkg/tracker"
)

// Result is the outcome of a translation call.
type Result struct {
	Text     string
	Degraded bool // true when the engine failed and Text is the untranslated input
}

// Provider translates text into the target language.
type Provider interface {
	Translate(ctx context.Context, text string, from, to model.Language) Result
}

// Passthrough returns input unchanged. Used when no translation engine is
// configured; only non-pivot targets count as degraded.
type Passthrough struct{}

func (Passthrough) Translate(_ context.Context, text string, from, to model.Language) Result {
	return Result{Text: text, Degraded: from != to}
}

// Gemini translates through the LLM provider using the "translate" profile.
type Gemini struct {
	LLM     llm.Provider
	Tracker *tracker.Tracker
}

const translatePrompt = `Translate the following text from %s to %s.
Reply with ONLY the translated text, no explanations, no quotes.

%s`

func (g *Gemini) Translate(ctx context.Context, text string, from, to model.Language) Result {
	// the pipeline always round-trips through the pivot, so the
	// same-language case must be a free no-op
	if from == to || strings.TrimSpace(text) == "" {
		return Result{Text: text}
	}

	prompt := fmt.Sprintf(translatePrompt, from.Info().Name, to.Info().Name, text)
	out, err := g.LLM.GenerateText(ctx, "translate", prompt)
	if err != nil {
		slog.Warn("translation degraded, returning original text", "from", from, "to", to, "error", err)
		if g.Tracker != nil {
			g.Tracker.TrackDegraded("gemini")
		}
		return Result{Text: text, Degraded: true}
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return Result{Text: text, Degraded: true}
	}
	return Result{Text: out}
}
