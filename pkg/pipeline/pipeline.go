// Package pipeline orchestrates a query end to end: resolve the language,
// canonicalize to English, route the intent, resolve an answer, localize it,
// and synthesize speech. Every stage failure past input validation degrades
// the answer instead of aborting it; the only fatal error is an empty query.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"krishigo/pkg/artifact"
	"krishigo/pkg/config"
	"krishigo/pkg/intent"
	"krishigo/pkg/langdetect"
	"krishigo/pkg/model"
	"krishigo/pkg/resolver"
	"krishigo/pkg/tracker"
	"krishigo/pkg/translate"
	"krishigo/pkg/tts"
)

// Stage names the pipeline states, in order.
type Stage string

const (
	StageReceived         Stage = "received"
	StageLanguageResolved Stage = "language_resolved"
	StageCanonicalized    Stage = "canonicalized"
	StageIntentRouted     Stage = "intent_routed"
	StageResolved         Stage = "resolved"
	StageLocalized        Stage = "localized"
	StageSynthesized      Stage = "synthesized"
	StageCompleted        Stage = "completed"
)

// ErrEmptyQuery is the one fatal input error: there is nothing to answer.
var ErrEmptyQuery = errors.New("empty query")

// StageError reports a fatal failure and the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Pipeline wires the stages together.
type Pipeline struct {
	Translate translate.Provider
	Resolver  *resolver.Resolver
	TTS       tts.Provider // nil disables synthesis
	TTSConfig config.TTSConfig
	Artifacts *artifact.Store
	Tracker   *tracker.Tracker

	TranslateTimeout time.Duration
	ResolveTimeout   time.Duration
}

// Ask answers a text query. declaredLang is the client's language hint; when
// empty the language is detected from the script of the text. session selects
// the audio artifact slot.
func (p *Pipeline) Ask(ctx context.Context, session, text, declaredLang string) (*model.Answer, error) {
	q := model.Query{Raw: text}
	var degradations []model.Degradation

	if text == "" {
		return nil, &StageError{Stage: StageReceived, Err: ErrEmptyQuery}
	}

	// LanguageResolved
	if declaredLang != "" {
		lang, ok := model.NormalizeLanguage(declaredLang)
		q.SourceLang = lang
		if !ok {
			degradations = append(degradations, model.DegradedLanguage)
		}
	} else {
		q.SourceLang = langdetect.Detect(text)
	}
	q.TargetLang = q.SourceLang

	// Canonicalized
	pivot := p.toPivot(ctx, &q, &degradations)
	q.PivotText = pivot

	// IntentRouted
	q.Intent = intent.Route(q.PivotText)

	// Resolved
	rctx := ctx
	if p.ResolveTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, p.ResolveTimeout)
		defer cancel()
	}
	res := p.Resolver.Resolve(rctx, q.Intent, q.PivotText)
	q.PivotReply = res.Text
	degradations = append(degradations, res.Degradations...)

	// Localized
	localized, dg := p.localize(ctx, res, q.TargetLang)
	degradations = append(degradations, dg...)

	// Synthesized
	audioOK := p.Speak(ctx, session, localized, q.TargetLang)
	if p.TTS != nil && !audioOK {
		degradations = append(degradations, model.DegradedSynthesis)
	}

	slog.Debug("query completed",
		"intent", q.Intent,
		"lang", q.TargetLang,
		"audio", audioOK,
		"degradations", len(degradations))

	return &model.Answer{
		Text:           localized,
		Language:       q.TargetLang,
		Intent:         q.Intent,
		Disease:        res.Disease,
		AudioAvailable: audioOK,
		Degradations:   degradations,
	}, nil
}

// toPivot translates the raw query into English. A degraded translation
// falls back to routing the raw text, which still works for pivot-language
// input and keyword matches on localized disease names.
func (p *Pipeline) toPivot(ctx context.Context, q *model.Query, degradations *[]model.Degradation) string {
	if q.SourceLang == model.Pivot {
		return q.Raw
	}
	tctx, cancel := p.translateCtx(ctx)
	defer cancel()

	res := p.Translate.Translate(tctx, q.Raw, q.SourceLang, model.Pivot)
	if res.Degraded {
		*degradations = append(*degradations, model.DegradedTranslation)
	}
	return res.Text
}

// localize renders the pivot answer in the target language. Knowledge-base
// translations win over the engine; an engine failure returns the English
// answer with a degradation flag.
func (p *Pipeline) localize(ctx context.Context, res resolver.Resolution, target model.Language) (string, []model.Degradation) {
	if target == model.Pivot {
		return res.Text, nil
	}
	if res.Localized != nil {
		if text, exact := res.Localized.For(target); exact {
			return text, nil
		}
	}

	tctx, cancel := p.translateCtx(ctx)
	defer cancel()

	out := p.Translate.Translate(tctx, res.Text, model.Pivot, target)
	if out.Degraded {
		return out.Text, []model.Degradation{model.DegradedTranslation}
	}
	return out.Text, nil
}

// Speak synthesizes text into the session's audio slot and reports whether a
// playable artifact is available. The disease-detection path calls this
// directly with its own composed text.
func (p *Pipeline) Speak(ctx context.Context, session, text string, lang model.Language) bool {
	if p.TTS == nil || text == "" {
		return false
	}

	timeout := p.TTSConfig.Timeout.Std()
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	voice := tts.VoiceFor(p.TTSConfig, lang)
	path := p.Artifacts.NewPath("mp3")

	format, err := p.TTS.Synthesize(sctx, text, voice, path)
	if err != nil {
		slog.Warn("speech synthesis failed, answer degrades to text-only", "voice", voice, "error", err)
		p.Artifacts.Discard(path)
		if p.Tracker != nil {
			p.Tracker.TrackDegraded("edge-tts")
		}
		return false
	}

	if fi, statErr := os.Stat(path); statErr != nil || fi.Size() < tts.MinAudioSize {
		slog.Warn("synthesized file too small, discarding", "path", path)
		p.Artifacts.Discard(path)
		return false
	}

	p.Artifacts.Publish(session, path, format, lang)
	return true
}

func (p *Pipeline) translateCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := p.TranslateTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
