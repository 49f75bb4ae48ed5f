// Package detect adapts image classification into the answer pipeline. The
// classifier is an external service producing a canonical disease label; the
// adapter localizes the name and description and reuses the pipeline's
// synthesis path, so a detection behaves like a one-intent query.
package detect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"krishigo/pkg/kb"
	"krishigo/pkg/model"
	"krishigo/pkg/pipeline"
	"krishigo/pkg/request"
	"krishigo/pkg/tracker"
)

// ErrUnavailable means no classifier is configured or it cannot be reached.
var ErrUnavailable = errors.New("disease classifier unavailable")

// Classifier labels a crop image with a canonical disease name.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (string, error)
}

// Disabled is used when no classifier endpoint is configured.
type Disabled struct{}

func (Disabled) Classify(context.Context, []byte) (string, error) {
	return "", ErrUnavailable
}

// HTTP calls an external classifier service that accepts a JPEG body and
// returns {"disease": "..."} JSON.
type HTTP struct {
	Endpoint string
	Timeout  time.Duration
	Client   *request.Client
	Tracker  *tracker.Tracker
}

type classifyResponse struct {
	Disease string `json:"disease"`
	Label   string `json:"label,omitempty"` // older deployments use this key
}

func (h *HTTP) Classify(ctx context.Context, image []byte) (string, error) {
	if h.Endpoint == "" {
		return "", ErrUnavailable
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := h.Client.Post(ctx, h.Endpoint, image, "image/jpeg")
	if err != nil {
		if h.Tracker != nil {
			h.Tracker.TrackDegraded("classifier")
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var resp classifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse classifier response: %w", err)
	}
	label := resp.Disease
	if label == "" {
		label = resp.Label
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return "", fmt.Errorf("classifier returned no label")
	}
	return label, nil
}

// Adapter composes classification with the knowledge base and pipeline.
type Adapter struct {
	KB         *kb.Store
	Classifier Classifier
	Pipeline   *pipeline.Pipeline
}

// Detect classifies image and answers in lang, including synthesized speech
// when the pipeline has a working synthesizer. The returned error is only
// non-nil when no answer can be produced at all.
func (a *Adapter) Detect(ctx context.Context, session string, image []byte, lang model.Language) (*model.Answer, error) {
	label, err := a.Classifier.Classify(ctx, image)
	if err != nil {
		return nil, err
	}

	name := label
	description := "No info available"
	var degradations []model.Degradation

	entry, found := a.KB.Disease(label)
	if found {
		name = a.localizedName(entry, lang)
		if desc, _ := entry.Description.For(lang); desc != "" {
			description = desc
		}
	} else {
		degradations = append(degradations, model.DegradedClassification)
	}

	text := fmt.Sprintf("%s: %s. %s", a.prefix(lang), name, description)

	audioOK := a.Pipeline.Speak(ctx, session, text, lang)
	if a.Pipeline.TTS != nil && !audioOK {
		degradations = append(degradations, model.DegradedSynthesis)
	}

	return &model.Answer{
		Text:           text,
		Language:       lang,
		Intent:         model.IntentDisease,
		Disease:        name,
		AudioAvailable: audioOK,
		Degradations:   degradations,
	}, nil
}

func (a *Adapter) localizedName(entry *model.DiseaseEntry, lang model.Language) string {
	if name, _ := entry.Names.For(lang); name != "" {
		return name
	}
	return entry.Canonical
}

// prefix returns the localized "Disease detected" lead-in.
func (a *Adapter) prefix(lang model.Language) string {
	if text, ok := a.KB.Snippet("disease_detected"); ok {
		if s, _ := text.For(lang); s != "" {
			return s
		}
	}
	return "Disease detected"
}
