// Package speech wraps speech-to-text behind a small interface. Recognition
// always runs under a bounded timeout: audio capture is the one stage with no
// other cancellation signal, so an unresponsive recognizer must not hang the
// pipeline.
package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"krishigo/pkg/model"
	"krishigo/pkg/request"
	"krishigo/pkg/tracker"
)

// Kind classifies the outcome of a recognition attempt.
type Kind string

const (
	KindRecognized   Kind = "recognized"
	KindNoSpeech     Kind = "no_speech"     // audio contained no usable speech
	KindUnavailable  Kind = "unavailable"   // recognizer unreachable or misconfigured
	KindNoiseTimeout Kind = "noise_timeout" // gave up waiting for intelligible input
)

// Result is the outcome of a Recognize call. Text is only set for
// KindRecognized.
type Result struct {
	Kind Kind
	Text string
}

// Recognizer converts spoken audio into text.
type Recognizer interface {
	Recognize(ctx context.Context, audio io.Reader, lang model.Language) (Result, error)
}

// Disabled is the Recognizer used when no ASR endpoint is configured.
type Disabled struct{}

func (Disabled) Recognize(context.Context, io.Reader, model.Language) (Result, error) {
	return Result{Kind: KindUnavailable}, nil
}

// HTTP recognizes speech through an external ASR service that accepts WAV
// audio and returns {"text": ...} JSON.
type HTTP struct {
	Endpoint string
	Timeout  time.Duration
	Client   *request.Client
	Tracker  *tracker.Tracker
}

type asrResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Recognize posts the audio to the ASR endpoint and classifies the outcome.
// Transport failures map to KindUnavailable, an empty transcript to
// KindNoSpeech, and a timeout to KindNoiseTimeout; none of these are returned
// as errors, so the caller can degrade instead of failing the request.
func (h *HTTP) Recognize(ctx context.Context, audio io.Reader, lang model.Language) (Result, error) {
	if h.Endpoint == "" {
		return Result{Kind: KindUnavailable}, nil
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := io.ReadAll(audio)
	if err != nil {
		return Result{}, fmt.Errorf("read audio: %w", err)
	}
	if len(body) == 0 {
		return Result{Kind: KindNoSpeech}, nil
	}

	u := h.Endpoint
	if strings.Contains(u, "?") {
		u += "&language=" + string(lang)
	} else {
		u += "?language=" + string(lang)
	}

	respBody, err := h.Client.Post(ctx, u, body, "audio/wav")
	if err != nil {
		if h.Tracker != nil {
			h.Tracker.TrackDegraded("asr")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Kind: KindNoiseTimeout}, nil
		}
		return Result{Kind: KindUnavailable}, nil
	}

	var resp asrResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return Result{}, fmt.Errorf("parse recognizer response: %w", err)
	}
	if resp.Error != "" {
		return Result{Kind: KindNoSpeech}, nil
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return Result{Kind: KindNoSpeech}, nil
	}
	return Result{Kind: KindRecognized, Text: text}, nil
}
