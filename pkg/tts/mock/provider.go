// Package mock provides a tts.Provider that writes silent placeholder files.
// Used in tests and when running without network access.
package mock

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"krishigo/pkg/tts"
)

// Provider implements tts.Provider without any external service.
type Provider struct {
	// Fail forces every Synthesize call to return an error.
	Fail bool

	calls atomic.Int64
}

// NewProvider creates a mock provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Synthesize writes a placeholder mp3 file large enough to pass the
// tts.MinAudioSize sanity check.
func (p *Provider) Synthesize(_ context.Context, text, voice, outputPath string) (string, error) {
	p.calls.Add(1)
	if p.Fail {
		return "", fmt.Errorf("mock synthesis failure")
	}
	if voice == "" {
		return "", fmt.Errorf("voice ID is required")
	}

	fullPath := outputPath
	if !strings.HasSuffix(strings.ToLower(fullPath), ".mp3") {
		fullPath += ".mp3"
	}

	var buf bytes.Buffer
	buf.WriteString("ID3")
	buf.WriteString(text)
	buf.Write(bytes.Repeat([]byte{0}, tts.MinAudioSize))

	if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return "mp3", nil
}

// Calls reports how many times Synthesize was invoked.
func (p *Provider) Calls() int64 {
	return p.calls.Load()
}

// Voices returns a single placeholder voice.
func (p *Provider) Voices(context.Context) ([]tts.Voice, error) {
	return []tts.Voice{
		{ID: "mock-voice", Name: "Mock Voice", Language: "en-IN", IsNeural: false},
	}, nil
}
