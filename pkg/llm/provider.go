package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by providers that lack credentials. Callers
// treat it as "feature disabled", not as a transport failure.
var ErrNotConfigured = errors.New("llm provider not configured")

// Provider defines the interface for interacting with LLM services.
type Provider interface {
	// GenerateText sends a prompt and returns the text response. The name
	// selects a model profile ("answer", "translate").
	GenerateText(ctx context.Context, name, prompt string) (string, error)

	// GenerateJSON sends a prompt and unmarshals the response into the target struct.
	GenerateJSON(ctx context.Context, name, prompt string, target any) error

	// HasProfile checks if the provider has a specific profile configured.
	HasProfile(name string) bool
}

// Disabled is the Provider used when no LLM is configured. Every call fails
// with ErrNotConfigured so the pipeline falls back to canned templates.
type Disabled struct{}

func (Disabled) GenerateText(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) GenerateJSON(context.Context, string, string, any) error {
	return ErrNotConfigured
}

func (Disabled) HasProfile(string) bool { return false }
