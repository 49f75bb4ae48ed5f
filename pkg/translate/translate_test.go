package translate

import (
	"context"
	"errors"
	"testing"

	"krishigo/pkg/model"
)

// fakeLLM returns a fixed response or error for every prompt.
type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) GenerateText(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) GenerateJSON(context.Context, string, string, any) error { return nil }
func (f *fakeLLM) HasProfile(string) bool                                  { return true }

func TestGeminiSameLanguageNoOp(t *testing.T) {
	fake := &fakeLLM{response: "should not be used"}
	g := &Gemini{LLM: fake}

	res := g.Translate(context.Background(), "hello farmer", model.LangEnglish, model.LangEnglish)
	if res.Text != "hello farmer" || res.Degraded {
		t.Errorf("same-language translate = %+v, want unchanged", res)
	}
	if fake.calls != 0 {
		t.Errorf("engine called %d times for a no-op", fake.calls)
	}
}

func TestGeminiTranslate(t *testing.T) {
	fake := &fakeLLM{response: "  नमस्ते किसान  \n"}
	g := &Gemini{LLM: fake}

	res := g.Translate(context.Background(), "hello farmer", model.LangEnglish, model.LangHindi)
	if res.Degraded {
		t.Fatal("unexpected degradation")
	}
	if res.Text != "नमस्ते किसान" {
		t.Errorf("Text = %q, want trimmed translation", res.Text)
	}
}

func TestGeminiDegradesOnError(t *testing.T) {
	fake := &fakeLLM{err: errors.New("engine down")}
	g := &Gemini{LLM: fake}

	res := g.Translate(context.Background(), "hello farmer", model.LangEnglish, model.LangHindi)
	if !res.Degraded {
		t.Error("expected degraded result")
	}
	if res.Text != "hello farmer" {
		t.Errorf("Text = %q, want original input", res.Text)
	}
}

func TestGeminiDegradesOnEmptyResponse(t *testing.T) {
	fake := &fakeLLM{response: "   "}
	g := &Gemini{LLM: fake}

	res := g.Translate(context.Background(), "hello farmer", model.LangEnglish, model.LangTelugu)
	if !res.Degraded || res.Text != "hello farmer" {
		t.Errorf("empty response should degrade to original, got %+v", res)
	}
}

func TestPassthrough(t *testing.T) {
	p := Passthrough{}

	res := p.Translate(context.Background(), "hello", model.LangEnglish, model.LangEnglish)
	if res.Degraded || res.Text != "hello" {
		t.Errorf("same-language passthrough = %+v", res)
	}

	res = p.Translate(context.Background(), "hello", model.LangEnglish, model.LangHindi)
	if !res.Degraded {
		t.Error("cross-language passthrough should report degraded")
	}
}
