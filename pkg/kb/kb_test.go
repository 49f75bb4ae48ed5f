package kb

import (
	"os"
	"path/filepath"
	"testing"

	"krishigo/pkg/model"
)

const testDoc = `{
  "diseases": [
    {
      "name": "Bacterial Leaf Blight",
      "localized_names": {
        "en": "Bacterial Leaf Blight",
        "hi": "बैक्टीरियल लीफ ब्लाइट"
      },
      "description": {"en": "Water-soaked streaks on leaves."},
      "treatment": {"en": "Use resistant varieties."}
    },
    {
      "name": "Brown Spot",
      "localized_names": {"en": "Brown Spot"},
      "description": {"en": "Brown lesions with grey centers."},
      "treatment": {"en": "Treat seed with fungicide."}
    }
  ],
  "templates": {
    "greeting": {"en": "Hello! How can I help you with your crops today?"},
    "unknown": {"en": "I'm not sure about that."},
    "disease_clarification": {"en": "Please specify which disease."}
  }
}`

func loadTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kb.json")
	if err := os.WriteFile(path, []byte(testDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestDiseaseLookup(t *testing.T) {
	s := loadTestStore(t)

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"Brown Spot", "Brown Spot", true},
		{"brown spot", "Brown Spot", true},
		{"  BROWN   SPOT  ", "Brown Spot", true},
		{"बैक्टीरियल लीफ ब्लाइट", "Bacterial Leaf Blight", true},
		{"Leaf Smut", "", false},
	}
	for _, tt := range tests {
		e, ok := s.Disease(tt.name)
		if ok != tt.ok {
			t.Errorf("Disease(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && e.Canonical != tt.want {
			t.Errorf("Disease(%q) = %q, want %q", tt.name, e.Canonical, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	s := loadTestStore(t)

	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"what is bacterial leaf blight", "Bacterial Leaf Blight", true},
		{"how do I treat Brown Spot in my field", "Brown Spot", true},
		{"मेरी फसल में बैक्टीरियल लीफ ब्लाइट है", "Bacterial Leaf Blight", true},
		{"my crop looks sick", "", false},
	}
	for _, tt := range tests {
		e, ok := s.Match(tt.text)
		if ok != tt.ok {
			t.Errorf("Match(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			continue
		}
		if ok && e.Canonical != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.text, e.Canonical, tt.want)
		}
	}
}

func TestMatchDeterministic(t *testing.T) {
	s := loadTestStore(t)
	text := "bacterial leaf blight or brown spot"
	first, ok := s.Match(text)
	if !ok {
		t.Fatal("expected a match")
	}
	for i := 0; i < 20; i++ {
		e, _ := s.Match(text)
		if e.Canonical != first.Canonical {
			t.Fatalf("Match not deterministic: got %q then %q", first.Canonical, e.Canonical)
		}
	}
}

func TestTemplateAndFallback(t *testing.T) {
	s := loadTestStore(t)

	tmpl, ok := s.Template(model.IntentGreeting)
	if !ok {
		t.Fatal("missing greeting template")
	}
	// no Telugu variant in the document, so the lookup degrades to English
	text, exact := tmpl.Text.For(model.LangTelugu)
	if exact {
		t.Error("expected fallback, got exact Telugu match")
	}
	if text != "Hello! How can I help you with your crops today?" {
		t.Errorf("unexpected fallback text %q", text)
	}

	if _, ok := s.Template(model.IntentWeather); ok {
		t.Error("weather should not have a canned template")
	}
	if _, ok := s.Snippet("disease_clarification"); !ok {
		t.Error("missing disease_clarification snippet")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"diseases": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for empty disease list")
	}
}
