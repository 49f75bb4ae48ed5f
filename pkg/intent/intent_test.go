package intent

import (
	"testing"

	"krishigo/pkg/model"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Intent
	}{
		{"greeting", "Hello there", model.IntentGreeting},
		{"greeting punctuation", "hello!", model.IntentGreeting},
		{"namaste", "namaste, how are you", model.IntentGreeting},
		{"help", "I need help with my farm", model.IntentHelp},
		{"help phrase", "what can you do", model.IntentHelp},
		{"disease", "my crop has a disease", model.IntentDisease},
		{"disease by symptom", "there is a brown spot on the leaves", model.IntentDisease},
		{"treatment", "how do I cure my plants", model.IntentTreatment},
		{"treatment medicine", "which medicine should I spray", model.IntentTreatment},
		{"weather", "will it rain tomorrow", model.IntentWeather},
		{"weather forecast", "forecast for Guntur", model.IntentWeather},
		{"unknown", "tell me a story", model.IntentUnknown},
		{"empty", "", model.IntentUnknown},
		{"hi not inside word", "this is my field", model.IntentUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Route(tt.text); got != tt.want {
				t.Errorf("Route(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// Overlapping keyword sets must resolve by the fixed priority order, not by
// map iteration luck.
func TestRoutePriority(t *testing.T) {
	tests := []struct {
		text string
		want model.Intent
	}{
		{"hello, how do I treat this disease", model.IntentGreeting},
		{"what disease is this and how to treat it", model.IntentDisease},
		{"help me cure the blight", model.IntentHelp},
		{"treat it before the rain comes", model.IntentTreatment},
	}
	for _, tt := range tests {
		for i := 0; i < 10; i++ {
			if got := Route(tt.text); got != tt.want {
				t.Fatalf("Route(%q) = %v, want %v (run %d)", tt.text, got, tt.want, i)
			}
		}
	}
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"weather in Hyderabad", "Hyderabad"},
		{"weather in hyderabad today", "Hyderabad"},
		{"what is the temperature at Guntur", "Guntur"},
		{"forecast for pune", "Pune"},
		{"will it rain", ""},
		{"weather in", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractLocation(tt.text); got != tt.want {
			t.Errorf("ExtractLocation(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
