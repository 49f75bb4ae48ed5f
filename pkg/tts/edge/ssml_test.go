package edge

import (
	"strings"
	"testing"
)

func TestBuildSSML(t *testing.T) {
	tests := []struct {
		name     string
		voice    string
		text     string
		expected []string // Substrings that must be present
	}{
		{
			name:     "Normal text",
			voice:    "en-IN-NeerjaNeural",
			text:     "Inspect the leaves for brown spots",
			expected: []string{"Inspect the leaves for brown spots", "en-IN-NeerjaNeural"},
		},
		{
			name:     "Devanagari text",
			voice:    "hi-IN-SwaraNeural",
			text:     "रोग का पता चला",
			expected: []string{"रोग का पता चला", "hi-IN-SwaraNeural"},
		},
		{
			name:     "Text with ampersand",
			voice:    "en-IN-NeerjaNeural",
			text:     "nitrogen & potassium",
			expected: []string{"nitrogen &amp; potassium"},
		},
		{
			name:     "Text with tags",
			voice:    "en-IN-NeerjaNeural",
			text:     "<speak>Hello</speak>",
			expected: []string{"&lt;speak&gt;Hello&lt;/speak&gt;"},
		},
		{
			name:     "Text with quotes",
			voice:    "en-IN-NeerjaNeural",
			text:     `Say "help" for more`,
			expected: []string{`Say &quot;help&quot; for more`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSSML(tt.voice, tt.text)
			for _, exp := range tt.expected {
				if !strings.Contains(got, exp) {
					t.Errorf("buildSSML() = %v, expected to contain %v", got, exp)
				}
			}
		})
	}
}
