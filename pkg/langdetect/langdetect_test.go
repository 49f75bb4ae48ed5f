package langdetect

import (
	"testing"

	"krishigo/pkg/model"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Language
	}{
		{"empty", "", model.LangEnglish},
		{"english", "my rice leaves have brown spots", model.LangEnglish},
		{"hindi", "मेरी फसल में रोग है", model.LangHindi},
		{"telugu", "నా పంటకు వ్యాధి వచ్చింది", model.LangTelugu},
		{"bengali", "আমার ধানের পাতায় দাগ", model.LangBengali},
		{"tamil", "என் நெல் இலைகளில் புள்ளிகள்", model.LangTamil},
		{"mixed mostly hindi", "leaf blight का इलाज क्या है", model.LangHindi},
		{"digits and punctuation only", "42, 7.5%!", model.LangEnglish},
		{"latin with one devanagari char", "hello क", model.LangHindi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
