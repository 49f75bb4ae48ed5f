package model

import "testing"

func TestLocalizedTextFallback(t *testing.T) {
	txt := LocalizedText{
		LangEnglish: "Brown Spot",
		LangHindi:   "ब्राउन स्पॉट",
	}

	tests := []struct {
		lang      Language
		want      string
		wantExact bool
	}{
		{LangEnglish, "Brown Spot", true},
		{LangHindi, "ब्राउन स्पॉट", true},
		{LangTelugu, "Brown Spot", false}, // falls back to English
		{LangTamil, "Brown Spot", false},
	}

	for _, tt := range tests {
		got, exact := txt.For(tt.lang)
		if got != tt.want || exact != tt.wantExact {
			t.Errorf("For(%q) = (%q, %v), want (%q, %v)", tt.lang, got, exact, tt.want, tt.wantExact)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		raw       string
		want      Language
		supported bool
	}{
		{"en", LangEnglish, true},
		{" HI ", LangHindi, true},
		{"te", LangTelugu, true},
		{"", LangEnglish, true},
		{"fr", LangEnglish, false},
		{"xx", LangEnglish, false},
	}

	for _, tt := range tests {
		got, ok := NormalizeLanguage(tt.raw)
		if got != tt.want || ok != tt.supported {
			t.Errorf("NormalizeLanguage(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.supported)
		}
	}
}

func TestAnswerDegraded(t *testing.T) {
	a := &Answer{Degradations: []Degradation{DegradedSynthesis}}
	if !a.Degraded(DegradedSynthesis) {
		t.Error("expected synthesis degradation to be reported")
	}
	if a.Degraded(DegradedWeather) {
		t.Error("did not expect weather degradation")
	}
}
