package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"krishigo/pkg/cache"
	"krishigo/pkg/model"
	"krishigo/pkg/request"
	"krishigo/pkg/tracker"
)

func newTestRecognizer(t *testing.T, handler http.HandlerFunc) (*HTTP, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	rc := request.New(cache.Null{}, tracker.New(), request.Options{Timeout: 5 * time.Second})
	return &HTTP{
		Endpoint: srv.URL + "/recognize",
		Timeout:  2 * time.Second,
		Client:   rc,
	}, srv
}

func TestRecognizeSuccess(t *testing.T) {
	h, _ := newTestRecognizer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if lang := r.URL.Query().Get("language"); lang != "hi" {
			t.Errorf("language = %q, want hi", lang)
		}
		w.Write([]byte(`{"text": "  mere paudhe mein rog hai "}`))
	})

	res, err := h.Recognize(context.Background(), strings.NewReader("RIFFfakewav"), model.LangHindi)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if res.Kind != KindRecognized {
		t.Errorf("Kind = %v, want recognized", res.Kind)
	}
	if res.Text != "mere paudhe mein rog hai" {
		t.Errorf("Text = %q, want trimmed transcript", res.Text)
	}
}

func TestRecognizeNoSpeech(t *testing.T) {
	h, _ := newTestRecognizer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": ""}`))
	})

	res, err := h.Recognize(context.Background(), strings.NewReader("RIFFfakewav"), model.LangEnglish)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if res.Kind != KindNoSpeech {
		t.Errorf("Kind = %v, want no_speech", res.Kind)
	}
}

func TestRecognizeEmptyAudio(t *testing.T) {
	h, _ := newTestRecognizer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("recognizer should not be called for empty audio")
	})

	res, err := h.Recognize(context.Background(), strings.NewReader(""), model.LangEnglish)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if res.Kind != KindNoSpeech {
		t.Errorf("Kind = %v, want no_speech", res.Kind)
	}
}

func TestRecognizeServiceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rc := request.New(cache.Null{}, tracker.New(), request.Options{Timeout: time.Second, Retries: 1})
	srv.Close() // endpoint exists but nothing listens

	h := &HTTP{Endpoint: srv.URL, Timeout: time.Second, Client: rc, Tracker: tracker.New()}
	res, err := h.Recognize(context.Background(), strings.NewReader("RIFFfakewav"), model.LangEnglish)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if res.Kind != KindUnavailable {
		t.Errorf("Kind = %v, want unavailable", res.Kind)
	}
}

func TestRecognizeDisabled(t *testing.T) {
	var d Disabled
	res, err := d.Recognize(context.Background(), strings.NewReader("audio"), model.LangEnglish)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if res.Kind != KindUnavailable {
		t.Errorf("Kind = %v, want unavailable", res.Kind)
	}
}
