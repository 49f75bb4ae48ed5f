package api

import (
	"net/http"

	"krishigo/pkg/artifact"
)

// AudioHandler serves the most recently synthesized answer.
type AudioHandler struct {
	store *artifact.Store
}

// NewAudioHandler creates a new AudioHandler.
func NewAudioHandler(s *artifact.Store) *AudioHandler {
	return &AudioHandler{store: s}
}

// HandleAudio handles GET /api/audio. The optional "session" query parameter
// selects the artifact slot; clients that never send one share the default
// single-user slot.
func (h *AudioHandler) HandleAudio(w http.ResponseWriter, r *http.Request) {
	art, ok := h.store.Current(r.URL.Query().Get("session"))
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "No audio file"}`))
		return
	}

	contentType := "audio/mpeg"
	if art.Format == "wav" {
		contentType = "audio/wav"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `inline; filename="speech.`+art.Format+`"`)
	http.ServeFile(w, r, art.Path)
}
