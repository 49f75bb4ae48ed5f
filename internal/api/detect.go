package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"krishigo/pkg/detect"
	"krishigo/pkg/model"
)

// maxUploadSize bounds crop images at 10MB.
const maxUploadSize = 10 << 20

// DetectHandler runs image-based disease detection.
type DetectHandler struct {
	adapter *detect.Adapter
}

// NewDetectHandler creates a new DetectHandler.
func NewDetectHandler(a *detect.Adapter) *DetectHandler {
	return &DetectHandler{adapter: a}
}

// HandleDetect handles POST /api/detect. The request is multipart form data
// with a "file" image part and optional "language" and "session" fields.
func (h *DetectHandler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	// ParseMultipartForm may spool large parts to disk; remove them on every
	// exit path so detections do not accumulate temp files
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil || len(image) == 0 {
		http.Error(w, "could not read image", http.StatusBadRequest)
		return
	}

	lang, _ := model.NormalizeLanguage(r.FormValue("language"))
	session := r.FormValue("session")

	answer, err := h.adapter.Detect(r.Context(), session, image, lang)
	if err != nil {
		if errors.Is(err, detect.ErrUnavailable) {
			http.Error(w, "disease detection is not available", http.StatusServiceUnavailable)
			return
		}
		slog.Error("detection failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeAnswer(w, answer)
}
