package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"krishigo/pkg/model"
	"krishigo/pkg/pipeline"
)

// QueryHandler answers text queries.
type QueryHandler struct {
	pipeline *pipeline.Pipeline
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(p *pipeline.Pipeline) *QueryHandler {
	return &QueryHandler{pipeline: p}
}

// QueryRequest is the POST /api/query body.
type QueryRequest struct {
	Question string `json:"question"`
	Language string `json:"language,omitempty"` // optional hint, detected from script when empty
	Session  string `json:"session,omitempty"`
}

// HandleQuery handles POST /api/query.
func (h *QueryHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	answer, err := h.pipeline.Ask(r.Context(), req.Session, req.Question, req.Language)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyQuery) {
			http.Error(w, "question is required", http.StatusBadRequest)
			return
		}
		slog.Error("query failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeAnswer(w, answer)
}

func writeAnswer(w http.ResponseWriter, answer *model.Answer) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(answer); err != nil {
		slog.Error("Failed to write answer response", "error", err)
	}
}

func handleLanguages(w http.ResponseWriter, r *http.Request) {
	infos := make([]model.LanguageInfo, 0, len(model.SupportedLanguages))
	for _, l := range model.SupportedLanguages {
		infos = append(infos, l.Info())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"languages": infos, "pivot": model.Pivot}); err != nil {
		slog.Error("Failed to write languages response", "error", err)
	}
}
