package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/extractor/internal/feedback"
	"github.com/lehigh-university-libraries/extractor/internal/pipeline"
	"github.com/lehigh-university-libraries/extractor/internal/storage"
)

type Handler struct {
	pipeline      *pipeline.Pipeline
	documentStore *storage.DocumentStore
	feedbackStore *feedback.Store
	uploadsDir    string
	exportsDir    string
}

func New(pl *pipeline.Pipeline, fb *feedback.Store, uploadsDir, exportsDir string) *Handler {
	return &Handler{
		pipeline:      pl,
		documentStore: storage.New(),
		feedbackStore: fb,
		uploadsDir:    uploadsDir,
		exportsDir:    exportsDir,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
