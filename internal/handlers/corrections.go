package handlers

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/lehigh-university-libraries/extractor/internal/models"
)

// HandleCorrections is the only mutating entry point into persisted
// feedback state. Each accepted correction updates the pattern table and
// re-derives the affected preference before the response is written.
func (h *Handler) HandleCorrections(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Filename  string `json:"filename"`
		Field     string `json:"field"`
		Original  string `json:"original"`
		Corrected string `json:"corrected"`
		Context   string `json:"context"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if !slices.Contains(models.Fields, request.Field) {
		h.writeError(w, "Invalid field. Must be one of: title, pub_date, description, volume_issue", http.StatusBadRequest)
		return
	}
	if request.Corrected == "" {
		h.writeError(w, "corrected value is required", http.StatusBadRequest)
		return
	}

	if err := h.feedbackStore.AddCorrection(request.Filename, request.Field, request.Original, request.Corrected, request.Context); err != nil {
		h.writeError(w, "Failed to record correction: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]any{
		"success":     true,
		"message":     "Correction learned and will guide future extractions",
		"preferences": h.feedbackStore.Preferences(),
		"stats":       h.feedbackStore.Stats(),
	})
}

// HandleSuggestions surfaces "you corrected this before" hints from the
// learned pattern table without re-invoking the inference service.
func (h *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	field := r.URL.Query().Get("field")
	value := r.URL.Query().Get("value")

	if !slices.Contains(models.Fields, field) {
		h.writeError(w, "Invalid field. Must be one of: title, pub_date, description, volume_issue", http.StatusBadRequest)
		return
	}

	suggestion, found := h.feedbackStore.GetSuggestion(field, value)
	h.writeJSON(w, map[string]any{
		"field":      field,
		"value":      value,
		"suggestion": suggestion,
		"found":      found,
	})
}

// HandleFeedbackStats reports correction and pattern counts.
func (h *Handler) HandleFeedbackStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, h.feedbackStore.Stats())
}
