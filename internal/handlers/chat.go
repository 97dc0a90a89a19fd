package handlers

import (
	"encoding/json"
	"net/http"
)

// HandleChat answers free-form operator questions, optionally grounded in
// a document's text. Inference failures come back as an error string in
// the reply, so the endpoint itself never hard-fails.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Message string `json:"message"`
		Context string `json:"context"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.Message == "" {
		h.writeError(w, "message is required", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, map[string]any{
		"response": h.pipeline.Chat(r.Context(), request.Message, request.Context),
	})
}
