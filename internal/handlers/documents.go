package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/extractor/internal/models"
)

// maxDocumentSize caps one uploaded document at 10MB of text.
const maxDocumentSize = 10 * 1024 * 1024

const previewLength = 500

// HandleDocuments serves the current session on GET and processes newly
// submitted documents on POST.
func (h *Handler) HandleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.writeJSON(w, h.documentStore.Snapshot())
	case "POST":
		h.handleProcess(w, r)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleProcess accepts either a JSON body with the document text inline
// or a multipart upload of one or more plain-text files. Text acquisition
// happens upstream; this endpoint only ever sees plain text.
func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleJSONDocument(w, r)
		return
	}

	h.handleFileUpload(w, r)
}

func (h *Handler) handleJSONDocument(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Filename     string `json:"filename"`
		Text         string `json:"text"`
		TargetPeriod string `json:"target_period"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if request.Text == "" {
		h.writeError(w, "text is required", http.StatusBadRequest)
		return
	}
	if request.Filename == "" {
		request.Filename = "untitled.txt"
	}

	// One preference snapshot per request, so corrections made since the
	// last call take effect here.
	prefs := h.feedbackStore.Preferences()
	entry := h.processDocument(r, request.Filename, request.Text, request.TargetPeriod, prefs)

	h.writeJSON(w, map[string]any{
		"success":         true,
		"processed_count": 1,
		"total_documents": h.documentStore.Len(),
		"results":         []models.DocumentEntry{entry},
	})
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		h.writeError(w, "Failed to parse upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		h.writeError(w, "No files provided", http.StatusBadRequest)
		return
	}

	targetPeriod := r.FormValue("target_period")
	prefs := h.feedbackStore.Preferences()

	results := []models.DocumentEntry{}
	errors := []string{}

	for _, header := range files {
		if !strings.HasSuffix(strings.ToLower(header.Filename), ".txt") {
			errors = append(errors, header.Filename+": Invalid file type")
			continue
		}

		file, err := header.Open()
		if err != nil {
			errors = append(errors, header.Filename+": "+err.Error())
			continue
		}

		data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize))
		file.Close()
		if err != nil {
			errors = append(errors, header.Filename+": "+err.Error())
			continue
		}
		if len(data) >= maxDocumentSize {
			errors = append(errors, header.Filename+": File too large (max 10MB)")
			continue
		}

		filename := filepath.Base(header.Filename)
		if err := h.persistUpload(filename, data); err != nil {
			errors = append(errors, header.Filename+": "+err.Error())
			continue
		}

		entry := h.processDocument(r, filename, string(data), targetPeriod, prefs)
		results = append(results, entry)
	}

	if len(results) == 0 && len(errors) > 0 {
		h.writeJSON(w, map[string]any{
			"error":   "All files failed to process",
			"details": errors,
		})
		return
	}

	response := map[string]any{
		"success":         true,
		"processed_count": len(results),
		"total_documents": h.documentStore.Len(),
		"results":         results,
	}
	if len(errors) > 0 {
		response["errors"] = errors
	}

	h.writeJSON(w, response)
}

// persistUpload keeps a durable copy of each uploaded document under the
// uploads directory, so a batch can be re-run through the checker later.
func (h *Handler) persistUpload(filename string, data []byte) error {
	if err := os.MkdirAll(h.uploadsDir, 0755); err != nil {
		return fmt.Errorf("create uploads directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(h.uploadsDir, filename), data, 0644); err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	return nil
}

func (h *Handler) processDocument(r *http.Request, filename, text, targetPeriod string, prefs models.UserPreferences) models.DocumentEntry {
	result := h.pipeline.Process(r.Context(), text, prefs, targetPeriod)

	entry := models.DocumentEntry{
		ID:          uuid.NewString(),
		Filename:    filename,
		ProcessedAt: time.Now(),
		Metadata:    result.Data,
		Warnings:    result.Warnings,
		Stage:       result.Stage,
		TextLength:  len(text),
		TextPreview: preview(text),
	}
	h.documentStore.Add(entry)

	return entry
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLength {
		return string(runes[:previewLength]) + "..."
	}
	return text
}

// HandleClear discards the session and starts a fresh one.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := h.documentStore.Clear()
	h.writeJSON(w, map[string]any{
		"success":    true,
		"message":    "All documents cleared",
		"session_id": sessionID,
	})
}

// HandleExport writes the full session snapshot to the exports directory
// and serves it as a download.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.documentStore.Snapshot()
	if snapshot.TotalDocuments == 0 {
		h.writeError(w, "No documents have been processed yet", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(h.exportsDir, 0755); err != nil {
		h.writeError(w, "Failed to create exports directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("metadata_export_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(h.exportsDir, filename)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		h.writeError(w, "Failed to encode export: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		h.writeError(w, "Failed to write export: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, path)
}
