package models

import "time"

// Metadata field names. These are the only fields the pipeline extracts
// and the only fields a correction may target.
const (
	FieldTitle       = "title"
	FieldPubDate     = "pub_date"
	FieldDescription = "description"
	FieldVolumeIssue = "volume_issue"
)

// Fields lists the extractable field names in display order.
var Fields = []string{FieldTitle, FieldPubDate, FieldDescription, FieldVolumeIssue}

// Pipeline stages, used for failure attribution on a PipelineResult.
const (
	StagePreprocessing = "preprocessing"
	StageExtraction    = "extraction"
	StageValidation    = "validation"
	StagePipeline      = "pipeline"
)

// MetadataRecord holds the four extracted fields for one document.
type MetadataRecord struct {
	Title       string `json:"title"`
	PubDate     string `json:"pub_date"`
	Description string `json:"description"`
	VolumeIssue string `json:"volume_issue"`
}

// Get returns the value of the named field, or empty string for an
// unknown field name.
func (m MetadataRecord) Get(field string) string {
	switch field {
	case FieldTitle:
		return m.Title
	case FieldPubDate:
		return m.PubDate
	case FieldDescription:
		return m.Description
	case FieldVolumeIssue:
		return m.VolumeIssue
	}
	return ""
}

// Set assigns the value of the named field. Unknown field names are ignored.
func (m *MetadataRecord) Set(field, value string) {
	switch field {
	case FieldTitle:
		m.Title = value
	case FieldPubDate:
		m.PubDate = value
	case FieldDescription:
		m.Description = value
	case FieldVolumeIssue:
		m.VolumeIssue = value
	}
}

// PipelineResult is the single output of one pipeline run. Success is true
// iff no warnings were recorded.
type PipelineResult struct {
	Data     MetadataRecord `json:"data"`
	Warnings []string       `json:"warnings"`
	Success  bool           `json:"success"`
	Stage    string         `json:"stage"`
}

// Correction records one operator-supplied replacement for one extracted
// field on one document. Corrections are append-only.
type Correction struct {
	Filename  string    `json:"filename"`
	Field     string    `json:"field"`
	Original  string    `json:"original"`
	Corrected string    `json:"corrected"`
	Context   string    `json:"context"`
	Timestamp time.Time `json:"timestamp"`
}

// UserPreferences holds extraction-style preferences derived from
// corrections. Operators never set these directly.
type UserPreferences struct {
	DescriptionStyle    string   `json:"description_style"`
	DescriptionExamples []string `json:"description_examples"`
	TitleFormat         string   `json:"title_format"`
	DateFormat          string   `json:"date_format"`
	VolumeFormat        string   `json:"volume_format"`
}

// FeedbackMemory is the persisted root of the feedback store. Absent keys
// in an existing file default to their zero values so older files stay
// readable.
type FeedbackMemory struct {
	Corrections       []Correction                 `json:"corrections"`
	Patterns          map[string]map[string]string `json:"patterns"`
	UserPreferences   UserPreferences              `json:"user_preferences"`
	FineTuningPrompts map[string]string            `json:"fine_tuning_prompts"`
	LastUpdated       time.Time                    `json:"last_updated"`
}

// NewFeedbackMemory returns the empty memory shape.
func NewFeedbackMemory() *FeedbackMemory {
	return &FeedbackMemory{
		Corrections: []Correction{},
		Patterns:    map[string]map[string]string{},
		UserPreferences: UserPreferences{
			DescriptionExamples: []string{},
		},
		FineTuningPrompts: map[string]string{
			FieldTitle:       "",
			FieldPubDate:     "",
			FieldDescription: "",
			FieldVolumeIssue: "",
		},
	}
}

// FeedbackStats summarizes the learned state of the feedback store.
type FeedbackStats struct {
	TotalCorrections int      `json:"total_corrections"`
	FieldsCorrected  []string `json:"fields_corrected"`
	PatternsLearned  int      `json:"patterns_learned"`
}

// DocumentEntry is one processed document in the current session.
type DocumentEntry struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	ProcessedAt time.Time      `json:"processed_at"`
	Metadata    MetadataRecord `json:"metadata"`
	Warnings    []string       `json:"warnings"`
	Stage       string         `json:"stage"`
	TextLength  int            `json:"text_length"`
	TextPreview string         `json:"text_preview"`
}

// ExportSnapshot is the on-demand batch export of all documents processed
// in the current session.
type ExportSnapshot struct {
	SessionID      string          `json:"session_id"`
	CreatedAt      time.Time       `json:"created_at"`
	LastUpdated    time.Time       `json:"last_updated,omitempty"`
	TotalDocuments int             `json:"total_documents"`
	Documents      []DocumentEntry `json:"documents"`
}
