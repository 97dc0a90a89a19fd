package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/extractor/internal/models"
	"github.com/lehigh-university-libraries/extractor/internal/providers"
)

// DefaultInferenceTimeout bounds each generation request.
const DefaultInferenceTimeout = 60 * time.Second

// DefaultChatTimeout bounds free-form chat requests, which carry far less
// context than the extraction prompts.
const DefaultChatTimeout = 30 * time.Second

// Extractor runs per-field extraction prompts against an injected LLM
// provider. Inference failures are never fatal at this layer: a field that
// cannot be extracted comes back as an empty string and surfaces later as
// a validation warning.
type Extractor struct {
	provider    providers.Provider
	model       string
	temperature float64
	timeout     time.Duration
}

// NewExtractor returns an Extractor bound to the given provider and model.
// A zero timeout falls back to DefaultInferenceTimeout.
func NewExtractor(provider providers.Provider, model string, temperature float64, timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultInferenceTimeout
	}
	return &Extractor{
		provider:    provider,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
	}
}

func (e *Extractor) query(ctx context.Context, field, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	response, err := e.provider.ExtractText(ctx, providers.Config{
		Model:       e.model,
		Temperature: e.temperature,
		Prompt:      prompt,
	})
	if err != nil {
		slog.Error("Inference request failed", "field", field, "model", e.model, "err", err)
		return ""
	}

	return strings.TrimSpace(response)
}

// Title extracts the document title in its original language.
func (e *Extractor) Title(ctx context.Context, segments []string) string {
	return e.query(ctx, models.FieldTitle, buildTitlePrompt(segments))
}

// Date extracts the most likely publication date. A non-empty targetPeriod
// steers the model toward dates in that range.
func (e *Extractor) Date(ctx context.Context, segments []string, targetPeriod string) string {
	return e.query(ctx, models.FieldPubDate, buildDatePrompt(segments, targetPeriod))
}

// Description extracts an English summary of the document, biased by any
// learned style preferences and examples.
func (e *Extractor) Description(ctx context.Context, segments []string, prefs models.UserPreferences) string {
	return e.query(ctx, models.FieldDescription, buildDescriptionPrompt(segments, prefs))
}

// VolumeIssue extracts volume and issue information.
func (e *Extractor) VolumeIssue(ctx context.Context, segments []string) string {
	return e.query(ctx, models.FieldVolumeIssue, buildVolumeIssuePrompt(segments))
}

// Chat answers a free-form operator question, optionally grounded in
// document text. Like the field extractions, failures never propagate:
// the error comes back as the reply text.
func (e *Extractor) Chat(ctx context.Context, message, docContext string) string {
	prompt := message
	if docContext != "" {
		prompt = fmt.Sprintf("Context: %s\n\nQuestion: %s", docContext, message)
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultChatTimeout)
	defer cancel()

	response, err := e.provider.ExtractText(ctx, providers.Config{
		Model:       e.model,
		Temperature: e.temperature,
		Prompt:      prompt,
	})
	if err != nil {
		slog.Error("Chat request failed", "model", e.model, "err", err)
		return fmt.Sprintf("Error processing request: %v", err)
	}

	return strings.TrimSpace(response)
}
