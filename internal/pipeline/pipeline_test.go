package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/extractor/internal/models"
	"github.com/lehigh-university-libraries/extractor/internal/providers"
)

// stubProvider answers prompts by field, keyed on the prompt's trailing
// label line.
type stubProvider struct {
	title       string
	date        string
	description string
	volumeIssue string
	err         error
}

func (s *stubProvider) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	if s.err != nil {
		return "", s.err
	}

	switch {
	case strings.HasSuffix(config.Prompt, "Title:"):
		return s.title, nil
	case strings.HasSuffix(config.Prompt, "Date:"):
		return s.date, nil
	case strings.HasSuffix(config.Prompt, "Description:"):
		return s.description, nil
	case strings.HasSuffix(config.Prompt, "Volume/Issue:"):
		return s.volumeIssue, nil
	}
	return "", errors.New("unrecognized prompt")
}

const sampleText = "Revista de Historia Latinoamericana. Volumen 5, Numero 2, junio de 1979. Este numero examina la historia politica de la region durante la decada de 1970."

func TestProcessSuccess(t *testing.T) {
	provider := &stubProvider{
		title:       "Revista de Historia Latinoamericana",
		date:        "June 1979",
		description: "An issue examining the political history of Latin America during the 1970s.",
		volumeIssue: "Vol. 5, No. 2",
	}
	pl := New(provider, Options{Model: "llama3.2"})

	result := pl.Process(context.Background(), sampleText, models.UserPreferences{}, "")

	if !result.Success {
		t.Fatalf("Expected success, got warnings: %v", result.Warnings)
	}
	if result.Stage != models.StageValidation {
		t.Errorf("Expected stage validation, got %s", result.Stage)
	}
	if result.Data.Title != provider.title {
		t.Errorf("Expected title %q, got %q", provider.title, result.Data.Title)
	}
	if result.Data.VolumeIssue != provider.volumeIssue {
		t.Errorf("Expected volume/issue %q, got %q", provider.volumeIssue, result.Data.VolumeIssue)
	}
}

func TestProcessEmptyTextShortCircuits(t *testing.T) {
	pl := New(&stubProvider{}, Options{Model: "llama3.2"})

	result := pl.Process(context.Background(), "", models.UserPreferences{}, "")

	if result.Success {
		t.Error("Expected failure for empty input")
	}
	if result.Stage != models.StagePreprocessing {
		t.Errorf("Expected stage preprocessing, got %s", result.Stage)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != "No text segments found after preprocessing" {
		t.Errorf("Unexpected warnings: %v", result.Warnings)
	}
}

func TestProcessInferenceFailureDegradesToWarnings(t *testing.T) {
	// A dead inference service yields empty fields, which surface as
	// validation warnings rather than an error.
	pl := New(&stubProvider{err: errors.New("connection refused")}, Options{Model: "llama3.2"})

	result := pl.Process(context.Background(), sampleText, models.UserPreferences{}, "")

	if result.Success {
		t.Error("Expected failure when every extraction comes back empty")
	}
	if result.Stage != models.StageValidation {
		t.Errorf("Expected stage validation, got %s", result.Stage)
	}
	if result.Data.Title != "" || result.Data.Description != "" {
		t.Errorf("Expected empty fields, got %+v", result.Data)
	}

	warnings := strings.Join(result.Warnings, "; ")
	if !strings.Contains(warnings, "Title missing or too short") {
		t.Errorf("Expected title warning, got %v", result.Warnings)
	}
	if !strings.Contains(warnings, "Description missing or too short") {
		t.Errorf("Expected description warning, got %v", result.Warnings)
	}
}

// panickingProvider simulates a Provider implementation that blows up
// mid-extraction rather than returning an error.
type panickingProvider struct{}

func (panickingProvider) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	panic("provider blew up")
}

func TestProcessRecoversProviderPanic(t *testing.T) {
	pl := New(panickingProvider{}, Options{Model: "llama3.2"})

	result := pl.Process(context.Background(), sampleText, models.UserPreferences{}, "")

	if result.Success {
		t.Error("Expected failure when the provider panics")
	}
	if result.Stage != models.StagePipeline {
		t.Errorf("Expected stage pipeline, got %s", result.Stage)
	}
	if len(result.Warnings) != 1 || !strings.HasPrefix(result.Warnings[0], "Pipeline error:") {
		t.Errorf("Unexpected warnings: %v", result.Warnings)
	}
}

func TestProcessPassesTargetPeriodAndPreferences(t *testing.T) {
	var datePrompt, descriptionPrompt string

	provider := &promptRecorder{prompts: map[string]*string{
		"Date:":        &datePrompt,
		"Description:": &descriptionPrompt,
	}}
	pl := New(provider, Options{Model: "llama3.2"})

	prefs := models.UserPreferences{
		DescriptionStyle:    "Keep descriptions brief and concise",
		DescriptionExamples: []string{"A short example."},
	}
	pl.Process(context.Background(), sampleText, prefs, "1979")

	if !strings.Contains(datePrompt, "dates around 1979") {
		t.Error("Expected the date prompt to carry the target period hint")
	}
	if !strings.Contains(descriptionPrompt, "Keep descriptions brief and concise") {
		t.Error("Expected the description prompt to carry the style preference")
	}
	if !strings.Contains(descriptionPrompt, "A short example.") {
		t.Error("Expected the description prompt to carry the examples")
	}
}

// chatCapture records the last prompt and replies with a canned answer.
type chatCapture struct {
	prompt string
	reply  string
	err    error
}

func (c *chatCapture) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	c.prompt = config.Prompt
	return c.reply, c.err
}

func TestChatBuildsContextPrompt(t *testing.T) {
	provider := &chatCapture{reply: "It covers mid-1979."}
	pl := New(provider, Options{Model: "llama3.2"})

	got := pl.Chat(context.Background(), "What period does this cover?", "Revista de Historia, junio de 1979.")
	if got != "It covers mid-1979." {
		t.Errorf("Chat reply = %q", got)
	}
	want := "Context: Revista de Historia, junio de 1979.\n\nQuestion: What period does this cover?"
	if provider.prompt != want {
		t.Errorf("Prompt = %q, want %q", provider.prompt, want)
	}

	pl.Chat(context.Background(), "Hello", "")
	if provider.prompt != "Hello" {
		t.Errorf("Expected a bare message without context framing, got %q", provider.prompt)
	}
}

func TestChatDegradesErrorToReplyText(t *testing.T) {
	provider := &chatCapture{err: errors.New("connection refused")}
	pl := New(provider, Options{Model: "llama3.2"})

	got := pl.Chat(context.Background(), "Hello", "")
	if !strings.HasPrefix(got, "Error processing request:") {
		t.Errorf("Expected degraded error reply, got %q", got)
	}
}

// promptRecorder captures the prompt sent for each field label.
type promptRecorder struct {
	prompts map[string]*string
}

func (p *promptRecorder) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	for suffix, target := range p.prompts {
		if strings.HasSuffix(config.Prompt, suffix) {
			*target = config.Prompt
		}
	}
	return "", nil
}
