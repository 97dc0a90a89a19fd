package pipeline

import (
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/extractor/internal/models"
)

func TestBuildTitlePromptUsesFirstThreeSegments(t *testing.T) {
	segments := []string{"first", "second", "third", "fourth"}

	prompt := buildTitlePrompt(segments)

	if !strings.Contains(prompt, "first\nsecond\nthird") {
		t.Error("Expected prompt to contain the first three segments joined by newlines")
	}
	if strings.Contains(prompt, "fourth") {
		t.Error("Expected prompt to exclude segments past the third")
	}
}

func TestBuildDatePrompt(t *testing.T) {
	segments := []string{"one", "two", "three", "four", "five", "six"}

	tests := []struct {
		name         string
		targetPeriod string
		expectHint   bool
	}{
		{name: "no target period", targetPeriod: "", expectHint: false},
		{name: "with target period", targetPeriod: "1977-78", expectHint: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := buildDatePrompt(segments, tt.targetPeriod)

			if strings.Contains(prompt, "six") {
				t.Error("Expected prompt to use only the first five segments")
			}

			hasHint := strings.Contains(prompt, "Look specifically for dates around 1977-78")
			if hasHint != tt.expectHint {
				t.Errorf("Expected hint=%v, prompt:\n%s", tt.expectHint, prompt)
			}
		})
	}
}

func TestBuildDescriptionPrompt(t *testing.T) {
	segments := []string{"segment one content", "segment two content"}

	tests := []struct {
		name     string
		prefs    models.UserPreferences
		contains []string
		excludes []string
	}{
		{
			name:     "no preferences",
			prefs:    models.UserPreferences{},
			contains: []string{"Provide the description in English"},
			excludes: []string{"User preferences:", "Examples of good descriptions:"},
		},
		{
			name: "style preference injected",
			prefs: models.UserPreferences{
				DescriptionStyle: "Keep descriptions brief and concise",
			},
			contains: []string{"User preferences: Keep descriptions brief and concise"},
			excludes: []string{"Examples of good descriptions:"},
		},
		{
			name: "examples injected",
			prefs: models.UserPreferences{
				DescriptionExamples: []string{"A short example.", "Another example."},
			},
			contains: []string{"Examples of good descriptions: A short example.; Another example."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := buildDescriptionPrompt(segments, tt.prefs)

			// Description prompts consume every segment.
			if !strings.Contains(prompt, "segment one content\nsegment two content") {
				t.Error("Expected prompt to contain all segments")
			}
			for _, want := range tt.contains {
				if !strings.Contains(prompt, want) {
					t.Errorf("Expected prompt to contain %q", want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(prompt, unwanted) {
					t.Errorf("Expected prompt not to contain %q", unwanted)
				}
			}
		})
	}
}

func TestBuildVolumeIssuePromptUsesFirstThreeSegments(t *testing.T) {
	segments := []string{"first", "second", "third", "fourth"}

	prompt := buildVolumeIssuePrompt(segments)

	if !strings.Contains(prompt, "first\nsecond\nthird") {
		t.Error("Expected prompt to contain the first three segments")
	}
	if strings.Contains(prompt, "fourth") {
		t.Error("Expected prompt to exclude segments past the third")
	}
}
