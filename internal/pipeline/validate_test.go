package pipeline

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	goodTitle := "Revista de Historia"
	goodDescription := "A monthly periodical covering Latin American history."

	tests := []struct {
		name        string
		title       string
		pubDate     string
		description string
		volumeIssue string
		warnings    []string
		success     bool
	}{
		{
			name:        "clean record passes",
			title:       goodTitle,
			pubDate:     "June 1979",
			description: goodDescription,
			volumeIssue: "Vol. 5, No. 2",
			warnings:    nil,
			success:     true,
		},
		{
			name:        "short title warns",
			title:       "AB",
			pubDate:     "June 1979",
			description: goodDescription,
			warnings:    []string{"Title missing or too short"},
		},
		{
			name:        "missing title warns",
			title:       "",
			pubDate:     "June 1979",
			description: goodDescription,
			warnings:    []string{"Title missing or too short"},
		},
		{
			name:        "overlong title warns",
			title:       strings.Repeat("t", 250),
			pubDate:     "June 1979",
			description: goodDescription,
			warnings:    []string{"Title unusually long - may be incorrect"},
		},
		{
			name:        "date without year warns",
			title:       goodTitle,
			pubDate:     "no year here",
			description: goodDescription,
			warnings:    []string{"Date format unexpected - no 4-digit year found"},
		},
		{
			name:        "empty date is not warned",
			title:       goodTitle,
			pubDate:     "",
			description: goodDescription,
			warnings:    nil,
			success:     true,
		},
		{
			name:        "missing description warns",
			title:       goodTitle,
			pubDate:     "June 1979",
			description: "",
			warnings:    []string{"Description missing or too short"},
		},
		{
			name:        "description of exactly ten characters passes",
			title:       goodTitle,
			pubDate:     "June 1979",
			description: "ten chars.",
			warnings:    nil,
			success:     true,
		},
		{
			name:        "overlong description warns",
			title:       goodTitle,
			pubDate:     "June 1979",
			description: strings.Repeat("d", 1200),
			warnings:    []string{"Description unusually long - may include extra content"},
		},
		{
			name:        "multiple violations all warn",
			title:       "",
			pubDate:     "sometime",
			description: "",
			warnings: []string{
				"Title missing or too short",
				"Date format unexpected - no 4-digit year found",
				"Description missing or too short",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.title, tt.pubDate, tt.description, tt.volumeIssue)

			if len(result.Warnings) != len(tt.warnings) {
				t.Fatalf("Expected %d warnings, got %d: %v", len(tt.warnings), len(result.Warnings), result.Warnings)
			}
			for i := range tt.warnings {
				if result.Warnings[i] != tt.warnings[i] {
					t.Errorf("Warning %d: expected %q, got %q", i, tt.warnings[i], result.Warnings[i])
				}
			}

			if result.Success != tt.success {
				t.Errorf("Expected success=%v, got %v", tt.success, result.Success)
			}
			if result.Stage != "validation" {
				t.Errorf("Expected stage validation, got %s", result.Stage)
			}
			if result.Data.Title != tt.title || result.Data.PubDate != tt.pubDate ||
				result.Data.Description != tt.description || result.Data.VolumeIssue != tt.volumeIssue {
				t.Errorf("Result data does not carry the validated fields: %+v", result.Data)
			}
		})
	}
}

func TestValidateAcceptsYearInsideDate(t *testing.T) {
	tests := []struct {
		date string
		warn bool
	}{
		{"June 1979", false},
		{"marzo de 1978", false},
		{"2024-01-15", false},
		{"June 79", true},
		{"18th century", true},
		{"21000 BC", true},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			result := Validate("Revista de Historia", tt.date, "A monthly periodical covering history.", "")
			hasDateWarning := false
			for _, w := range result.Warnings {
				if strings.Contains(w, "no 4-digit year") {
					hasDateWarning = true
				}
			}
			if hasDateWarning != tt.warn {
				t.Errorf("Date %q: expected warning=%v, got warnings %v", tt.date, tt.warn, result.Warnings)
			}
		})
	}
}
