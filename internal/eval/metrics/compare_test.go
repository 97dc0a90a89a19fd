package metrics

import (
	"math"
	"testing"

	"github.com/lehigh-university-libraries/extractor/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want float64
	}{
		{
			name: "identical strings",
			s1:   "revista de historia",
			s2:   "revista de historia",
			want: 1.0,
		},
		{
			name: "both empty",
			s1:   "",
			s2:   "",
			want: 1.0,
		},
		{
			name: "one empty",
			s1:   "revista",
			s2:   "",
			want: 0.0,
		},
		{
			name: "single substitution",
			s1:   "june 1979",
			s2:   "june 1978",
			want: 1.0 - 1.0/9.0,
		},
		{
			name: "completely different",
			s1:   "abc",
			s2:   "xyz",
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := similarity(tt.s1, tt.s2); !almostEqual(got, tt.want) {
				t.Errorf("similarity(%q, %q) = %f, want %f", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1   string
		s2   string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"volumen", "volume", 1},
		{"número", "numero", 1},
	}
	for _, tt := range tests {
		if got := levenshteinDistance([]rune(tt.s1), []rune(tt.s2)); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
		}
	}
}

func TestCompareRecordNormalizesBeforeScoring(t *testing.T) {
	reference := models.MetadataRecord{
		Title:       "Revista de Historia",
		PubDate:     "June 1979",
		Description: "A history journal issue.",
		VolumeIssue: "Vol. 5, No. 2",
	}
	extracted := models.MetadataRecord{
		Title:       "  REVISTA   DE  HISTORIA ",
		PubDate:     "june 1979",
		Description: "A history journal issue.",
		VolumeIssue: "Vol. 5, No. 2",
	}

	comparison := CompareRecord("doc-1", reference, extracted)

	if comparison.Identifier != "doc-1" {
		t.Errorf("Identifier = %q", comparison.Identifier)
	}
	for field, score := range comparison.FieldScores {
		if !almostEqual(score, 1.0) {
			t.Errorf("Field %s: expected perfect score, got %f", field, score)
		}
	}
	if !almostEqual(comparison.OverallScore, 1.0) {
		t.Errorf("OverallScore = %f, want 1.0", comparison.OverallScore)
	}
}

func TestCompareRecordEmptyFieldsMatch(t *testing.T) {
	comparison := CompareRecord("doc-2", models.MetadataRecord{}, models.MetadataRecord{})
	if !almostEqual(comparison.OverallScore, 1.0) {
		t.Errorf("Expected two empty records to match, got %f", comparison.OverallScore)
	}
}

func TestSummarizeExcludesFailedDocuments(t *testing.T) {
	comparisons := []DocumentComparison{
		{
			Identifier: "doc-1",
			FieldScores: map[string]float64{
				models.FieldTitle:   1.0,
				models.FieldPubDate: 0.5,
			},
			OverallScore: 0.75,
		},
		{
			Identifier: "doc-2",
			FieldScores: map[string]float64{
				models.FieldTitle:   0.0,
				models.FieldPubDate: 0.5,
			},
			OverallScore: 0.25,
		},
		{
			Identifier: "doc-3",
			Error:      "pipeline error: boom",
		},
	}

	summary := Summarize(comparisons)

	if summary.Documents != 3 {
		t.Errorf("Documents = %d, want 3", summary.Documents)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
	if !almostEqual(summary.FieldAverages[models.FieldTitle], 0.5) {
		t.Errorf("Title average = %f, want 0.5", summary.FieldAverages[models.FieldTitle])
	}
	if !almostEqual(summary.OverallScore, 0.5) {
		t.Errorf("OverallScore = %f, want 0.5", summary.OverallScore)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	if summary.Documents != 0 || summary.OverallScore != 0 {
		t.Errorf("Unexpected summary for no comparisons: %+v", summary)
	}
}
