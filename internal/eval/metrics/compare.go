// Package metrics scores extracted metadata against operator-verified
// ground truth, one normalized similarity per field.
package metrics

import (
	"strings"

	"github.com/lehigh-university-libraries/extractor/internal/models"
)

// DocumentComparison holds the per-field and overall scores for one
// evaluated document.
type DocumentComparison struct {
	Identifier   string             `json:"identifier"`
	FieldScores  map[string]float64 `json:"field_scores"`
	OverallScore float64            `json:"overall_score"`
	Error        string             `json:"error,omitempty"`
}

// Summary aggregates the comparisons of an evaluation run.
type Summary struct {
	Documents     int                `json:"documents"`
	Failed        int                `json:"failed"`
	FieldAverages map[string]float64 `json:"field_averages"`
	OverallScore  float64            `json:"overall_score"`
}

// CompareRecord scores the extracted record against the reference, field
// by field. Scores are normalized Levenshtein similarity in [0, 1] over
// case-folded, whitespace-collapsed values; two empty values count as a
// perfect match.
func CompareRecord(identifier string, reference, extracted models.MetadataRecord) DocumentComparison {
	comparison := DocumentComparison{
		Identifier:  identifier,
		FieldScores: make(map[string]float64, len(models.Fields)),
	}

	var total float64
	for _, field := range models.Fields {
		score := similarity(normalize(reference.Get(field)), normalize(extracted.Get(field)))
		comparison.FieldScores[field] = score
		total += score
	}
	comparison.OverallScore = total / float64(len(models.Fields))

	return comparison
}

// Summarize averages comparisons into a run-level summary. Documents with
// an Error set count as failed and are excluded from the averages.
func Summarize(comparisons []DocumentComparison) Summary {
	summary := Summary{
		FieldAverages: make(map[string]float64, len(models.Fields)),
	}

	scored := 0
	for _, c := range comparisons {
		summary.Documents++
		if c.Error != "" {
			summary.Failed++
			continue
		}
		scored++
		for field, score := range c.FieldScores {
			summary.FieldAverages[field] += score
		}
		summary.OverallScore += c.OverallScore
	}

	if scored > 0 {
		for field := range summary.FieldAverages {
			summary.FieldAverages[field] /= float64(scored)
		}
		summary.OverallScore /= float64(scored)
	}

	return summary
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// similarity converts Levenshtein distance into a score between 0.0
// (nothing shared) and 1.0 (identical).
func similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	distance := levenshteinDistance(r1, r2)
	maxLen := len(r1)
	if len(r2) > maxLen {
		maxLen = len(r2)
	}

	return 1.0 - (float64(distance) / float64(maxLen))
}

// levenshteinDistance calculates the Levenshtein distance between two
// rune slices.
func levenshteinDistance(s1, s2 []rune) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	rows := len(s1) + 1
	cols := len(s2) + 1
	matrix := make([][]int, rows)
	for i := range matrix {
		matrix[i] = make([]int, cols)
	}

	for i := 0; i < rows; i++ {
		matrix[i][0] = i
	}
	for j := 0; j < cols; j++ {
		matrix[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			deletion := matrix[i-1][j] + 1
			insertion := matrix[i][j-1] + 1
			substitution := matrix[i-1][j-1] + cost

			minimum := deletion
			if insertion < minimum {
				minimum = insertion
			}
			if substitution < minimum {
				minimum = substitution
			}
			matrix[i][j] = minimum
		}
	}

	return matrix[rows-1][cols-1]
}
