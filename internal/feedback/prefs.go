package feedback

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/extractor/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Preference instruction fragments injected into future prompts.
const (
	StyleBriefConcise          = "Keep descriptions brief and concise"
	StyleDetailedComprehensive = "Provide detailed comprehensive descriptions"
	TitleFormatUppercase       = "Prefer uppercase titles"
	TitleFormatTitleCase       = "Prefer title case"
	VolumeFormatLong           = "Use 'Volume X, Issue Y' format"
	VolumeFormatAbbreviated    = "Use 'Vol. X, No. Y' format"
)

// Length thresholds for description style inference.
const (
	briefDescriptionMax    = 50
	detailedDescriptionMin = 200
	maxDescriptionExamples = 5
)

var titleCaser = cases.Title(language.Und)

// InferPreferences applies the deterministic preference rules for one
// correction, updating prefs in place. Each rule derives the preference
// from the corrected value only, so the latest correction for a field
// always wins. Publication dates carry no inference rule yet.
func InferPreferences(prefs *models.UserPreferences, field, corrected string) {
	switch field {
	case models.FieldDescription:
		length := utf8.RuneCountInString(corrected)
		if length < briefDescriptionMax {
			prefs.DescriptionStyle = StyleBriefConcise
		} else if length > detailedDescriptionMin {
			prefs.DescriptionStyle = StyleDetailedComprehensive
		}
		appendExample(prefs, corrected)

	case models.FieldTitle:
		if isUppercase(corrected) {
			prefs.TitleFormat = TitleFormatUppercase
		} else if isTitleCase(corrected) {
			prefs.TitleFormat = TitleFormatTitleCase
		}

	case models.FieldVolumeIssue:
		if strings.Contains(corrected, "Volume") && strings.Contains(corrected, "Issue") {
			prefs.VolumeFormat = VolumeFormatLong
		} else if strings.Contains(corrected, "Vol.") && strings.Contains(corrected, "No.") {
			prefs.VolumeFormat = VolumeFormatAbbreviated
		}
	}
}

// appendExample keeps the five most recent distinct corrected
// descriptions, evicting the oldest first.
func appendExample(prefs *models.UserPreferences, example string) {
	for _, existing := range prefs.DescriptionExamples {
		if existing == example {
			return
		}
	}
	prefs.DescriptionExamples = append(prefs.DescriptionExamples, example)
	if len(prefs.DescriptionExamples) > maxDescriptionExamples {
		prefs.DescriptionExamples = prefs.DescriptionExamples[1:]
	}
}

// isUppercase reports whether s contains at least one cased rune and no
// lowercase runes.
func isUppercase(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}

// isTitleCase reports whether s already matches its canonical title-cased
// form. All-uppercase strings are handled by isUppercase first, so they
// never reach here in practice.
func isTitleCase(s string) bool {
	if !strings.ContainsFunc(s, unicode.IsLetter) {
		return false
	}
	return s == titleCaser.String(strings.ToLower(s))
}
