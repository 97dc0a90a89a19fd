package pipeline

import (
	"encoding/json"
	"regexp"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/extractor/internal/models"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validation bounds for extracted fields.
const (
	minTitleLength       = 3
	maxTitleLength       = 200
	minDescriptionLength = 10
	maxDescriptionLength = 1000
)

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// metadataSchema is the structural contract for an assembled record:
// title and description must be present as strings.
var metadataSchema = jsonschema.MustCompileString("metadata.json", `{
	"type": "object",
	"properties": {
		"title": {"type": "string"},
		"pub_date": {"type": "string"},
		"description": {"type": "string"},
		"volume_issue": {"type": "string"}
	},
	"required": ["title", "description"]
}`)

// Validate checks the extracted fields against structural and semantic
// constraints. All rules are evaluated; each violation appends one
// human-readable warning. The returned result always carries all four
// fields and is successful iff no warnings were recorded.
func Validate(title, pubDate, description, volumeIssue string) models.PipelineResult {
	warnings := []string{}

	titleLen := utf8.RuneCountInString(title)
	if title == "" || titleLen < minTitleLength {
		warnings = append(warnings, "Title missing or too short")
	} else if titleLen > maxTitleLength {
		warnings = append(warnings, "Title unusually long - may be incorrect")
	}

	if pubDate != "" && !yearRe.MatchString(pubDate) {
		warnings = append(warnings, "Date format unexpected - no 4-digit year found")
	}

	descriptionLen := utf8.RuneCountInString(description)
	if description == "" || descriptionLen < minDescriptionLength {
		warnings = append(warnings, "Description missing or too short")
	} else if descriptionLen > maxDescriptionLength {
		warnings = append(warnings, "Description unusually long - may include extra content")
	}

	data := models.MetadataRecord{
		Title:       title,
		PubDate:     pubDate,
		Description: description,
		VolumeIssue: volumeIssue,
	}

	if err := validateSchema(data); err != nil {
		warnings = append(warnings, "Schema validation error: "+err.Error())
	}

	return models.PipelineResult{
		Data:     data,
		Warnings: warnings,
		Success:  len(warnings) == 0,
		Stage:    models.StageValidation,
	}
}

// validateSchema runs the JSON Schema structural check over the record's
// wire form.
func validateSchema(record models.MetadataRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return metadataSchema.Validate(doc)
}
