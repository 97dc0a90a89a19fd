package pipeline

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/extractor/internal/models"
)

// Segment prefixes used per field. Titles and volume statements sit at the
// top of a periodical, dates show up in mastheads a little deeper, and
// descriptions need the whole document.
const (
	titleSegmentCount  = 3
	dateSegmentCount   = 5
	volumeSegmentCount = 3
)

func joinSegments(segments []string, limit int) string {
	if limit > 0 && len(segments) > limit {
		segments = segments[:limit]
	}
	return strings.Join(segments, "\n")
}

func buildTitlePrompt(segments []string) string {
	text := joinSegments(segments, titleSegmentCount)
	return fmt.Sprintf(`You are a multilingual metadata bot that understands ALL languages.
From the following text segment, extract ONLY the document's title.
The text may be in Spanish, Portuguese, English, or any other language.
Return just the title in its original language, nothing else. If uncertain, return blank.

Text:
%s

Title:`, text)
}

func buildDatePrompt(segments []string, targetPeriod string) string {
	text := joinSegments(segments, dateSegmentCount)

	basePrompt := "You are a multilingual metadata bot that understands ALL languages.\n" +
		"From the following text, find the most likely publication date.\n" +
		"The text may be in Spanish (e.g., 'junio 1979', 'marzo de 1978'), Portuguese, English, or any other language."

	if targetPeriod != "" {
		basePrompt += fmt.Sprintf("\n\nIMPORTANT: Look specifically for dates around %s. This document should contain dates from this time period.", targetPeriod)
	}

	return fmt.Sprintf(`%s
Return the date in a clear format (e.g., 'June 1979', 'March 1978'). If no date is present, return blank.

Text:
%s

Date:`, basePrompt, text)
}

func buildDescriptionPrompt(segments []string, prefs models.UserPreferences) string {
	text := joinSegments(segments, 0)

	basePrompt := "You are a multilingual metadata bot that understands ALL languages.\n" +
		"Extract a brief description that summarizes the entire document.\n" +
		"The text may be in Spanish, Portuguese, English, or any other language.\n" +
		"Provide the description in English for consistency."

	if prefs.DescriptionStyle != "" {
		basePrompt += fmt.Sprintf("\n\nUser preferences: %s", prefs.DescriptionStyle)
	}

	if len(prefs.DescriptionExamples) > 0 {
		basePrompt += fmt.Sprintf("\n\nExamples of good descriptions: %s", strings.Join(prefs.DescriptionExamples, "; "))
	}

	return fmt.Sprintf(`%s

Text:
%s

Description:`, basePrompt, text)
}

func buildVolumeIssuePrompt(segments []string) string {
	text := joinSegments(segments, volumeSegmentCount)
	return fmt.Sprintf(`You are a multilingual metadata bot that understands ALL languages.
From the text below, extract volume and issue information.
The text may be in Spanish (e.g., "Volumen 5, Número 2", "Tomo 12"), Portuguese (e.g., "Volume 5, Número 2"), English (e.g., "Vol. 5, No. 2"), or any other language.
Return the volume/issue info in a clear format (e.g., "Vol. 5, No. 2"). If none found, return blank.

Text:
%s

Volume/Issue:`, text)
}
