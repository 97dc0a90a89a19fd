package pipeline

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Segmentation defaults, matching the limits the rest of the pipeline
// was tuned against.
const (
	DefaultMaxSegments      = 10
	DefaultMinSegmentLength = 20
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Strips scanner artifacts while keeping letters and digits across
	// scripts, since source documents may be Spanish or Portuguese.
	artifactRe = regexp.MustCompile(`[^\p{L}\p{N}_\s.,;:!?\-()]`)
	sentenceRe = regexp.MustCompile(`[.!?]+`)
)

// Segmenter normalizes raw document text into a bounded, ordered list of
// cleaned passages for use as LLM input context.
type Segmenter struct {
	MaxSegments int
	MinLength   int
}

// NewSegmenter returns a Segmenter with the default limits.
func NewSegmenter() Segmenter {
	return Segmenter{
		MaxSegments: DefaultMaxSegments,
		MinLength:   DefaultMinSegmentLength,
	}
}

// Segment cleans whitespace and scanner artifacts from raw text and splits
// it into passages longer than MinLength runes, capped at MaxSegments in
// document order. Paragraph splitting happens after whitespace collapsing,
// so it is best-effort; when it yields nothing the text is re-split on
// sentence punctuation. Segment never panics: any processing failure falls
// back to a single passage holding the first 1000 runes of the untouched
// input.
func (s Segmenter) Segment(raw string) (segments []string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("text preprocessing failed", "panic", r)
			segments = []string{truncateRunes(raw, 1000)}
		}
	}()

	text := strings.ReplaceAll(strings.TrimSpace(raw), "\n\n", "\n")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = artifactRe.ReplaceAllString(text, "")

	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) > s.MinLength {
			segments = append(segments, p)
		}
	}

	// No usable paragraphs, fall back to sentence boundaries.
	if len(segments) == 0 {
		for _, sentence := range sentenceRe.Split(text, -1) {
			sentence = strings.TrimSpace(sentence)
			if utf8.RuneCountInString(sentence) > s.MinLength {
				segments = append(segments, sentence)
			}
		}
	}

	if len(segments) > s.MaxSegments {
		segments = segments[:s.MaxSegments]
	}

	return segments
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
