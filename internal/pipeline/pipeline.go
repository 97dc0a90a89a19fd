// Package pipeline implements the adaptive metadata extraction pipeline:
// text segmentation, per-field prompt construction against an injected LLM
// provider, response validation, and a single orchestrated Process entry
// point that never fails outright - every defect below it degrades to
// warnings on a still-returned result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/extractor/internal/models"
	"github.com/lehigh-university-libraries/extractor/internal/providers"
)

// Pipeline sequences segmentation, the four field extractions, and
// validation. It holds no mutable state: preferences are passed into each
// Process call as an immutable snapshot, so concurrent requests are safe.
type Pipeline struct {
	segmenter Segmenter
	extractor *Extractor
}

// Options configures a Pipeline. Zero values fall back to the package
// defaults.
type Options struct {
	Model            string
	Temperature      float64
	Timeout          time.Duration
	MaxSegments      int
	MinSegmentLength int
}

// New returns a Pipeline backed by the given provider.
func New(provider providers.Provider, opts Options) *Pipeline {
	segmenter := NewSegmenter()
	if opts.MaxSegments > 0 {
		segmenter.MaxSegments = opts.MaxSegments
	}
	if opts.MinSegmentLength > 0 {
		segmenter.MinLength = opts.MinSegmentLength
	}

	return &Pipeline{
		segmenter: segmenter,
		extractor: NewExtractor(provider, opts.Model, opts.Temperature, opts.Timeout),
	}
}

// Process runs one document through the full pipeline. It is a pure
// function of (rawText, prefs, targetPeriod) and never panics to its
// caller: unexpected defects are reported as a pipeline-stage result with
// a single warning.
func (p *Pipeline) Process(ctx context.Context, rawText string, prefs models.UserPreferences, targetPeriod string) (result models.PipelineResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Pipeline processing failed", "panic", r)
			result = models.PipelineResult{
				Warnings: []string{fmt.Sprintf("Pipeline error: %v", r)},
				Success:  false,
				Stage:    models.StagePipeline,
			}
		}
	}()

	slog.Info("Preprocessing text", "length", len(rawText))
	segments := p.segmenter.Segment(rawText)
	if len(segments) == 0 {
		return models.PipelineResult{
			Warnings: []string{"No text segments found after preprocessing"},
			Success:  false,
			Stage:    models.StagePreprocessing,
		}
	}

	// The four extractions are independent; run them concurrently. Each
	// writes its own variable, so results match the sequential order. A
	// panic in one extraction goroutine would escape the deferred recover
	// above, so each goroutine recovers for itself and the first panic is
	// funneled back to this goroutine after the wait.
	slog.Info("Extracting metadata", "segments", len(segments))
	var title, pubDate, description, volumeIssue string
	var (
		wg       sync.WaitGroup
		panicMu  sync.Mutex
		panicVal any
	)
	extract := func(fn func()) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				panicMu.Lock()
				if panicVal == nil {
					panicVal = r
				}
				panicMu.Unlock()
			}
		}()
		fn()
	}
	wg.Add(4)
	go extract(func() { title = p.extractor.Title(ctx, segments) })
	go extract(func() { pubDate = p.extractor.Date(ctx, segments, targetPeriod) })
	go extract(func() { description = p.extractor.Description(ctx, segments, prefs) })
	go extract(func() { volumeIssue = p.extractor.VolumeIssue(ctx, segments) })
	wg.Wait()

	if panicVal != nil {
		slog.Error("Pipeline processing failed", "panic", panicVal)
		return models.PipelineResult{
			Warnings: []string{fmt.Sprintf("Pipeline error: %v", panicVal)},
			Success:  false,
			Stage:    models.StagePipeline,
		}
	}

	slog.Info("Validating metadata")
	result = Validate(title, pubDate, description, volumeIssue)
	if len(result.Warnings) > 0 {
		slog.Warn("Validation warnings", "warnings", result.Warnings)
	}

	return result
}

// Chat answers a free-form operator question through the same provider
// the field extractions use.
func (p *Pipeline) Chat(ctx context.Context, message, docContext string) string {
	return p.extractor.Chat(ctx, message, docContext)
}
