// Package evalcmd implements the evaluation run: it replays a labeled
// dataset through the extraction pipeline and reports per-field accuracy.
package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lehigh-university-libraries/extractor/internal/eval/dataset"
	"github.com/lehigh-university-libraries/extractor/internal/eval/metrics"
	"github.com/lehigh-university-libraries/extractor/internal/eval/results"
	"github.com/lehigh-university-libraries/extractor/internal/models"
	"github.com/lehigh-university-libraries/extractor/internal/pipeline"
)

// RunOptions configures one evaluation run.
type RunOptions struct {
	DatasetPath string
	Provider    string
	Model       string
	SampleSize  int
	Concurrency int
	Preferences models.UserPreferences
}

// ExecuteRun loads the dataset, runs every sampled record through the
// pipeline with bounded concurrency, scores the extractions against the
// ground truth, and writes a YAML report.
func ExecuteRun(ctx context.Context, pl *pipeline.Pipeline, opts RunOptions) error {
	slog.Info("Starting evaluation run", "dataset", opts.DatasetPath, "provider", opts.Provider, "model", opts.Model)

	loader := dataset.NewLoader(opts.DatasetPath)
	records, err := loader.LoadSample(opts.SampleSize)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("dataset %s contains no records", opts.DatasetPath)
	}

	slog.Info("Dataset loaded", "records", len(records))

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	// Process records with concurrency control
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	comparisons := make([]metrics.DocumentComparison, len(records))

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record dataset.PeriodicalRecord) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Processing record", "id", record.Identifier, "progress", fmt.Sprintf("%d/%d", idx+1, len(records)))

			comparisons[idx] = evaluateRecord(ctx, pl, record, opts.Preferences)
		}(i, record)
	}
	wg.Wait()

	summary := metrics.Summarize(comparisons)
	slog.Info("Evaluation complete",
		"documents", summary.Documents,
		"failed", summary.Failed,
		"overall_score", fmt.Sprintf("%.3f", summary.OverallScore))
	for _, field := range models.Fields {
		slog.Info("Field accuracy", "field", field, "score", fmt.Sprintf("%.3f", summary.FieldAverages[field]))
	}

	path, err := results.SaveToYAML(opts.Provider, opts.Model, opts.DatasetPath, opts.SampleSize, comparisons, summary)
	if err != nil {
		return err
	}

	slog.Info("Evaluation results saved", "path", path)
	return nil
}

func evaluateRecord(ctx context.Context, pl *pipeline.Pipeline, record dataset.PeriodicalRecord, prefs models.UserPreferences) metrics.DocumentComparison {
	result := pl.Process(ctx, record.RawText, prefs, record.TargetPeriod)

	comparison := metrics.CompareRecord(record.Identifier, record.Reference(), result.Data)
	if result.Stage != models.StageValidation {
		// The pipeline never reached validation, so there is nothing
		// meaningful to score.
		comparison.Error = fmt.Sprintf("pipeline stopped at %s stage: %v", result.Stage, result.Warnings)
	}
	return comparison
}
