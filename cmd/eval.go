package cmd

import (
	"github.com/lehigh-university-libraries/extractor/internal/config"
	"github.com/lehigh-university-libraries/extractor/internal/evalcmd"
	"github.com/lehigh-university-libraries/extractor/internal/feedback"
	"github.com/lehigh-university-libraries/extractor/internal/models"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Extraction accuracy evaluation tools",
		Long: `Evaluation tools for measuring extraction accuracy against labeled
datasets. A dataset is a Parquet or JSONL file of documents with
operator-verified metadata; each record is replayed through the pipeline
and scored field by field.`,
	}

	cmd.AddCommand(newEvalRunCmd())

	return cmd
}

func newEvalRunCmd() *cobra.Command {
	var (
		datasetPath    string
		sampleSize     int
		concurrency    int
		usePreferences bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an evaluation against a labeled dataset",
		Example: `  # Evaluate against the full dataset
  extractor eval run --dataset data/labeled.parquet

  # Quick sample with learned preferences applied
  extractor eval run --dataset data/labeled.jsonl --sample-size 25 --use-preferences`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			pl, err := newPipeline(cfg)
			if err != nil {
				return err
			}

			prefs := models.UserPreferences{}
			if usePreferences {
				feedbackStore, err := feedback.NewStore(cfg.FeedbackPath)
				if err != nil {
					return err
				}
				prefs = feedbackStore.Preferences()
			}

			return evalcmd.ExecuteRun(cmd.Context(), pl, evalcmd.RunOptions{
				DatasetPath: datasetPath,
				Provider:    cfg.Provider,
				Model:       cfg.Model,
				SampleSize:  sampleSize,
				Concurrency: concurrency,
				Preferences: prefs,
			})
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to labeled dataset (.parquet or .jsonl)")
	cmd.Flags().IntVar(&sampleSize, "sample-size", 0, "Evaluate only the first N records (0 = all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 2, "Number of documents to process in parallel")
	cmd.Flags().BoolVar(&usePreferences, "use-preferences", false, "Inject the current learned preferences into prompts")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}
