package cmd

import (
	"os"

	"github.com/lehigh-university-libraries/extractor/internal/checker"
	"github.com/lehigh-university-libraries/extractor/internal/config"
	"github.com/lehigh-university-libraries/extractor/internal/feedback"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var targetPeriod string

	cmd := &cobra.Command{
		Use:   "check [folder]",
		Short: "Interactively review a folder of documents",
		Long: `Processes every .txt document in a folder through the extraction
pipeline and walks through the results one document at a time. Corrections
entered during review are stored in feedback memory and applied to every
following document.`,
		Example: `  # Review the documents in data/raw
  extractor check data/raw

  # Steer date extraction toward a known period
  extractor check data/raw --target-period "1977-78"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := "data/raw"
			if len(args) > 0 {
				folder = args[0]
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			pl, err := newPipeline(cfg)
			if err != nil {
				return err
			}

			feedbackStore, err := feedback.NewStore(cfg.FeedbackPath)
			if err != nil {
				return err
			}

			c := checker.New(pl, feedbackStore, os.Stdin, os.Stdout)
			return c.Run(cmd.Context(), folder, targetPeriod)
		},
	}

	cmd.Flags().StringVar(&targetPeriod, "target-period", "", "Date range to steer date extraction toward (e.g. '1977-78')")

	return cmd
}
