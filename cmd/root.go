package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extractor",
		Short: "Periodical metadata extraction tool with feedback-driven fine-tuning",
		Long: `Extractor pulls bibliographic metadata (title, publication date, description,
volume/issue) out of digitized periodical text using LLM prompts, and learns
from operator corrections: every correction updates a durable feedback memory
that biases future extractions.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "extractor.toml", "Path to TOML config file")

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
