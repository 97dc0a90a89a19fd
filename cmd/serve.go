package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/extractor/internal/config"
	"github.com/lehigh-university-libraries/extractor/internal/feedback"
	"github.com/lehigh-university-libraries/extractor/internal/handlers"
	"github.com/lehigh-university-libraries/extractor/internal/ollama"
	"github.com/lehigh-university-libraries/extractor/internal/pipeline"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for document processing",
		Long: `Starts the extraction web API on the specified port.

Documents are submitted as plain text (inline JSON or .txt uploads), run
through the extraction pipeline, and collected into an exportable session.
Corrections submitted against extracted fields feed the learning loop.`,
		Example: `  # Start server on default port 8888
  extractor serve

  # Start server on custom port
  extractor serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			provider, err := newProvider(cfg)
			if err != nil {
				return err
			}
			pl := pipeline.New(provider, pipelineOptions(cfg))

			// Surface a dead inference backend at startup instead of on
			// the first request.
			if o, ok := provider.(*ollama.Ollama); ok && !o.Healthy(cmd.Context()) {
				slog.Warn("Ollama service unreachable, extractions will return empty fields", "url", cfg.OllamaURL)
			}

			feedbackStore, err := feedback.NewStore(cfg.FeedbackPath)
			if err != nil {
				return err
			}

			handler := handlers.New(pl, feedbackStore, cfg.UploadsDir, cfg.ExportsDir)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/documents", handler.HandleDocuments)
			mux.HandleFunc("/api/documents/clear", handler.HandleClear)
			mux.HandleFunc("/api/export", handler.HandleExport)
			mux.HandleFunc("/api/corrections", handler.HandleCorrections)
			mux.HandleFunc("/api/chat", handler.HandleChat)
			mux.HandleFunc("/api/suggestions", handler.HandleSuggestions)
			mux.HandleFunc("/api/feedback/stats", handler.HandleFeedbackStats)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Extractor API available", "addr", addr, "provider", cfg.Provider, "model", cfg.Model)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
