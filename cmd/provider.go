package cmd

import (
	"fmt"
	"time"

	"github.com/lehigh-university-libraries/extractor/internal/config"
	"github.com/lehigh-university-libraries/extractor/internal/gemini"
	"github.com/lehigh-university-libraries/extractor/internal/ollama"
	"github.com/lehigh-university-libraries/extractor/internal/openai"
	"github.com/lehigh-university-libraries/extractor/internal/pipeline"
	"github.com/lehigh-university-libraries/extractor/internal/providers"
)

func newProvider(cfg config.Config) (providers.Provider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.New(cfg.OllamaURL), nil
	case "openai":
		return openai.New(), nil
	case "gemini":
		return gemini.New(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

func pipelineOptions(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		Model:            cfg.Model,
		Temperature:      cfg.Temperature,
		Timeout:          time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxSegments:      cfg.MaxSegments,
		MinSegmentLength: cfg.MinSegmentLen,
	}
}

func newPipeline(cfg config.Config) (*pipeline.Pipeline, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.New(provider, pipelineOptions(cfg)), nil
}
