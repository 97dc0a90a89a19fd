package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/extractor/internal/eval/metrics"
	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier   string             `yaml:"identifier"`
	OverallScore float64            `yaml:"overallscore"`
	FieldScores  map[string]float64 `yaml:"fieldscores"`
	Error        string             `yaml:"error,omitempty"`
}

// EvalSummary represents the aggregated section of the eval YAML
type EvalSummary struct {
	Documents     int                `yaml:"documents"`
	Failed        int                `yaml:"failed"`
	FieldAverages map[string]float64 `yaml:"fieldaverages"`
	OverallScore  float64            `yaml:"overallscore"`
}

// EvalSpec represents the complete evaluation report
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Summary EvalSummary  `yaml:"summary"`
	Results []EvalResult `yaml:"results"`
}

// SaveToYAML writes an evaluation report to a YAML file in the evals/
// directory and returns its path.
func SaveToYAML(provider, model, datasetPath string, sampleSize int, comparisons []metrics.DocumentComparison, summary metrics.Summary) (string, error) {
	if err := os.MkdirAll("evals", 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")

	spec := EvalSpec{
		Config: EvalConfig{
			Provider:    provider,
			Model:       model,
			DatasetPath: datasetPath,
			SampleSize:  sampleSize,
			Timestamp:   timestamp,
		},
		Summary: EvalSummary{
			Documents:     summary.Documents,
			Failed:        summary.Failed,
			FieldAverages: summary.FieldAverages,
			OverallScore:  summary.OverallScore,
		},
		Results: make([]EvalResult, 0, len(comparisons)),
	}

	for _, c := range comparisons {
		spec.Results = append(spec.Results, EvalResult{
			Identifier:   c.Identifier,
			OverallScore: c.OverallScore,
			FieldScores:  c.FieldScores,
			Error:        c.Error,
		})
	}

	filename := fmt.Sprintf("evals/%s-%s.yaml", model, timestamp)

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	return absPath, nil
}
