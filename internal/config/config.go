package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all runtime settings for the extraction pipeline. Values
// come from defaults, then an optional TOML file, then environment
// variable overrides, in that order.
type Config struct {
	Provider       string  `toml:"provider"`
	Model          string  `toml:"model"`
	OllamaURL      string  `toml:"ollama_url"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`

	FeedbackPath string `toml:"feedback_path"`
	UploadsDir   string `toml:"uploads_dir"`
	ExportsDir   string `toml:"exports_dir"`

	MaxSegments   int `toml:"max_segments"`
	MinSegmentLen int `toml:"min_segment_len"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Provider:       "ollama",
		Model:          "llama3.2",
		OllamaURL:      "http://localhost:11434",
		Temperature:    0.1,
		TimeoutSeconds: 60,
		FeedbackPath:   "data/feedback_memory.json",
		UploadsDir:     "uploads",
		ExportsDir:     "exports",
		MaxSegments:    10,
		MinSegmentLen:  20,
	}
}

// Load reads configuration from the given TOML file, if it exists, and
// applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("EXTRACTOR_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("EXTRACTOR_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		c.OllamaURL = v
	}
	if v := os.Getenv("EXTRACTOR_FEEDBACK_PATH"); v != "" {
		c.FeedbackPath = v
	}
	if v := os.Getenv("EXTRACTOR_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TimeoutSeconds = n
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case "ollama", "openai", "gemini":
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}
	if c.TimeoutSeconds <= 0 {
		return errors.New("timeout_seconds must be positive")
	}
	if c.MaxSegments <= 0 {
		return errors.New("max_segments must be positive")
	}
	return nil
}
