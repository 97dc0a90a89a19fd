// Package feedback persists operator corrections and derives extraction
// preferences from them. The backing file is a single JSON document; every
// load-mutate-save cycle runs under an exclusive file lock so concurrent
// correction submissions cannot lose updates.
package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/lehigh-university-libraries/extractor/internal/models"
)

const patternKeyLength = 50

// PatternKey normalizes an original extracted value into the key used to
// index learned corrections: lowercased, truncated to the first 50 runes.
// A blank value maps to the literal key "empty".
func PatternKey(value string) string {
	if value == "" {
		return "empty"
	}
	key := strings.ToLower(value)
	runes := []rune(key)
	if len(runes) > patternKeyLength {
		return string(runes[:patternKeyLength])
	}
	return key
}

// Store is the durable record of corrections, learned patterns, and
// inferred preferences.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore returns a Store backed by the JSON file at path, creating the
// parent directory if needed.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create feedback directory: %w", err)
		}
	}
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Load reads the persisted memory. Absent or unreadable storage is not an
// error: the empty memory shape comes back instead, and absent keys in an
// existing file default per key so older files stay readable.
func (s *Store) Load() *models.FeedbackMemory {
	mem := models.NewFeedbackMemory()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Unable to read feedback memory, starting fresh", "path", s.path, "err", err)
		}
		return mem
	}

	if err := json.Unmarshal(data, mem); err != nil {
		slog.Warn("Unable to parse feedback memory, starting fresh", "path", s.path, "err", err)
		return models.NewFeedbackMemory()
	}

	normalize(mem)
	return mem
}

// Save overwrites the backing file with the full memory and stamps
// last_updated.
func (s *Store) Save(mem *models.FeedbackMemory) error {
	mem.LastUpdated = time.Now()

	data, err := json.MarshalIndent(mem, "", "  ")
	if err != nil {
		return fmt.Errorf("encode feedback memory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write feedback memory: %w", err)
	}
	return nil
}

// AddCorrection records one operator correction: it appends to the
// correction log, upserts the field's pattern table, re-derives the
// affected preference from the corrected value, and persists the full
// memory synchronously. The whole cycle holds the exclusive store lock.
func (s *Store) AddCorrection(filename, field, original, corrected, context string) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire feedback lock: %w", err)
	}
	defer s.unlock()

	mem := s.Load()

	mem.Corrections = append(mem.Corrections, models.Correction{
		Filename:  filename,
		Field:     field,
		Original:  original,
		Corrected: corrected,
		Context:   context,
		Timestamp: time.Now(),
	})

	if mem.Patterns[field] == nil {
		mem.Patterns[field] = map[string]string{}
	}
	mem.Patterns[field][PatternKey(original)] = corrected

	InferPreferences(&mem.UserPreferences, field, corrected)

	if err := s.Save(mem); err != nil {
		return err
	}

	slog.Info("Correction learned", "field", field, "filename", filename)
	return nil
}

// GetSuggestion looks up a previously learned correction for the given
// field and extracted value.
func (s *Store) GetSuggestion(field, value string) (string, bool) {
	if err := s.lock.RLock(); err != nil {
		slog.Error("Unable to acquire feedback lock", "err", err)
		return "", false
	}
	defer s.unlock()

	patterns := s.Load().Patterns[field]
	if patterns == nil {
		return "", false
	}
	suggestion, ok := patterns[PatternKey(value)]
	return suggestion, ok
}

// Preferences returns a snapshot of the current inferred preferences for
// injection into the next pipeline run.
func (s *Store) Preferences() models.UserPreferences {
	if err := s.lock.RLock(); err != nil {
		slog.Error("Unable to acquire feedback lock", "err", err)
		return models.UserPreferences{DescriptionExamples: []string{}}
	}
	defer s.unlock()

	return s.Load().UserPreferences
}

// Stats summarizes the learned state of the store.
func (s *Store) Stats() models.FeedbackStats {
	if err := s.lock.RLock(); err != nil {
		slog.Error("Unable to acquire feedback lock", "err", err)
		return models.FeedbackStats{FieldsCorrected: []string{}}
	}
	defer s.unlock()

	mem := s.Load()

	seen := map[string]bool{}
	fields := []string{}
	for _, c := range mem.Corrections {
		if !seen[c.Field] {
			seen[c.Field] = true
			fields = append(fields, c.Field)
		}
	}

	patterns := 0
	for _, table := range mem.Patterns {
		patterns += len(table)
	}

	return models.FeedbackStats{
		TotalCorrections: len(mem.Corrections),
		FieldsCorrected:  fields,
		PatternsLearned:  patterns,
	}
}

func (s *Store) unlock() {
	if err := s.lock.Unlock(); err != nil {
		slog.Error("Unable to release feedback lock", "path", s.path, "err", err)
	}
}

// normalize fills in maps and slices a hand-edited or older file may have
// left null.
func normalize(mem *models.FeedbackMemory) {
	if mem.Corrections == nil {
		mem.Corrections = []models.Correction{}
	}
	if mem.Patterns == nil {
		mem.Patterns = map[string]map[string]string{}
	}
	if mem.UserPreferences.DescriptionExamples == nil {
		mem.UserPreferences.DescriptionExamples = []string{}
	}
	if mem.FineTuningPrompts == nil {
		mem.FineTuningPrompts = map[string]string{}
	}
}
