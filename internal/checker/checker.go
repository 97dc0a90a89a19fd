// Package checker implements the interactive batch review loop: it walks
// a folder of plain-text documents, runs each through the extraction
// pipeline, shows the result alongside any remembered suggestions, and
// records operator corrections so the next document benefits from the
// refreshed preferences.
package checker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lehigh-university-libraries/extractor/internal/feedback"
	"github.com/lehigh-university-libraries/extractor/internal/models"
	"github.com/lehigh-university-libraries/extractor/internal/pipeline"
)

// fieldLabels maps field names to their display names, in display order.
var fieldLabels = []struct {
	Field string
	Label string
}{
	{models.FieldTitle, "Title"},
	{models.FieldPubDate, "Date"},
	{models.FieldDescription, "Description"},
	{models.FieldVolumeIssue, "Volume/Issue"},
}

// Result is one reviewed document in a batch run.
type Result struct {
	Filename   string                `json:"filename"`
	Path       string                `json:"file_path"`
	Metadata   models.MetadataRecord `json:"metadata"`
	Warnings   []string              `json:"warnings"`
	TextLength int                   `json:"text_length"`
}

// Checker drives the batch review session.
type Checker struct {
	pipeline *pipeline.Pipeline
	memory   *feedback.Store
	in       *bufio.Scanner
	out      io.Writer
	results  []Result
	eof      bool
}

// New returns a Checker reading operator input from in and writing to out.
func New(pl *pipeline.Pipeline, memory *feedback.Store, in io.Reader, out io.Writer) *Checker {
	return &Checker{
		pipeline: pl,
		memory:   memory,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run processes every .txt file under dir, prompting the operator after
// each one. targetPeriod steers date extraction; pass "" to prompt for it
// interactively.
func (c *Checker) Run(ctx context.Context, dir, targetPeriod string) error {
	files, err := findTextFiles(dir)
	if err != nil {
		return fmt.Errorf("scan documents folder: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .txt files found in %s", dir)
	}

	if targetPeriod == "" {
		targetPeriod = c.promptTargetPeriod()
	}

	fmt.Fprintf(c.out, "Found %d documents in %s\n", len(files), dir)
	if stats := c.memory.Stats(); stats.TotalCorrections > 0 {
		fmt.Fprintf(c.out, "Memory: %d corrections, %d patterns learned\n", stats.TotalCorrections, stats.PatternsLearned)
	}
	if targetPeriod != "" {
		fmt.Fprintf(c.out, "Target date range: %s\n", targetPeriod)
	}

	for i, path := range files {
		fmt.Fprintf(c.out, "\nProgress: %d/%d\n", i+1, len(files))

		result, err := c.processFile(ctx, path, targetPeriod)
		if err != nil {
			slog.Error("Unable to process document", "path", path, "err", err)
			continue
		}

		c.results = append(c.results, *result)
		c.renderResult(result)

		if !c.reviewLoop(result) {
			break
		}
	}

	c.renderSummary()
	return c.saveResults()
}

func findTextFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".txt") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (c *Checker) processFile(ctx context.Context, path, targetPeriod string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	// Each document gets a fresh preference snapshot so corrections from
	// the previous file apply immediately.
	prefs := c.memory.Preferences()
	pipelineResult := c.pipeline.Process(ctx, string(data), prefs, targetPeriod)

	return &Result{
		Filename:   filepath.Base(path),
		Path:       path,
		Metadata:   pipelineResult.Data,
		Warnings:   pipelineResult.Warnings,
		TextLength: len(data),
	}, nil
}

func (c *Checker) renderResult(result *Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(c.out)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(result.Filename)
	tw.AppendHeader(table.Row{"Field", "Value", "Suggestion"})

	for _, fl := range fieldLabels {
		value := result.Metadata.Get(fl.Field)
		suggestion, found := c.memory.GetSuggestion(fl.Field, value)
		if !found || suggestion == value {
			suggestion = ""
		}
		tw.AppendRow(table.Row{fl.Label, truncate(value, 80), truncate(suggestion, 80)})
	}
	tw.Render()

	for _, warning := range result.Warnings {
		fmt.Fprintf(c.out, "  warning: %s\n", warning)
	}
}

// reviewLoop prompts until the operator corrects a field, skips, or quits.
// It returns false when the operator chose to quit.
func (c *Checker) reviewLoop(result *Result) bool {
	for {
		fmt.Fprint(c.out, "\nCorrect a field, skip, or quit? (c/s/q): ")
		choice := c.readChoice()
		if c.eof {
			return false
		}
		switch choice {
		case "q":
			return false
		case "s":
			return true
		case "c":
			c.handleCorrection(result)
			return true
		default:
			fmt.Fprintln(c.out, "Invalid choice. Please enter 'c', 's', or 'q'")
		}
	}
}

func (c *Checker) handleCorrection(result *Result) {
	fmt.Fprintln(c.out, "\nWhich field would you like to correct?")
	for i, fl := range fieldLabels {
		fmt.Fprintf(c.out, "%d. %s: %s\n", i+1, fl.Label, truncate(result.Metadata.Get(fl.Field), 100))
	}

	fmt.Fprint(c.out, "\nEnter field number (1-4): ")
	choice := c.readLine()
	if len(choice) != 1 || choice[0] < '1' || choice[0] > '4' {
		fmt.Fprintln(c.out, "Invalid field number")
		return
	}
	fl := fieldLabels[choice[0]-'1']

	current := result.Metadata.Get(fl.Field)

	fmt.Fprintf(c.out, "\nCurrent %s: %s\n", fl.Label, current)
	fmt.Fprintf(c.out, "Enter correct %s (or press Enter to skip): ", fl.Label)
	corrected := c.readLine()
	if corrected == "" {
		fmt.Fprintln(c.out, "Skipped correction")
		return
	}

	result.Metadata.Set(fl.Field, corrected)

	note := "File: " + result.Filename
	if err := c.memory.AddCorrection(result.Filename, fl.Field, current, corrected, note); err != nil {
		slog.Error("Unable to record correction", "field", fl.Field, "err", err)
		return
	}

	fmt.Fprintf(c.out, "%s updated; future extractions will follow this correction\n", fl.Label)
}

func (c *Checker) promptTargetPeriod() string {
	for {
		fmt.Fprint(c.out, "Enter target date range (e.g., '1977-78', '1979', 'June 1979'), or press Enter for none: ")
		period := c.readLine()
		if period == "" || c.eof {
			return ""
		}

		fmt.Fprintf(c.out, "Target date range: %s. Is this correct? (y/n): ", period)
		if c.readChoice() == "y" {
			return period
		}
	}
}

func (c *Checker) renderSummary() {
	stats := c.memory.Stats()

	tw := table.NewWriter()
	tw.SetOutputMirror(c.out)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Processing Summary")
	tw.AppendRow(table.Row{"Files processed", len(c.results)})
	tw.AppendRow(table.Row{"Total corrections", stats.TotalCorrections})
	tw.AppendRow(table.Row{"Patterns learned", stats.PatternsLearned})
	if len(stats.FieldsCorrected) > 0 {
		tw.AppendRow(table.Row{"Fields corrected", strings.Join(stats.FieldsCorrected, ", ")})
	}
	tw.Render()
}

func (c *Checker) saveResults() error {
	if len(c.results) == 0 {
		return nil
	}

	filename := fmt.Sprintf("batch_results_%s.json", time.Now().Format("20060102_150405"))
	data, err := json.MarshalIndent(c.results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode batch results: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write batch results: %w", err)
	}

	fmt.Fprintf(c.out, "Results saved to %s\n", filename)
	return nil
}

// readLine returns the next trimmed input line verbatim. A closed input
// stream sets eof so the prompt loops can end the session cleanly.
func (c *Checker) readLine() string {
	if !c.in.Scan() {
		c.eof = true
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

// readChoice is readLine lowercased, for single-letter menu answers.
func (c *Checker) readChoice() string {
	return strings.ToLower(c.readLine())
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}
