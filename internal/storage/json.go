package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"narrtest/internal/domain"
)

// Save writes the record of a run to the configured JSON output file.
func (s *JSONStorage) Save(files []domain.FileResult, duration time.Duration, workers int) error {
	output := BuildOutput(files, duration, workers, time.Now())
	return s.SaveOutput(&output)
}

// BuildOutput summarizes file results into a run record. Details hold one
// entry per failed or broken case, in file and suite order.
func BuildOutput(files []domain.FileResult, duration time.Duration, workers int, now time.Time) domain.TestResultsOutput {
	var total domain.Summary
	var failedFiles int
	details := []domain.TestFailure{}
	for _, f := range files {
		s := f.Summary()
		total.Merge(s)
		if !s.Success() {
			failedFiles++
		}
		for _, r := range f.Results {
			if d, ok := domain.NewTestFailure(r); ok {
				details = append(details, d)
			}
		}
	}

	return domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:           uuid.NewString(),
			TotalFiles:      len(files),
			FailedFiles:     failedFiles,
			Passed:          total.Passed,
			Failed:          total.Failed,
			Errored:         total.Errored,
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Workers:         workers,
			Timestamp:       now.Format(time.RFC3339),
		},
		Details: details,
	}
}

// Load reads the last run record from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file.
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
