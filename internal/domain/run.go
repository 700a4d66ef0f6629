package domain

import "time"

// FileResult is the outcome of running one source file
type FileResult struct {
	Path     string        // Path to the file that was run
	Suite    Suite         // Cases extracted from the file
	Results  []Result      // One result per case, in suite order
	Duration time.Duration // Time taken to run the suite
}

// Summary counts the file's results.
func (f FileResult) Summary() Summary {
	return Summarize(f.Results)
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	TotalFiles      int     `json:"total_files"`
	FailedFiles     int     `json:"failed_files"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	Errored         int     `json:"errored"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestFailure   `json:"details"`
}

// FailedFiles returns the distinct files that have failures, in record order.
func (o *TestResultsOutput) FailedFiles() []string {
	seen := make(map[string]bool)
	var files []string
	for _, d := range o.Details {
		if !seen[d.File] {
			seen[d.File] = true
			files = append(files, d.File)
		}
	}
	return files
}
