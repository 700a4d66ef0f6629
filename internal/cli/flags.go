package cli

import (
	"time"

	"narrtest/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	Project    string
	Verbose    bool
	NoColor    bool
	Processors int
	Filter     string
	TestPath   string
	Evaluator  string
	Timeout    time.Duration
	FailFast   bool
	OnlyFailed bool
	NoProgress bool
	TestCases  bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors: f.Processors,
		Filter:     f.Filter,
		TestPath:   f.TestPath,
		Evaluator:  f.Evaluator,
		Timeout:    f.Timeout,
		FailFast:   f.FailFast,
		OnlyFailed: f.OnlyFailed,
		NoProgress: f.NoProgress,
		NoColor:    f.NoColor,
		Verbose:    f.Verbose,
		TestCases:  f.TestCases,
	}
}
