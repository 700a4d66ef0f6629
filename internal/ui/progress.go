package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"narrtest/internal/domain"
)

// ProgressBar creates and manages progress bars
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a new progress bar over a number of files
func NewProgressBar(files int) *ProgressBar {
	bar := progressbar.NewOptions(files,
		progressbar.OptionSetDescription(describe(domain.Summary{})),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Update sets the number of finished files and the case counts so far
func (p *ProgressBar) Update(completedFiles int, s domain.Summary) {
	p.bar.Set(completedFiles)
	p.bar.Describe(describe(s))
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.bar.Finish()
}

func describe(s domain.Summary) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", s.Passed) +
		" | " +
		color.RedString("failed: %d", s.Failed) +
		" | " +
		color.YellowString("errors: %d]", s.Errored)
}
