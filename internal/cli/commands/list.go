package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"narrtest/internal/config"
	"narrtest/internal/discovery"
	"narrtest/internal/domain"
	"narrtest/internal/storage"
	"narrtest/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config  *config.Config
	filter  *discovery.Filter
	storage storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:  cfg,
		filter:  filter,
		storage: st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	files, err := discover(lc.config, lc.filter, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	p, err := newParser(lc.config)
	if err != nil {
		return err
	}
	suites := make([]domain.Suite, len(files))
	for i, f := range files {
		suites[i] = p.ParseFile(f)
	}

	// Mark files that failed in the last run, if there is one
	failed := make(map[string]struct{})
	if last, err := lc.storage.Load(); err == nil {
		for _, f := range last.FailedFiles() {
			failed[f] = struct{}{}
		}
	}

	formatter := ui.NewFormatter(lc.config, cmd.OutOrStdout())
	formatter.PrintTestList(files, suites, lc.config.Flags.TestCases, failed)
	return nil
}
