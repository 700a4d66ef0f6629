package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"narrtest/internal/config"
	"narrtest/internal/discovery"
	"narrtest/internal/execution"
	"narrtest/internal/storage"
	"narrtest/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config  *config.Config
	filter  *discovery.Filter
	storage storage.Storage
	logger  func() *zap.Logger
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	st storage.Storage,
	logger func() *zap.Logger,
) *RunCommand {
	return &RunCommand{
		config:  cfg,
		filter:  filter,
		storage: st,
		logger:  logger,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	logger := rc.logger()

	files, err := rc.files(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	p, err := newParser(rc.config)
	if err != nil {
		return err
	}
	factory, err := newFactory(rc.config, logger)
	if err != nil {
		return err
	}
	pool := execution.NewWorkerPool(rc.config, newRunner(rc.config, logger), factory, p, logger)
	if !rc.config.Flags.NoProgress {
		pool.SetProgress(ui.NewProgressBar(len(files)))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, duration, err := pool.Execute(ctx, files)

	// Reports follow the input order; a session error still shows what ran
	rep := newReporter(rc.config, cmd.OutOrStdout())
	total := execution.Report(rep, results, err == nil)
	if err != nil {
		return err
	}
	logger.Debug("run finished",
		zap.Int("files", len(results)),
		zap.Int("passed", total.Passed),
		zap.Int("failed", total.Failed),
		zap.Int("errored", total.Errored),
		zap.Duration("duration", duration))

	if err := rc.storage.Save(results, duration, rc.config.Processors); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}
	if !total.Success() {
		return ErrTestsFailed
	}
	return nil
}

// files returns the files to run: the failed files of the last run with
// --failed, the discovered files otherwise.
func (rc *RunCommand) files(args []string) ([]string, error) {
	if !rc.config.Flags.OnlyFailed {
		return discover(rc.config, rc.filter, args)
	}
	last, err := rc.storage.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load the last run: %w", err)
	}
	files := rc.filter.FilterByName(last.FailedFiles(), rc.config.Flags.Filter)
	if len(files) == 0 {
		color.Green("✓ No failed tests in the last run")
	}
	return files, nil
}
