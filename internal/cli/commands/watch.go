package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"narrtest/internal/config"
	"narrtest/internal/discovery"
	"narrtest/internal/domain"
	"narrtest/internal/execution"
	"narrtest/internal/watch"
)

// WatchCommand handles the watch command
type WatchCommand struct {
	config *config.Config
	filter *discovery.Filter
	logger func() *zap.Logger
}

// NewWatchCommand creates a new WatchCommand
func NewWatchCommand(cfg *config.Config, filter *discovery.Filter, logger func() *zap.Logger) *WatchCommand {
	return &WatchCommand{
		config: cfg,
		filter: filter,
		logger: logger,
	}
}

// Execute runs every file once, then re-runs a file each time it is saved,
// until interrupted.
func (wc *WatchCommand) Execute(cmd *cobra.Command, args []string) error {
	logger := wc.logger()

	files, err := discover(wc.config, wc.filter, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No tests to watch")
		return nil
	}

	p, err := newParser(wc.config)
	if err != nil {
		return err
	}
	factory, err := newFactory(wc.config, logger)
	if err != nil {
		return err
	}
	pool := execution.NewWorkerPool(wc.config, newRunner(wc.config, logger), factory, p, logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	rep := newReporter(wc.config, out)
	runFile := func(ctx context.Context, path string) {
		res, err := pool.RunFile(ctx, path)
		if err != nil {
			if ctx.Err() == nil {
				color.Red("✗ %s: %v", path, err)
			}
			return
		}
		fmt.Fprintf(out, "\n%s\n", path)
		execution.Report(rep, []domain.FileResult{res}, true)
	}

	for _, f := range files {
		runFile(ctx, f)
	}

	w, err := watch.New(files, watch.DefaultDebounce, logger)
	if err != nil {
		return err
	}
	color.Cyan("Watching %d file(s), press Ctrl+C to stop", len(files))
	return w.Run(ctx, runFile)
}
