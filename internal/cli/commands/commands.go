package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"narrtest/internal/cli"
	"narrtest/internal/config"
	"narrtest/internal/discovery"
	"narrtest/internal/evaluator"
	"narrtest/internal/execution"
	"narrtest/internal/parser"
	"narrtest/internal/report"
	"narrtest/internal/storage"
	"narrtest/internal/ui"
)

// ErrTestsFailed is returned when a run finished with failed or broken tests.
// The report has been printed already.
var ErrTestsFailed = errors.New("tests failed")

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Stats    *StatsCommand
	Failures *FailuresCommand
	Watch    *WatchCommand

	logger *zap.Logger
}

// NewCommands creates all commands with dependencies. Components that
// depend on loaded settings are built when a command runs.
func NewCommands(cfg *config.Config) *Commands {
	filter := discovery.NewFilter()
	jsonStorage := storage.NewJSONStorage(cfg)
	errorViewer := ui.NewErrorViewer(cfg, jsonStorage)

	c := &Commands{logger: zap.NewNop()}
	c.Run = NewRunCommand(cfg, filter, jsonStorage, c.Logger)
	c.List = NewListCommand(cfg, filter, jsonStorage)
	c.Stats = NewStatsCommand(cfg, jsonStorage)
	c.Failures = NewFailuresCommand(cfg, jsonStorage, errorViewer)
	c.Watch = NewWatchCommand(cfg, filter, c.Logger)
	return c
}

// Logger returns the logger set up for the current invocation
func (c *Commands) Logger() *zap.Logger {
	return c.logger
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().StringVarP(&flags.Project, "project", "C", config.DefaultProjectPath, "Project directory holding .narrtest.yaml and .env")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger, err := cli.NewLogger(flags.Verbose)
		if err != nil {
			return err
		}
		c.logger = logger

		// Update config with flags after parsing
		loaded, err := config.Load(flags.Project, flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		if flags.NoColor {
			color.NoColor = true
		}
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = c.logger.Sync()
	}

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run the tests embedded in documents and sources",
		Long: "Extract test cases from Markdown documents and source comments, run them and compare their output.\n\n" +
			"Go sessions start with \"fmt\" imported; other packages come from evaluator.imports in .narrtest.yaml\n" +
			"or from an import line in an earlier fragment.",
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of files to run at once")
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path where test detection starts when no paths are given")
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter files by name pattern (supports wildcards, e.g. 'guide*.md' or '*sql*')")
	runCmd.Flags().StringVarP(&flags.Evaluator, "evaluator", "e", "", "Evaluator to run test code with (go or sql)")
	runCmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Time limit for a single test case (0 means none)")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop starting files after the first unsuccessful one")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only files that failed in the last run")
	runCmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Hide the progress bar")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List discovered test files",
		Long:  "Scan and list test files and their test cases without running them",
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter files by name pattern (supports wildcards, e.g. 'guide*.md' or '*sql*')")
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path where test detection starts when no paths are given")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "Show every test case")
	rootCmd.AddCommand(listCmd)

	// Stats command
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics of the last run",
		RunE:  c.Stats.Execute,
	}
	rootCmd.AddCommand(statsCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View test failures interactively",
		Long:  "Display failures from the last run in an interactive viewer",
		RunE:  c.Failures.Execute,
	}
	rootCmd.AddCommand(failuresCmd)

	// Watch command
	watchCmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-run test files when they change",
		RunE:  c.Watch.Execute,
	}
	watchCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path where test detection starts when no paths are given")
	watchCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter files by name pattern")
	watchCmd.Flags().StringVarP(&flags.Evaluator, "evaluator", "e", "", "Evaluator to run test code with (go or sql)")
	watchCmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Time limit for a single test case (0 means none)")
	rootCmd.AddCommand(watchCmd)
}

// discover resolves the files to test from the arguments, or from the
// configured test path when there are none.
func discover(cfg *config.Config, filter *discovery.Filter, args []string) ([]string, error) {
	roots := args
	if len(roots) == 0 {
		roots = []string{cfg.GetTestPath()}
	}
	scanner := discovery.NewScanner(cfg.PathsToIgnore, cfg.Extensions)
	files, err := scanner.Resolve(roots)
	if err != nil {
		return nil, err
	}
	return filter.FilterByName(files, cfg.Flags.Filter), nil
}

// newParser builds a parser with the configured marker syntaxes
func newParser(cfg *config.Config) (*parser.Parser, error) {
	syntaxes := make(map[string]parser.Syntax, len(cfg.Syntaxes))
	for ext, name := range cfg.Syntaxes {
		syn, ok := parser.SyntaxByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown marker syntax %q for %s", name, ext)
		}
		syntaxes[ext] = syn
	}
	return parser.NewParser(cfg.MarkdownExtensions, syntaxes), nil
}

// newFactory builds the configured evaluator
func newFactory(cfg *config.Config, logger *zap.Logger) (evaluator.Factory, error) {
	return evaluator.New(evaluator.Options{
		Kind:      cfg.Evaluator,
		GoPath:    cfg.GoPath,
		GoImports: cfg.GoImports,
		SQLDriver: cfg.GetSQLDriver(),
		SQLDSN:    cfg.GetSQLDSN(),
	}, logger)
}

// newRunner builds the suite runner for the configured timeout
func newRunner(cfg *config.Config, logger *zap.Logger) *execution.Runner {
	return execution.NewRunner(execution.NewEngine(cfg.Timeout), logger)
}

// newReporter builds a report writer honoring the color settings
func newReporter(cfg *config.Config, w io.Writer) *report.Reporter {
	return report.NewReporter(w, !color.NoColor && !cfg.Flags.NoColor)
}
