package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"narrtest/internal/config"
	"narrtest/internal/domain"
	"narrtest/internal/report"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer

	cyan   *color.Color
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	white  *color.Color
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(cfg *config.Config, out io.Writer) *Formatter {
	return &Formatter{
		config: cfg,
		out:    out,
		cyan:   color.New(color.FgCyan),
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		white:  color.New(color.FgWhite),
	}
}

// DisableColor turns off colored output
func (f *Formatter) DisableColor() {
	for _, c := range []*color.Color{f.cyan, f.green, f.red, f.yellow, f.white} {
		c.DisableColor()
	}
}

// PrintMetaStats displays the meta statistics of a stored run
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) {
	meta := output.Meta
	w := f.out

	// Print header
	fmt.Fprint(w, "\n")
	f.cyan.Fprintln(w, "╔═══════════════════════════════════════════════════════════════╗")
	f.cyan.Fprintln(w, "║                    Test Execution Statistics                  ║")
	f.cyan.Fprintln(w, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Total Files", fmt.Sprint(meta.TotalFiles), f.white},
		{"Failed Files", fmt.Sprint(meta.FailedFiles), f.red},
		{"Tests Passed", fmt.Sprint(meta.Passed), f.green},
		{"Tests Failed", fmt.Sprint(meta.Failed), f.red},
		{"Errors", fmt.Sprint(meta.Errored), f.yellow},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), f.white},
		{"Workers", fmt.Sprint(meta.Workers), f.white},
		{"Timestamp", meta.Timestamp, f.white},
		{"Run ID", meta.RunID, f.white},
	}

	fmt.Fprintln(w, "┌─────────────────────────────────┬──────────────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(w, "│ %-31s │ ", row.label)
		row.c.Fprintf(w, "%-36s", row.value)
		fmt.Fprintln(w, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(w, "├─────────────────────────────────┼──────────────────────────────────────┤")
		}
	}
	fmt.Fprintln(w, "└─────────────────────────────────┴──────────────────────────────────────┘")

	// Print summary line
	fmt.Fprintln(w)
	if meta.Failed == 0 && meta.Errored == 0 {
		f.green.Fprintln(w, "✓ All tests passed!")
		return
	}
	f.red.Fprintf(w, "✗ %d file(s) with %d failed test(s) and %d error(s)\n", meta.FailedFiles, meta.Failed, meta.Errored)
	fmt.Fprintln(w)
	f.printFailedTestsTree(output.Details)
}

// TreeNode represents a node in the file tree structure
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Failures []domain.TestFailure
	IsFile   bool
}

// printFailedTestsTree prints the failures grouped by directory and file
func (f *Formatter) printFailedTestsTree(failures []domain.TestFailure) {
	if len(failures) == 0 {
		return
	}

	root := &TreeNode{Children: make(map[string]*TreeNode)}
	for _, failure := range failures {
		path := f.relative(failure.File)
		parts := strings.Split(filepath.ToSlash(path), "/")
		current := root
		for i, part := range parts {
			if part == "" || part == "." {
				continue
			}
			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
					IsFile:   i == len(parts)-1,
				}
			}
			current = current.Children[part]
		}
		current.Failures = append(current.Failures, failure)
	}

	f.printTreeNode(root, "")
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string) {
	// Sort children for consistent output
	keys := make([]string, 0, len(node.Children))
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		last := i == len(keys)-1
		connector, indent := "├── ", "│   "
		if last {
			connector, indent = "└── ", "    "
		}

		if child.IsFile {
			f.yellow.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
			for j, failure := range child.Failures {
				caseConnector := "├── "
				if j == len(child.Failures)-1 {
					caseConnector = "└── "
				}
				f.red.Fprintf(f.out, "%s%s%s\n", prefix+indent, caseConnector, describeFailure(failure))
			}
		} else {
			f.cyan.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
		}
		f.printTreeNode(child, prefix+indent)
	}
}

// describeFailure is the one-line label of a stored failure
func describeFailure(failure domain.TestFailure) string {
	label := fmt.Sprintf("line %d: %s", failure.Line, failure.Kind)
	if failure.Kind == domain.KindError && failure.Message != "" {
		label += " (" + failure.Message + ")"
	}
	if failure.Resolved {
		label += " [resolved]"
	}
	return label
}

// PrintTestList prints the test files with their case counts. With
// showCases every case is described as well. Files in failedPaths are
// marked with [F] (from the last run).
func (f *Formatter) PrintTestList(files []string, suites []domain.Suite, showCases bool, failedPaths map[string]struct{}) {
	f.green.Fprintf(f.out, "Found %d test file(s):\n", len(files))
	fmt.Fprintln(f.out)

	for i, file := range files {
		suite := suites[i]
		failMarker := ""
		if _, ok := failedPaths[file]; ok {
			failMarker = " " + f.red.Sprint("[F]")
		}

		connector, indent := "├── ", "│   "
		if i == len(files)-1 {
			connector, indent = "└── ", "    "
		}
		tests := len(suite.Tests())
		broken := len(suite) - tests
		counts := fmt.Sprintf("(%d test(s)", tests)
		if broken > 0 {
			counts += fmt.Sprintf(", %d broken", broken)
		}
		counts += ")"
		f.cyan.Fprintf(f.out, "%s%s", connector, f.relative(file))
		fmt.Fprintf(f.out, " %s%s\n", counts, failMarker)

		if !showCases {
			continue
		}
		for _, c := range suite {
			for _, line := range strings.Split(strings.TrimRight(report.Describe(c), "\n"), "\n") {
				fmt.Fprintf(f.out, "%s    %s\n", indent, line)
			}
		}
		if i < len(files)-1 {
			fmt.Fprintln(f.out, strings.TrimRight(indent, " "))
		}
	}
}

// relative returns path relative to the project for cleaner display
func (f *Formatter) relative(path string) string {
	rel, err := filepath.Rel(f.config.ProjectPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
