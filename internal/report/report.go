// Package report renders test results as text.
//
// The layout of the run report is stable: tools and documents match against
// it, so the headers and tally lines must not change.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"narrtest/internal/domain"
)

// Separator delimits the diagnostic blocks of a run report.
var Separator = strings.Repeat("~", 72)

// Reporter writes the run report: one block per failed or broken case and a
// final tally.
type Reporter struct {
	w      io.Writer
	header *color.Color
	ok     *color.Color
	bad    *color.Color
}

// NewReporter creates a new Reporter. Headers and the verdict are colored
// only when colored is true.
func NewReporter(w io.Writer, colored bool) *Reporter {
	r := &Reporter{
		w:      w,
		header: color.New(color.FgRed, color.Bold),
		ok:     color.New(color.FgGreen, color.Bold),
		bad:    color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{r.header, r.ok, r.bad} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Result writes the diagnostic block of a Fail or Errored result. Passes
// print nothing.
func (r *Reporter) Result(res domain.Result) {
	switch res := res.(type) {
	case domain.Fail:
		fmt.Fprintln(r.w, Separator)
		r.header.Fprintf(r.w, "Test failed at %s:\n", res.Test.Location)
		writeIndented(r.w, res.Test.Code)
		fmt.Fprintln(r.w, "Expected output:")
		writeIndented(r.w, res.Test.Expected)
		fmt.Fprintln(r.w, "Actual output:")
		writeIndented(r.w, res.Actual)
	case domain.Errored:
		fmt.Fprintln(r.w, Separator)
		r.header.Fprintf(r.w, "Error at %s:\n", res.Test.Location)
		writeIndented(r.w, res.Test.Message)
	}
}

// Results writes the blocks of all results in order.
func (r *Reporter) Results(results []domain.Result) {
	for _, res := range results {
		r.Result(res)
	}
}

// Summary writes the tally and the verdict. The closing separator is written
// only when a diagnostic block preceded it.
func (r *Reporter) Summary(s domain.Summary) {
	if !s.Success() {
		fmt.Fprintln(r.w, Separator)
	}
	fmt.Fprintf(r.w, "Tests passed: %d\n", s.Passed)
	if s.Failed > 0 {
		fmt.Fprintf(r.w, "Tests failed: %d\n", s.Failed)
	}
	if s.Errored > 0 {
		fmt.Fprintf(r.w, "Errors: %d\n", s.Errored)
	}
	if s.Success() {
		r.ok.Fprintln(r.w, "TESTING SUCCESSFUL!")
	} else {
		r.bad.Fprintln(r.w, "TESTING UNSUCCESSFUL!")
	}
}

// Describe renders a case the way `list --verbose` shows it.
func Describe(c domain.Case) string {
	var b strings.Builder
	switch c := c.(type) {
	case domain.Test:
		fmt.Fprintf(&b, "Test case at %s:\n", c.Location)
		writeIndented(&b, c.Code)
		b.WriteString("Expected output:\n")
		writeIndented(&b, c.Expected)
	case domain.BrokenTest:
		fmt.Fprintf(&b, "Error at %s:\n", c.Location)
		writeIndented(&b, c.Message)
	}
	return b.String()
}

// DescribeResult renders a single result with its code, expected and
// actual output.
func DescribeResult(res domain.Result) string {
	var b strings.Builder
	switch res := res.(type) {
	case domain.Pass:
		describeRun(&b, "Test passed", res.Test, res.Actual)
	case domain.Fail:
		describeRun(&b, "Test failed", res.Test, res.Actual)
	case domain.Errored:
		b.WriteString(Describe(res.Test))
	}
	return b.String()
}

func describeRun(b *strings.Builder, verdict string, t domain.Test, actual string) {
	fmt.Fprintf(b, "%s at %s:\n", verdict, t.Location)
	writeIndented(b, t.Code)
	b.WriteString("Expected output:\n")
	writeIndented(b, t.Expected)
	b.WriteString("Actual output:\n")
	writeIndented(b, actual)
}

// writeIndented writes text indented by four spaces. Blank lines stay empty.
func writeIndented(w io.Writer, text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			fmt.Fprintln(w)
			continue
		}
		fmt.Fprintf(w, "    %s\n", line)
	}
}
