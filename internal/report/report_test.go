package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"narrtest/internal/domain"
)

func loc(line int) domain.Location {
	return domain.Location{Source: "sample_bad.md", Line: line}
}

func TestReporter_Unsuccessful(t *testing.T) {
	results := []domain.Result{
		domain.Pass{Test: domain.Test{Location: loc(5), Code: "(3+4)*6\n", Expected: "42\n"}, Actual: "42\n"},
		domain.Fail{Test: domain.Test{Location: loc(9), Code: "2+2\n", Expected: "5\n"}, Actual: "4\n"},
		domain.Fail{
			Test:   domain.Test{Location: loc(13), Code: "sqrt(-1)\n", Expected: "0.0 + 1.0im\n"},
			Actual: "ERROR: DomainError\nsqrt of a negative number\n",
			Trace:  []string{"frame 1"},
		},
		domain.Errored{Test: domain.BrokenTest{Location: loc(17), Message: "missing test code"}},
	}

	var buf bytes.Buffer
	r := NewReporter(&buf, false)
	r.Results(results)
	r.Summary(domain.Summarize(results))

	sep := strings.Repeat("~", 72)
	want := sep + "\n" +
		"Test failed at sample_bad.md, line 9:\n" +
		"    2+2\n" +
		"Expected output:\n" +
		"    5\n" +
		"Actual output:\n" +
		"    4\n" +
		sep + "\n" +
		"Test failed at sample_bad.md, line 13:\n" +
		"    sqrt(-1)\n" +
		"Expected output:\n" +
		"    0.0 + 1.0im\n" +
		"Actual output:\n" +
		"    ERROR: DomainError\n" +
		"    sqrt of a negative number\n" +
		sep + "\n" +
		"Error at sample_bad.md, line 17:\n" +
		"    missing test code\n" +
		sep + "\n" +
		"Tests passed: 1\n" +
		"Tests failed: 2\n" +
		"Errors: 1\n" +
		"TESTING UNSUCCESSFUL!\n"
	assert.Equal(t, want, buf.String())
}

func TestReporter_Successful(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false)
	r.Summary(domain.Summary{Passed: 3})
	assert.Equal(t, "Tests passed: 3\nTESTING SUCCESSFUL!\n", buf.String())
}

func TestReporter_ColoredHeader(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, true)
	r.Summary(domain.Summary{Passed: 1})
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "TESTING SUCCESSFUL!")
}

func TestDescribe(t *testing.T) {
	test := domain.Test{
		Location: domain.Location{Source: "<input>", Line: 1},
		Code:     "x := 1.0\ny := x * 2\n\ny > 1\n",
	}
	assert.Equal(t,
		"Test case at <input>, line 1:\n    x := 1.0\n    y := x * 2\n\n    y > 1\nExpected output:\n",
		Describe(test))

	broken := domain.BrokenTest{Location: domain.Location{Source: "<input>", Line: 5}, Message: "incomplete fenced code block"}
	assert.Equal(t, "Error at <input>, line 5:\n    incomplete fenced code block\n", Describe(broken))
}

func TestDescribeResult(t *testing.T) {
	test := domain.Test{Location: domain.Location{Source: "<input>"}, Code: "2+2\n", Expected: "5\n"}

	assert.Equal(t,
		"Test failed at <input>:\n    2+2\nExpected output:\n    5\nActual output:\n    4\n",
		DescribeResult(domain.Fail{Test: test, Actual: "4\n"}))

	test.Expected = "4\n"
	assert.Equal(t,
		"Test passed at <input>:\n    2+2\nExpected output:\n    4\nActual output:\n    4\n",
		DescribeResult(domain.Pass{Test: test, Actual: "4\n"}))

	broken := domain.BrokenTest{Location: domain.Location{Source: "<input>", Line: 1}, Message: "missing test code"}
	assert.Equal(t, "Error at <input>, line 1:\n    missing test code\n", DescribeResult(domain.Errored{Test: broken}))
}
