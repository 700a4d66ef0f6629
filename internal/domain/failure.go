package domain

// Failure kinds stored in the run record.
const (
	KindFail  = "fail"
	KindError = "error"
)

// TestFailure is the persisted form of a Fail or Errored result
type TestFailure struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Kind     string   `json:"kind"`
	Code     string   `json:"code,omitempty"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
	Message  string   `json:"message,omitempty"`
	Trace    []string `json:"trace,omitempty"`
	Resolved bool     `json:"resolved,omitempty"` // Track if test case is marked as resolved
}

// NewTestFailure converts a result into its persisted form. ok is false for a Pass.
func NewTestFailure(r Result) (f TestFailure, ok bool) {
	switch r := r.(type) {
	case Fail:
		return TestFailure{
			File:     r.Test.Location.Source,
			Line:     r.Test.Location.Line,
			Kind:     KindFail,
			Code:     r.Test.Code,
			Expected: r.Test.Expected,
			Actual:   r.Actual,
			Trace:    r.Trace,
		}, true
	case Errored:
		return TestFailure{
			File:    r.Test.Location.Source,
			Line:    r.Test.Location.Line,
			Kind:    KindError,
			Message: r.Test.Message,
		}, true
	}
	return TestFailure{}, false
}

// Location returns where the failure was found.
func (f TestFailure) Location() Location {
	return Location{Source: f.File, Line: f.Line}
}
