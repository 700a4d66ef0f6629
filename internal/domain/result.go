package domain

// Result is the outcome of one Case: Pass, Fail or Errored.
type Result interface {
	Loc() Location
	isResult()
}

// Pass records a test whose actual output matched the expectation.
type Pass struct {
	Test   Test
	Actual string
}

// Fail records a test whose actual output did not match.
// Trace is set when the evaluated code raised an error.
type Fail struct {
	Test   Test
	Actual string
	Trace  []string
}

// Errored wraps a BrokenTest; it is never executed.
type Errored struct {
	Test BrokenTest
}

func (r Pass) Loc() Location    { return r.Test.Location }
func (r Fail) Loc() Location    { return r.Test.Location }
func (r Errored) Loc() Location { return r.Test.Location }

func (Pass) isResult()    {}
func (Fail) isResult()    {}
func (Errored) isResult() {}

// Summary counts results by kind.
type Summary struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
}

// Add counts the given results into the summary.
func (s *Summary) Add(results ...Result) {
	for _, r := range results {
		switch r.(type) {
		case Pass:
			s.Passed++
		case Fail:
			s.Failed++
		case Errored:
			s.Errored++
		}
	}
}

// Merge adds the counts of another summary.
func (s *Summary) Merge(o Summary) {
	s.Passed += o.Passed
	s.Failed += o.Failed
	s.Errored += o.Errored
}

// Success reports whether nothing failed or errored.
func (s Summary) Success() bool {
	return s.Failed == 0 && s.Errored == 0
}

// Summarize counts a result list.
func Summarize(results []Result) Summary {
	var s Summary
	s.Add(results...)
	return s
}
