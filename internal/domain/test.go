package domain

// Case is an entry of a Suite: either a runnable Test or a BrokenTest.
type Case interface {
	Loc() Location
	isCase()
}

// Test is a code fragment together with its expected output.
type Test struct {
	Location Location
	Code     string // newline-terminated, never empty
	Expected string // may be empty: nothing is expected and the value is not displayed
}

// BrokenTest is a malformed case detected while parsing.
type BrokenTest struct {
	Location Location
	Message  string
}

func (t Test) Loc() Location       { return t.Location }
func (t BrokenTest) Loc() Location { return t.Location }

func (Test) isCase()       {}
func (BrokenTest) isCase() {}

// Suite is the ordered list of cases extracted from one source.
type Suite []Case

// Tests returns the runnable cases of the suite.
func (s Suite) Tests() []Test {
	var tests []Test
	for _, c := range s {
		if t, ok := c.(Test); ok {
			tests = append(tests, t)
		}
	}
	return tests
}
