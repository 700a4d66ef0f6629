package domain

import "fmt"

// Location points at a line of a test source. Line 0 refers to the whole file.
type Location struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
}

// String renders the location the way reports print it, e.g. "guide.md, line 9".
func (l Location) String() string {
	if l.Line <= 0 {
		return l.Source
	}
	return fmt.Sprintf("%s, line %d", l.Source, l.Line)
}
