// Package match compares actual test output against an expected pattern.
//
// The pattern is plain text with two wildcards. "…" inside a line matches any
// run of characters on that line; whitespace next to it is absorbed. A line
// holding only "⋮" matches any number of whole lines, including none.
// Trailing whitespace at the end of either text is ignored.
package match

import "strings"

// Wildcard tokens.
const (
	Dots  = "…"
	VDots = "⋮"
)

// Span is the range of actual lines [Start, End) consumed by one expected line.
type Span struct {
	Start, End int
}

// Match reports whether actual matches the expected pattern.
func Match(expected, actual string) bool {
	_, ok := Align(expected, actual)
	return ok
}

// Align matches actual against expected and returns, for each expected line,
// the actual lines it consumed. When several alignments exist, each "⋮"
// consumes as few lines as possible, leftmost first.
func Align(expected, actual string) ([]Span, bool) {
	exp := splitLines(expected)
	act := splitLines(actual)
	m, n := len(exp), len(act)

	// ok[i][j]: exp[i:] matches act[j:].
	ok := make([][]bool, m+1)
	for i := range ok {
		ok[i] = make([]bool, n+1)
	}
	ok[m][n] = true
	for i := m - 1; i >= 0; i-- {
		vdots := isVDots(exp[i])
		var p *linePattern
		if !vdots {
			p = compileLine(exp[i])
		}
		for j := n; j >= 0; j-- {
			if vdots {
				ok[i][j] = ok[i+1][j] || (j < n && ok[i][j+1])
			} else {
				ok[i][j] = j < n && ok[i+1][j+1] && p.match(act[j])
			}
		}
	}
	if !ok[0][0] {
		return nil, false
	}

	spans := make([]Span, 0, m)
	j := 0
	for i := 0; i < m; i++ {
		start := j
		if isVDots(exp[i]) {
			for !ok[i+1][j] {
				j++
			}
		} else {
			j++
		}
		spans = append(spans, Span{Start: start, End: j})
	}
	return spans, true
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, " \t\r\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func isVDots(line string) bool {
	return strings.TrimSpace(line) == VDots
}

// linePattern is an expected line split at its "…" tokens.
type linePattern struct {
	parts []string
}

func compileLine(line string) *linePattern {
	parts := strings.Split(line, Dots)
	for k := range parts {
		if k > 0 {
			parts[k] = strings.TrimLeft(parts[k], " \t")
		}
		if k < len(parts)-1 {
			parts[k] = strings.TrimRight(parts[k], " \t")
		}
	}
	return &linePattern{parts: parts}
}

func (p *linePattern) match(s string) bool {
	if len(p.parts) == 1 {
		return s == p.parts[0]
	}
	first, last := p.parts[0], p.parts[len(p.parts)-1]
	if len(first)+len(last) > len(s) || !strings.HasPrefix(s, first) || !strings.HasSuffix(s, last) {
		return false
	}
	rest := s[len(first) : len(s)-len(last)]
	for _, part := range p.parts[1 : len(p.parts)-1] {
		k := strings.Index(rest, part)
		if k < 0 {
			return false
		}
		rest = rest[k+len(part):]
	}
	return true
}
