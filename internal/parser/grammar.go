package parser

import (
	"strings"

	"narrtest/internal/domain"
)

// Broken test messages.
const (
	MsgMissingCode     = "missing test code"
	MsgIncompleteBlock = "incomplete multiline comment block"
	MsgIncompleteFence = "incomplete fenced code block"
)

// Syntax spells the expectation markers of a host format.
type Syntax struct {
	Inline string // followed by one line of expected output
	Open   string // alone on a line, starts a multi-line expectation
	Close  string // alone on a line, ends it
}

// Marker syntaxes for common comment styles.
var (
	Hash  = Syntax{Inline: "#->", Open: "#=>", Close: "=#"}
	Slash = Syntax{Inline: "//->", Open: "/*=>", Close: "=*/"}
	Dash  = Syntax{Inline: "-->", Open: "/*=>", Close: "=*/"}
)

// SyntaxByName resolves the names used in configuration files.
func SyntaxByName(name string) (Syntax, bool) {
	switch strings.ToLower(name) {
	case "hash", "#":
		return Hash, true
	case "slash", "//":
		return Slash, true
	case "dash", "--":
		return Dash, true
	}
	return Syntax{}, false
}

// fragmenter splits a region of code lines into cases.
type fragmenter struct {
	source string
	syntax Syntax
	cases  domain.Suite
	code   []Line
}

// scanRegion extracts the cases of one region. end is the line number at
// which a missing closing marker is reported.
func scanRegion(source string, syn Syntax, lines []Line, end int) domain.Suite {
	f := &fragmenter{source: source, syntax: syn}
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if len(f.code) == 0 && line.blank() {
			continue
		}

		if strings.TrimSpace(line.Text) == syn.Open {
			j := i + 1
			for j < len(lines) && strings.TrimSpace(lines[j].Text) != syn.Close {
				j++
			}
			if j == len(lines) {
				f.broken(end, MsgIncompleteBlock)
				f.code = nil
				return f.cases
			}
			var expected strings.Builder
			for _, l := range lines[i+1 : j] {
				expected.WriteString(l.Text)
				expected.WriteByte('\n')
			}
			f.emit(line.Num, expected.String())
			i = j
			continue
		}

		if k := strings.Index(line.Text, syn.Inline); k >= 0 {
			before := strings.TrimRight(line.Text[:k], " \t")
			if strings.TrimSpace(before) != "" {
				f.code = append(f.code, Line{Num: line.Num, Text: before})
			}
			expected := strings.TrimSpace(line.Text[k+len(syn.Inline):])
			f.emit(line.Num, expected+"\n")
			continue
		}

		f.code = append(f.code, line)
	}
	if len(f.code) > 0 {
		f.emit(0, "")
	}
	return f.cases
}

// emit closes the current fragment with the given expectation.
// markerLine is where a missing fragment is reported.
func (f *fragmenter) emit(markerLine int, expected string) {
	code := f.code
	f.code = nil
	for len(code) > 0 && code[len(code)-1].blank() {
		code = code[:len(code)-1]
	}
	if len(code) == 0 {
		f.broken(markerLine, MsgMissingCode)
		return
	}
	var b strings.Builder
	for _, l := range code {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	f.cases = append(f.cases, domain.Test{
		Location: domain.Location{Source: f.source, Line: code[0].Num},
		Code:     b.String(),
		Expected: expected,
	})
}

func (f *fragmenter) broken(line int, msg string) {
	f.cases = append(f.cases, domain.BrokenTest{
		Location: domain.Location{Source: f.source, Line: line},
		Message:  msg,
	})
}
