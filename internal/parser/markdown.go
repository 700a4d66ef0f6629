package parser

import (
	"io"
	"strings"

	"narrtest/internal/domain"
)

// indentWidth is the indentation of a Markdown indented code block.
const indentWidth = 4

// fence describes an opening code fence line.
type fence struct {
	char   byte
	length int
	indent int
	lang   string
}

// ParseMarkdown extracts the test suite embedded in the code blocks of a
// Markdown document. Fenced blocks with a language tag are skipped.
func ParseMarkdown(name string, r io.Reader, syn Syntax) domain.Suite {
	sc := NewScanner(r)
	suite := domain.Suite{}
	paragraph := false

	for {
		line, ok := sc.Next()
		if !ok {
			break
		}

		if f, ok := openFence(line.Text); ok {
			paragraph = false
			var content []Line
			closed := false
			for {
				l, ok := sc.Next()
				if !ok {
					break
				}
				if f.closedBy(l.Text) {
					closed = true
					if f.lang == "" {
						suite = append(suite, scanRegion(name, syn, content, l.Num)...)
					}
					break
				}
				content = append(content, Line{Num: l.Num, Text: unindent(l.Text, f.indent)})
			}
			if !closed {
				suite = append(suite, domain.BrokenTest{
					Location: domain.Location{Source: name, Line: sc.LineNum() + 1},
					Message:  MsgIncompleteFence,
				})
			}
			continue
		}

		if !paragraph && !line.blank() && indentation(line.Text) >= indentWidth {
			block := []Line{{Num: line.Num, Text: unindent(line.Text, indentWidth)}}
			for {
				next, ok := sc.Peek()
				if !ok || (!next.blank() && indentation(next.Text) < indentWidth) {
					break
				}
				sc.Next()
				block = append(block, Line{Num: next.Num, Text: unindent(next.Text, indentWidth)})
			}
			for block[len(block)-1].blank() {
				block = block[:len(block)-1]
			}
			end := block[len(block)-1].Num + 1
			suite = append(suite, scanRegion(name, syn, block, end)...)
			continue
		}

		switch {
		case line.blank():
			paragraph = false
		case isHeading(line.Text):
			paragraph = false
		default:
			paragraph = true
		}
	}

	if err := sc.Err(); err != nil {
		return readFailure(name, err)
	}
	return suite
}

// openFence recognizes ``` and ~~~ fences indented by at most three spaces.
func openFence(text string) (fence, bool) {
	indent := 0
	for indent < len(text) && text[indent] == ' ' {
		indent++
	}
	if indent > 3 || indent == len(text) {
		return fence{}, false
	}
	c := text[indent]
	if c != '`' && c != '~' {
		return fence{}, false
	}
	n := 0
	for indent+n < len(text) && text[indent+n] == c {
		n++
	}
	if n < 3 {
		return fence{}, false
	}
	info := strings.TrimSpace(text[indent+n:])
	if c == '`' && strings.ContainsRune(info, '`') {
		return fence{}, false
	}
	lang := ""
	if fields := strings.Fields(info); len(fields) > 0 {
		lang = fields[0]
	}
	return fence{char: c, length: n, indent: indent, lang: lang}, true
}

// closedBy reports whether text is a closing fence for f.
func (f fence) closedBy(text string) bool {
	t := strings.TrimLeft(text, " ")
	if len(text)-len(t) > 3 {
		return false
	}
	n := 0
	for n < len(t) && t[n] == f.char {
		n++
	}
	return n >= f.length && strings.TrimSpace(t[n:]) == ""
}

func isHeading(text string) bool {
	t := strings.TrimLeft(text, " ")
	if len(text)-len(t) > 3 {
		return false
	}
	n := 0
	for n < len(t) && t[n] == '#' {
		n++
	}
	return n >= 1 && n <= 6 && (n == len(t) || t[n] == ' ' || t[n] == '\t')
}

// indentation measures leading whitespace in columns; a tab advances to the next multiple of four.
func indentation(text string) int {
	col := 0
	for _, c := range text {
		switch c {
		case ' ':
			col++
		case '\t':
			col += indentWidth - col%indentWidth
		default:
			return col
		}
	}
	return col
}

// unindent removes up to n columns of leading whitespace.
func unindent(text string, n int) string {
	col := 0
	for i, c := range text {
		if col >= n {
			return text[i:]
		}
		switch c {
		case ' ':
			col++
		case '\t':
			next := col + indentWidth - col%indentWidth
			if next > n {
				return strings.Repeat(" ", next-n) + text[i+1:]
			}
			col = next
		default:
			return text[i:]
		}
	}
	return ""
}
