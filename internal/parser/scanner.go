package parser

import (
	"bufio"
	"io"
	"strings"
)

// Line is one line of input without its terminator.
type Line struct {
	Num  int // 1-based
	Text string
}

// blank reports whether the line holds only whitespace.
func (l Line) blank() bool {
	return strings.TrimSpace(l.Text) == ""
}

// Scanner reads a source one line at a time and keeps the line count.
type Scanner struct {
	r      *bufio.Reader
	num    int
	peeked *Line
	eof    bool
	err    error
}

// NewScanner creates a new Scanner over r
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Next returns the next line. ok is false at the end of input or on a read error.
func (s *Scanner) Next() (Line, bool) {
	if s.peeked != nil {
		l := *s.peeked
		s.peeked = nil
		return l, true
	}
	return s.read()
}

// Peek returns the next line without consuming it.
func (s *Scanner) Peek() (Line, bool) {
	if s.peeked != nil {
		return *s.peeked, true
	}
	l, ok := s.read()
	if ok {
		s.peeked = &l
	}
	return l, ok
}

// LineNum is the number of the last line read, including a peeked one.
func (s *Scanner) LineNum() int {
	return s.num
}

// Err returns the first read error other than io.EOF.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) read() (Line, bool) {
	if s.eof {
		return Line{}, false
	}
	text, err := s.r.ReadString('\n')
	if err != nil {
		s.eof = true
		if err != io.EOF {
			s.err = err
			return Line{}, false
		}
		if text == "" {
			return Line{}, false
		}
	}
	s.num++
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	return Line{Num: s.num, Text: text}, true
}

// readLines drains the scanner.
func readLines(s *Scanner) ([]Line, error) {
	var lines []Line
	for {
		l, ok := s.Next()
		if !ok {
			break
		}
		lines = append(lines, l)
	}
	return lines, s.Err()
}
