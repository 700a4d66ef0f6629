package parser

import (
	"io"

	"narrtest/internal/domain"
)

// ParseSource extracts the test suite of a source file whose expectations
// are written as comments in the given syntax. The whole file is one region.
func ParseSource(name string, r io.Reader, syn Syntax) domain.Suite {
	sc := NewScanner(r)
	lines, err := readLines(sc)
	if err != nil {
		return readFailure(name, err)
	}
	suite := scanRegion(name, syn, lines, sc.LineNum()+1)
	if suite == nil {
		suite = domain.Suite{}
	}
	return suite
}
