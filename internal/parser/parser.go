package parser

import (
	"os"
	"path/filepath"
	"strings"

	"narrtest/internal/domain"
)

// Format is the kind of a test source.
type Format int

const (
	Markdown Format = iota
	Source
)

// Parser extracts suites from files, choosing the format and marker syntax by extension.
type Parser struct {
	markdown map[string]bool
	syntaxes map[string]Syntax
	fallback Syntax
}

// NewParser creates a new Parser. markdownExts lists the extensions parsed
// as Markdown; syntaxes maps source extensions to their marker syntax.
// Files with unknown extensions are read as sources in the Hash syntax.
func NewParser(markdownExts []string, syntaxes map[string]Syntax) *Parser {
	p := &Parser{
		markdown: make(map[string]bool),
		syntaxes: make(map[string]Syntax),
		fallback: Hash,
	}
	for _, ext := range markdownExts {
		p.markdown[normalizeExt(ext)] = true
	}
	for ext, syn := range syntaxes {
		p.syntaxes[normalizeExt(ext)] = syn
	}
	return p
}

// FormatOf returns the format and syntax used for path.
func (p *Parser) FormatOf(path string) (Format, Syntax) {
	ext := normalizeExt(filepath.Ext(path))
	syn, ok := p.syntaxes[ext]
	if !ok {
		syn = p.fallback
	}
	if p.markdown[ext] {
		return Markdown, syn
	}
	return Source, syn
}

// ParseFile reads and parses a file. A file that cannot be opened yields a
// suite holding a single broken test at line 0.
func (p *Parser) ParseFile(path string) domain.Suite {
	f, err := os.Open(path)
	if err != nil {
		return readFailure(path, err)
	}
	defer f.Close()

	format, syn := p.FormatOf(path)
	if format == Markdown {
		return ParseMarkdown(path, f, syn)
	}
	return ParseSource(path, f, syn)
}

func readFailure(name string, err error) domain.Suite {
	return domain.Suite{domain.BrokenTest{
		Location: domain.Location{Source: name, Line: 0},
		Message:  err.Error(),
	}}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
