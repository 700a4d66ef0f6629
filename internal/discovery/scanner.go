package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scanner finds test sources: files named on the command line and files
// with a known extension below directories.
type Scanner struct {
	skipDirs   map[string]bool
	extensions map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip and
// the extensions a directory expands to
func NewScanner(skipDirs, extensions []string) *Scanner {
	s := &Scanner{
		skipDirs:   make(map[string]bool),
		extensions: make(map[string]bool),
	}
	for _, dir := range skipDirs {
		s.skipDirs[dir] = true
	}
	for _, ext := range extensions {
		s.extensions[strings.ToLower(ext)] = true
	}
	return s
}

// Resolve expands the arguments into a list of files. Files are kept as
// given, in argument order; directories expand to their test files in
// lexical order. A path listed twice is kept once.
func (s *Scanner) Resolve(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("test path does not exist: %s", arg)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		found, err := s.Scan(arg)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}

// Scan finds all test files in the given root directory
func (s *Scanner) Scan(root string) ([]string, error) {
	var testfiles []string

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") || s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if s.extensions[strings.ToLower(filepath.Ext(d.Name()))] {
			testfiles = append(testfiles, path)
		}
		return nil
	})

	return testfiles, err
}
