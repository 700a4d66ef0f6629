// Package evaluator provides the sessions that execute test code.
//
// A Session runs fragments of one language in a shared state: fragments of
// one file see each other's bindings. Sessions are not safe for concurrent
// use; every file gets its own.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnusable is wrapped by errors from sessions that can no longer run code.
var ErrUnusable = errors.New("evaluator session unusable")

// Failure is an error raised by the evaluated code.
type Failure struct {
	Kind    string   // e.g. "panic", "timeout"; may be empty
	Message string   // may span several lines
	Trace   []string // stack frames, never compared
}

// Header renders the comparable text of the failure: the category, the
// message, no stack frames.
func (f *Failure) Header() string {
	msg := strings.TrimRight(f.Message, "\n")
	if f.Kind == "" {
		return "ERROR: " + msg
	}
	if msg == "" {
		return "ERROR: " + f.Kind
	}
	return fmt.Sprintf("ERROR: %s: %s", f.Kind, msg)
}

// Outcome is what running one fragment produced.
type Outcome struct {
	Output   string   // stdout and stderr, interleaved in write order
	Value    string   // rendering of the last statement's value
	HasValue bool     // false when the value is suppressed or empty
	Err      *Failure // set when the code raised an error
}

// Session runs code in a persistent environment.
//
// Eval returns a non-nil error only when the session itself broke; errors
// raised by the code are reported in Outcome.Err.
type Session interface {
	Eval(ctx context.Context, code string) (Outcome, error)
	Close() error
}

// Factory opens a fresh session per file.
type Factory interface {
	NewSession(ctx context.Context) (Session, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(ctx context.Context) (Session, error)

// NewSession calls f.
func (f FactoryFunc) NewSession(ctx context.Context) (Session, error) {
	return f(ctx)
}

// unusable wraps err as a broken-session error.
func unusable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnusable, err)
}

// splitMessage separates the first line of an error text from the rest.
func splitMessage(text string) (string, []string) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	return lines[0], lines[1:]
}
