// Package execution runs extracted suites against evaluator sessions.
package execution

import (
	"context"
	"strings"
	"time"

	"narrtest/internal/evaluator"
)

// Engine runs code fragments and assembles their actual output.
type Engine struct {
	timeout time.Duration
}

// NewEngine creates a new Engine. A positive timeout bounds every fragment.
func NewEngine(timeout time.Duration) *Engine {
	return &Engine{timeout: timeout}
}

// Output is the actual output of one fragment.
type Output struct {
	Text  string   // compared against the expectation
	Trace []string // frames of a raised error, never compared
}

// Execute runs code in the session. The value of the last statement is left
// out when display is false. An error means the session is unusable.
func (e *Engine) Execute(ctx context.Context, sess evaluator.Session, code string, display bool) (Output, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	outcome, err := sess.Eval(ctx, code)
	if err != nil {
		return Output{}, err
	}
	return assemble(outcome, display), nil
}

// assemble concatenates the captured streams, the value line and the error
// header. Raw stream output is kept as written.
func assemble(o evaluator.Outcome, display bool) Output {
	var b strings.Builder
	b.WriteString(o.Output)
	line := func(s string) {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}

	var out Output
	if o.Err != nil {
		line(o.Err.Header())
		out.Trace = o.Err.Trace
	} else if display && o.HasValue {
		line(o.Value)
	}
	out.Text = b.String()
	return out
}
