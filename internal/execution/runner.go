package execution

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"narrtest/internal/domain"
	"narrtest/internal/evaluator"
	"narrtest/internal/match"
	"narrtest/internal/parser"
	"narrtest/internal/report"
)

// Runner runs the cases of a suite in order against one session
type Runner struct {
	engine *Engine
	logger *zap.Logger
}

// NewRunner creates a new Runner
func NewRunner(engine *Engine, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{engine: engine, logger: logger}
}

// Run executes a single case. Broken tests are reported without running.
func (r *Runner) Run(ctx context.Context, sess evaluator.Session, c domain.Case) (domain.Result, error) {
	switch c := c.(type) {
	case domain.BrokenTest:
		return domain.Errored{Test: c}, nil
	case domain.Test:
		out, err := r.engine.Execute(ctx, sess, c.Code, c.Expected != "")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Location, err)
		}
		var res domain.Result = domain.Fail{Test: c, Actual: out.Text, Trace: out.Trace}
		if match.Match(c.Expected, out.Text) {
			res = domain.Pass{Test: c, Actual: out.Text}
		}
		if ce := r.logger.Check(zap.DebugLevel, "test executed"); ce != nil {
			ce.Write(zap.Stringer("location", c.Location), zap.String("result", report.DescribeResult(res)))
		}
		return res, nil
	}
	return nil, fmt.Errorf("unknown case %T", c)
}

// RunSuite executes the cases of a suite in order. On a session error it
// stops and returns the results so far.
func (r *Runner) RunSuite(ctx context.Context, sess evaluator.Session, suite domain.Suite) ([]domain.Result, error) {
	results := make([]domain.Result, 0, len(suite))
	for _, c := range suite {
		res, err := r.Run(ctx, sess, c)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RunWith executes a suite in a fresh session from factory. No session is
// opened for a suite without runnable tests.
func (r *Runner) RunWith(ctx context.Context, factory evaluator.Factory, suite domain.Suite) ([]domain.Result, error) {
	if len(suite.Tests()) == 0 {
		return r.RunSuite(ctx, nil, suite)
	}
	sess, err := factory.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	r.logger.Debug("session opened")
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			r.logger.Warn("failed to close session", zap.Error(cerr))
		}
		r.logger.Debug("session closed")
	}()
	return r.RunSuite(ctx, sess, suite)
}

// RunOne runs a fragment that was not parsed from a file.
func (r *Runner) RunOne(ctx context.Context, factory evaluator.Factory, loc domain.Location, code, expected string) (domain.Result, error) {
	var c domain.Case
	if strings.TrimSpace(code) == "" {
		c = domain.BrokenTest{Location: loc, Message: parser.MsgMissingCode}
	} else {
		if !strings.HasSuffix(code, "\n") {
			code += "\n"
		}
		c = domain.Test{Location: loc, Code: code, Expected: expected}
	}
	results, err := r.RunWith(ctx, factory, domain.Suite{c})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// RunAll runs every suite in its own session, reports each failure and the
// final tally, and returns whether all tests passed.
func (r *Runner) RunAll(ctx context.Context, rep *report.Reporter, suites []domain.Suite, factory evaluator.Factory) (bool, error) {
	files := make([]domain.FileResult, 0, len(suites))
	for _, suite := range suites {
		results, err := r.RunWith(ctx, factory, suite)
		files = append(files, domain.FileResult{Suite: suite, Results: results})
		if err != nil {
			Report(rep, files, false)
			return false, err
		}
	}
	return Report(rep, files, true).Success(), nil
}

// Report prints the failures of every file in order, followed by the tally
// when the run completed, and returns the tally.
func Report(rep *report.Reporter, files []domain.FileResult, complete bool) domain.Summary {
	var total domain.Summary
	for _, f := range files {
		rep.Results(f.Results)
		total.Merge(f.Summary())
	}
	if complete {
		rep.Summary(total)
	}
	return total
}
