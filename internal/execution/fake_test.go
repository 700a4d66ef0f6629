package execution

import (
	"context"
	"sync"

	"narrtest/internal/evaluator"
)

// fakeSession replays scripted outcomes and records the code it receives.
type fakeSession struct {
	script map[string]evaluator.Outcome
	errs   map[string]error
	calls  []string
	closed bool
}

func (s *fakeSession) Eval(ctx context.Context, code string) (evaluator.Outcome, error) {
	s.calls = append(s.calls, code)
	if err, ok := s.errs[code]; ok {
		return evaluator.Outcome{}, err
	}
	return s.script[code], nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

// fakeFactory hands out sessions sharing one script.
type fakeFactory struct {
	script map[string]evaluator.Outcome
	errs   map[string]error

	mu       sync.Mutex
	sessions []*fakeSession
}

func (f *fakeFactory) NewSession(ctx context.Context) (evaluator.Session, error) {
	s := &fakeSession{script: f.script, errs: f.errs}
	f.mu.Lock()
	f.sessions = append(f.sessions, s)
	f.mu.Unlock()
	return s, nil
}

func value(v string) evaluator.Outcome {
	return evaluator.Outcome{Value: v, HasValue: true}
}

func printed(out string) evaluator.Outcome {
	return evaluator.Outcome{Output: out}
}
