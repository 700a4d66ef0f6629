package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"narrtest/internal/config"
	"narrtest/internal/domain"
)

func sampleFiles() []domain.FileResult {
	pass := domain.Pass{Test: domain.Test{Location: domain.Location{Source: "a.md", Line: 1}, Code: "1\n", Expected: "1\n"}, Actual: "1\n"}
	fail := domain.Fail{
		Test:   domain.Test{Location: domain.Location{Source: "b.md", Line: 3}, Code: "2+2\n", Expected: "5\n"},
		Actual: "4\n",
	}
	broken := domain.Errored{Test: domain.BrokenTest{Location: domain.Location{Source: "b.md", Line: 9}, Message: "missing test code"}}
	return []domain.FileResult{
		{Path: "a.md", Results: []domain.Result{pass}},
		{Path: "b.md", Results: []domain.Result{pass, fail, broken}},
	}
}

func TestBuildOutput(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	out := BuildOutput(sampleFiles(), 1500*time.Millisecond, 2, now)

	_, err := uuid.Parse(out.Meta.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 2, out.Meta.TotalFiles)
	assert.Equal(t, 1, out.Meta.FailedFiles)
	assert.Equal(t, 2, out.Meta.Passed)
	assert.Equal(t, 1, out.Meta.Failed)
	assert.Equal(t, 1, out.Meta.Errored)
	assert.Equal(t, "1.5s", out.Meta.Duration)
	assert.Equal(t, 1.5, out.Meta.DurationSeconds)
	assert.Equal(t, "2026-10-19T12:00:00Z", out.Meta.Timestamp)

	require.Len(t, out.Details, 2)
	assert.Equal(t, domain.TestFailure{File: "b.md", Line: 3, Kind: domain.KindFail, Code: "2+2\n", Expected: "5\n", Actual: "4\n"}, out.Details[0])
	assert.Equal(t, domain.TestFailure{File: "b.md", Line: 9, Kind: domain.KindError, Message: "missing test code"}, out.Details[1])
	assert.Equal(t, []string{"b.md"}, out.FailedFiles())
}

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	s := NewJSONStorage(cfg)

	require.NoError(t, s.Save(sampleFiles(), time.Second, 1))

	out, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, out.Meta.TotalFiles)
	require.Len(t, out.Details, 2)

	out.Details[0].Resolved = true
	require.NoError(t, s.SaveOutput(out))

	again, err := s.Load()
	require.NoError(t, err)
	assert.True(t, again.Details[0].Resolved)
	assert.False(t, again.Details[1].Resolved)
	assert.Equal(t, out.Meta.RunID, again.Meta.RunID)
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	_, err := NewJSONStorage(cfg).Load()
	assert.Error(t, err)
}
