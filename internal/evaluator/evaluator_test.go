package evaluator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailure_Header(t *testing.T) {
	tests := []struct {
		failure Failure
		want    string
	}{
		{Failure{Message: "boom"}, "ERROR: boom"},
		{Failure{Kind: "panic", Message: "boom\n"}, "ERROR: panic: boom"},
		{Failure{Kind: "timeout"}, "ERROR: timeout"},
		{Failure{Kind: "mysql 1146", Message: "Table 'x' doesn't exist", Trace: []string{"frame"}}, "ERROR: mysql 1146: Table 'x' doesn't exist"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.failure.Header())
	}
}

func TestNew(t *testing.T) {
	f, err := New(Options{Kind: KindGo}, nil)
	require.NoError(t, err)
	s, err := f.NewSession(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &GoSession{}, s)
	require.NoError(t, s.Close())

	_, err = New(Options{Kind: KindSQL}, nil)
	assert.Error(t, err)

	_, err = New(Options{Kind: "cobol"}, nil)
	assert.EqualError(t, err, `unknown evaluator "cobol"`)
}
