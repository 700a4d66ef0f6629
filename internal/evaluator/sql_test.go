package evaluator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLSession {
	t.Helper()
	s, err := OpenSQL(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLSession_QueryAcrossFragments(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	out, err := s.Eval(ctx, "CREATE TABLE users (id INTEGER, name TEXT);\nINSERT INTO users VALUES (1, 'alice'), (2, NULL);\n")
	require.NoError(t, err)
	assert.Nil(t, out.Err)
	assert.False(t, out.HasValue)

	out, err = s.Eval(ctx, "SELECT id, name FROM users ORDER BY id;\n")
	require.NoError(t, err)
	require.Nil(t, out.Err)
	assert.True(t, out.HasValue)
	assert.Equal(t, "id | name\n1 | alice\n2 | NULL", out.Value)
}

func TestSQLSession_OnlyLastQueryIsDisplayed(t *testing.T) {
	s := openSQLite(t)
	out, err := s.Eval(context.Background(), "SELECT 1 AS a; SELECT 2 AS b;")
	require.NoError(t, err)
	assert.Equal(t, "b\n2", out.Value)
}

func TestSQLSession_Error(t *testing.T) {
	s := openSQLite(t)
	out, err := s.Eval(context.Background(), "SELECT * FROM missing;\n")
	require.NoError(t, err)
	require.NotNil(t, out.Err)
	assert.Contains(t, out.Err.Header(), "no such table")
}

func TestSQLSession_Closed(t *testing.T) {
	s := openSQLite(t)
	require.NoError(t, s.Close())
	_, err := s.Eval(context.Background(), "SELECT 1;")
	assert.True(t, errors.Is(err, ErrUnusable))
	assert.NoError(t, s.Close())
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{"single", "SELECT 1;", []string{"SELECT 1"}},
		{"no terminator", "SELECT 1", []string{"SELECT 1"}},
		{"several", "CREATE TABLE t (x INT);\nINSERT INTO t VALUES (1);\n", []string{"CREATE TABLE t (x INT)", "INSERT INTO t VALUES (1)"}},
		{"semicolon in string", "SELECT 'a;b';", []string{"SELECT 'a;b'"}},
		{"escaped quote", "SELECT 'it''s';", []string{"SELECT 'it''s'"}},
		{"line comment", "SELECT 1; -- trailing; note\nSELECT 2;", []string{"SELECT 1", "SELECT 2"}},
		{"block comment", "SELECT /* ; */ 1;", []string{"SELECT   1"}},
		{"empty", " ; ;\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.code))
		})
	}
}

func TestIsQuery(t *testing.T) {
	assert.True(t, isQuery("select 1"))
	assert.True(t, isQuery("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.True(t, isQuery("(SELECT 1)"))
	assert.False(t, isQuery("INSERT INTO t VALUES (1)"))
	assert.False(t, isQuery(""))
}

func TestScratchDatabaseName(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	assert.Equal(t, "narrtest_123e4567e89b12d3a456426614174000", ScratchDatabaseName(id))
}
