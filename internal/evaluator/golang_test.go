package evaluator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoSession(t *testing.T, imports ...string) *GoSession {
	t.Helper()
	s, err := NewGoSession("", imports)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGoSession_Value(t *testing.T) {
	s := newGoSession(t)
	out, err := s.Eval(context.Background(), "2+2\n")
	require.NoError(t, err)
	assert.True(t, out.HasValue)
	assert.Equal(t, "4", out.Value)
	assert.Empty(t, out.Output)
	assert.Nil(t, out.Err)
}

func TestGoSession_Output(t *testing.T) {
	s := newGoSession(t, "fmt")
	out, err := s.Eval(context.Background(), "fmt.Println(\"Hello World!\")\n")
	require.NoError(t, err)
	assert.Equal(t, "Hello World!\n", out.Output)
	assert.False(t, out.HasValue)
}

func TestGoSession_SharedState(t *testing.T) {
	s := newGoSession(t)
	out, err := s.Eval(context.Background(), "x := 40\n")
	require.NoError(t, err)
	assert.False(t, out.HasValue)

	out, err = s.Eval(context.Background(), "x + 2\n")
	require.NoError(t, err)
	assert.Equal(t, "42", out.Value)
}

func TestGoSession_Error(t *testing.T) {
	s := newGoSession(t)
	out, err := s.Eval(context.Background(), "undefinedName + 1\n")
	require.NoError(t, err)
	require.NotNil(t, out.Err)
	assert.Contains(t, out.Err.Header(), "undefined")
}

func TestGoSession_Panic(t *testing.T) {
	s := newGoSession(t)
	out, err := s.Eval(context.Background(), "panic(\"boom\")\n")
	require.NoError(t, err)
	require.NotNil(t, out.Err)
	assert.Contains(t, out.Err.Header(), "boom")
}

func TestGoSession_Timeout(t *testing.T) {
	s := newGoSession(t, "time")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	out, err := s.Eval(ctx, "time.Sleep(time.Second)\n")
	require.NoError(t, err)
	require.NotNil(t, out.Err)
	assert.Equal(t, "timeout", out.Err.Kind)
}

func TestGoSession_Closed(t *testing.T) {
	s := newGoSession(t)
	require.NoError(t, s.Close())
	_, err := s.Eval(context.Background(), "1\n")
	assert.True(t, errors.Is(err, ErrUnusable))
}

func TestDisplaysValue(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"2+2\n", true},
		{"2+2;\n", false},
		{"x := 1\n", false},
		{"x = 2\n", false},
		{"var y int\n", false},
		{"x\n", true},
		{"x := 1\nx * 3\n", true},
		{"fmt.Println(x)\n", false},
		{"fmt.Printf(\"%d\", x)\n", false},
		{"println(x)\n", false},
		{"strings.Repeat(\"a\", 3)\n", true},
		{"if x > 0 {\n\tx--\n}\n", false},
		{"\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, displaysValue(tt.code))
		})
	}
}

func TestGoSession_DeclarationThenCall(t *testing.T) {
	s := newGoSession(t)
	out, err := s.Eval(context.Background(), "func f() int { return 1 }\nx := f()\nx + 1\n")
	require.NoError(t, err)
	require.Nil(t, out.Err)
	assert.True(t, out.HasValue)
	assert.Equal(t, "2", out.Value)
}

func TestGoSession_ImportThenPrint(t *testing.T) {
	s := newGoSession(t)
	out, err := s.Eval(context.Background(), "import \"fmt\"\nfmt.Println(\"hi\")\n")
	require.NoError(t, err)
	require.Nil(t, out.Err)
	assert.Equal(t, "hi\n", out.Output)
	assert.False(t, out.HasValue)
}

func TestGoSession_DeclarationsOnly(t *testing.T) {
	s := newGoSession(t)
	out, err := s.Eval(context.Background(), "type point struct{ x, y int }\n\nfunc (p point) sum() int { return p.x + p.y }\n")
	require.NoError(t, err)
	require.Nil(t, out.Err)
	assert.False(t, out.HasValue)
	assert.Empty(t, out.Output)

	out, err = s.Eval(context.Background(), "point{1, 2}.sum()\n")
	require.NoError(t, err)
	require.Nil(t, out.Err)
	assert.Equal(t, "3", out.Value)
}

func TestSplitDeclarations(t *testing.T) {
	tests := []struct {
		code  string
		decls string
		stmts string
	}{
		{"2+2\n", "", "2+2\n"},
		{"x := 1\n", "", "x := 1\n"},
		{"import \"fmt\"\nfmt.Println(1)\n", "import \"fmt\"\n", "fmt.Println(1)\n"},
		{"func f() int {\n\treturn 1\n}\nf()\n", "func f() int {\n\treturn 1\n}\n", "f()\n"},
		{"const c = 3\nvar v = c\n", "const c = 3\nvar v = c\n", ""},
		{"\n", "", "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			decls, stmts := splitDeclarations(tt.code)
			assert.Equal(t, tt.decls, decls)
			assert.Equal(t, tt.stmts, stmts)
		})
	}
}
