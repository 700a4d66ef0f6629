package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_NextAndPeek(t *testing.T) {
	sc := NewScanner(strings.NewReader("one\r\ntwo\nthree"))

	l, ok := sc.Peek()
	require.True(t, ok)
	assert.Equal(t, Line{Num: 1, Text: "one"}, l)

	l, ok = sc.Next()
	require.True(t, ok)
	assert.Equal(t, Line{Num: 1, Text: "one"}, l)

	l, ok = sc.Next()
	require.True(t, ok)
	assert.Equal(t, Line{Num: 2, Text: "two"}, l)

	l, ok = sc.Next()
	require.True(t, ok)
	assert.Equal(t, Line{Num: 3, Text: "three"}, l)

	_, ok = sc.Next()
	assert.False(t, ok)
	_, ok = sc.Peek()
	assert.False(t, ok)
	assert.Equal(t, 3, sc.LineNum())
	assert.NoError(t, sc.Err())
}

func TestScanner_Empty(t *testing.T) {
	sc := NewScanner(strings.NewReader(""))
	_, ok := sc.Next()
	assert.False(t, ok)
	assert.Equal(t, 0, sc.LineNum())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestScanner_ReadError(t *testing.T) {
	sc := NewScanner(failingReader{})
	_, ok := sc.Next()
	assert.False(t, ok)
	assert.EqualError(t, sc.Err(), "disk on fire")
}
