package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"narrtest/internal/domain"
)

func mdTest(line int, code, expected string) domain.Test {
	return domain.Test{Location: domain.Location{Source: "<input>", Line: line}, Code: code, Expected: expected}
}

func mdBroken(line int, msg string) domain.BrokenTest {
	return domain.BrokenTest{Location: domain.Location{Source: "<input>", Line: line}, Message: msg}
}

func TestParseMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.Suite
	}{
		{
			name: "indented and fenced blocks",
			input: "These test cases are embedded in an indented code block.\n" +
				"\n" +
				"    (3+4)*6\n" +
				"    #-> 42\n" +
				"\n" +
				"    2+2\n" +
				"    #-> 5\n" +
				"\n" +
				"The following test cases are embedded in a fenced code block.\n" +
				"```\n" +
				"print(2^16)\n" +
				"#-> 65526\n" +
				"\n" +
				"sqrt(-1)\n" +
				"#-> 0.0 + 1.0im\n" +
				"```\n",
			want: domain.Suite{
				mdTest(3, "(3+4)*6\n", "42\n"),
				mdTest(6, "2+2\n", "5\n"),
				mdTest(11, "print(2^16)\n", "65526\n"),
				mdTest(14, "sqrt(-1)\n", "0.0 + 1.0im\n"),
			},
		},
		{
			name:  "indented block with inline marker on its own line",
			input: "    2+2\n    #-> 5\n",
			want:  domain.Suite{mdTest(1, "2+2\n", "5\n")},
		},
		{
			name:  "inline marker after code",
			input: "    6(3+4)          #-> 42\n",
			want:  domain.Suite{mdTest(1, "6(3+4)\n", "42\n")},
		},
		{
			name:  "tagged fence is ignored",
			input: "The following code will not be tested.\n```julia\n2 + 2   #-> 5\n```\n",
			want:  domain.Suite{},
		},
		{
			name:  "tilde fence",
			input: "~~~\n1+1 #-> 2\n~~~\n",
			want:  domain.Suite{mdTest(2, "1+1\n", "2\n")},
		},
		{
			name:  "fence content keeps indentation beyond the fence",
			input: "  ```\n    f(x)\n  #-> 1\n  ```\n",
			want:  domain.Suite{mdTest(2, "  f(x)\n", "1\n")},
		},
		{
			name:  "unterminated fence",
			input: "Incomplete fenced code block is an error.\n```\n(3+4)*6\n#-> 42\n",
			want:  domain.Suite{mdBroken(5, MsgIncompleteFence)},
		},
		{
			name:  "shorter fence does not close",
			input: "````\nx\n```\n",
			want:  domain.Suite{mdBroken(4, MsgIncompleteFence)},
		},
		{
			name:  "indented block cannot interrupt a paragraph",
			input: "Some prose\n    2+2 #-> 4\n",
			want:  domain.Suite{},
		},
		{
			name:  "indented block after heading",
			input: "# Title\n    2+2 #-> 4\n",
			want:  domain.Suite{mdTest(2, "2+2\n", "4\n")},
		},
		{
			name:  "tab indentation",
			input: "\t2+2 #-> 4\n",
			want:  domain.Suite{mdTest(1, "2+2\n", "4\n")},
		},
		{
			name:  "missing test code",
			input: "    #-> 42\n",
			want:  domain.Suite{mdBroken(1, MsgMissingCode)},
		},
		{
			name:  "multiline expectation in fence",
			input: "```\ndisplay(x)\n#=>\n 'A'\n ⋮\n=#\n```\n",
			want:  domain.Suite{mdTest(2, "display(x)\n", " 'A'\n ⋮\n")},
		},
		{
			name:  "incomplete multiline block in fence",
			input: "```\nf()\n#=>\nout\n```\n",
			want:  domain.Suite{mdBroken(5, MsgIncompleteBlock)},
		},
		{
			name:  "incomplete multiline block in indented block",
			input: "    f()\n    #=>\n    out\n\ntext\n",
			want:  domain.Suite{mdBroken(4, MsgIncompleteBlock)},
		},
		{
			name:  "code without expectation",
			input: "    using Foo\n\n    x = 1\n\ntext\n",
			want:  domain.Suite{mdTest(1, "using Foo\n\nx = 1\n", "")},
		},
		{
			name:  "windows line endings",
			input: "    2+2\r\n    #-> 4\r\n",
			want:  domain.Suite{mdTest(1, "2+2\n", "4\n")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMarkdown("<input>", strings.NewReader(tt.input), Hash)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseMarkdown() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseMarkdown_Idempotent(t *testing.T) {
	input := "    x = 1\n    x + 1 #-> 2\n\n```\n#-> 1\n```\n\n```\nunterminated\n"
	first := ParseMarkdown("<input>", strings.NewReader(input), Hash)
	second := ParseMarkdown("<input>", strings.NewReader(input), Hash)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("parsing twice differs (-first +second):\n%s", diff)
	}
	assert.Len(t, first, 3)
}

func TestParseMarkdown_LocationsAreOrdered(t *testing.T) {
	input := "    a #-> 1\n    #-> 2\n\n```\nb\n#=>\nx\n=#\nc\n```\n"
	suite := ParseMarkdown("<input>", strings.NewReader(input), Hash)
	last := 0
	for _, c := range suite {
		assert.GreaterOrEqual(t, c.Loc().Line, last)
		last = c.Loc().Line
	}
	assert.Len(t, suite, 4)
}

func TestIndentationAndUnindent(t *testing.T) {
	assert.Equal(t, 4, indentation("    x"))
	assert.Equal(t, 4, indentation("\tx"))
	assert.Equal(t, 8, indentation("  \t    x"))
	assert.Equal(t, "x", unindent("    x", 4))
	assert.Equal(t, "  x", unindent("      x", 4))
	assert.Equal(t, "x", unindent("\tx", 4))
	assert.Equal(t, "  x", unindent("\tx", 2))
	assert.Equal(t, "\tx", unindent("  \tx", 2))
	assert.Equal(t, "", unindent("   ", 4))
}
