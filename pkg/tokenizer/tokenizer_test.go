package tokenizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdshell/pkg/shelltypes"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "command with arguments", input: "command arg1 arg2", expected: []string{"command", "arg1", "arg2"}},
		{name: "command without arguments", input: "command", expected: []string{"command"}},
		{name: "empty input", input: "", expected: []string{}},
		{name: "whitespace only", input: " \t  ", expected: []string{}},
		{name: "leading whitespace", input: "      command arg", expected: []string{"command", "arg"}},
		{name: "trailing whitespace", input: "command arg        ", expected: []string{"command", "arg"}},
		{name: "sparse whitespace", input: "   command  arg0 arg1    arg2   ", expected: []string{"command", "arg0", "arg1", "arg2"}},
		{name: "tabs separate tokens", input: "cmd\ta\t\tb", expected: []string{"cmd", "a", "b"}},
		{name: "quoted token with space", input: `cmd a "b c" d`, expected: []string{"cmd", "a", "b c", "d"}},
		{name: "empty quoted token", input: `cmd ""`, expected: []string{"cmd", ""}},
		{name: "escaped quote", input: `say "she said \"hi\""`, expected: []string{"say", `she said "hi"`}},
		{name: "escaped backslash", input: `path "C:\\dir"`, expected: []string{"path", `C:\dir`}},
		{name: "other escapes kept literally", input: `echo "a\nb"`, expected: []string{"echo", `a\nb`}},
		{name: "backslash outside quotes is literal", input: `echo a\b`, expected: []string{"echo", `a\b`}},
		{name: "quotes join adjacent text", input: `echo pre"fix suf"fix`, expected: []string{"echo", "prefix suffix"}},
		{name: "unicode text", input: `grüß "wie geht's" 日本`, expected: []string{"grüß", "wie geht's", "日本"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestTokenize_UnterminatedQuote(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   int
	}{
		{name: "plain unterminated", input: `cmd "unterminated`, pos: 4},
		{name: "escaped closing quote", input: `cmd "abc\"`, pos: 4},
		{name: "trailing escape", input: `cmd "abc\`, pos: 4},
		{name: "second quote open", input: `cmd "ok" "no`, pos: 9},
		{name: "position counts runes", input: `ü "x`, pos: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.Error(t, err)
			assert.Nil(t, tokens)
			assert.True(t, errors.Is(err, shelltypes.ErrParse))

			var parseErr *shelltypes.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.pos, parseErr.Pos)
			assert.Contains(t, parseErr.Error(), "unterminated quote")
		})
	}
}

func TestTokenize_RejoinIsStable(t *testing.T) {
	inputs := []string{
		`cmd a "b" d`,
		`  add   1    2  `,
		`echo "x" y "z"`,
		`a`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := Tokenize(input)
			require.NoError(t, err)

			second, err := Tokenize(strings.Join(first, " "))
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestQuoteAndJoin_RoundTrip(t *testing.T) {
	tokens := []string{"cmd", "two words", `a "quoted" word`, `back\slash`, "", "tab\there"}

	joined := Join(tokens)
	back, err := Tokenize(joined)
	require.NoError(t, err)
	assert.Equal(t, tokens, back)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "plain", Quote("plain"))
	assert.Equal(t, `""`, Quote(""))
	assert.Equal(t, `"a b"`, Quote("a b"))
	assert.Equal(t, `"say \"hi\""`, Quote(`say "hi"`))
	assert.Equal(t, `"x \\ y"`, Quote(`x \ y`))
}

func TestTokenizer_CustomSeparator(t *testing.T) {
	tok := New(WithSeparator(','))

	tokens, err := tok.Tokenize("foo,never gonna,,let")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "never gonna", "let"}, tokens)

	assert.Equal(t, "a,b c", tok.Join([]string{"a", "b c"}))
	assert.Equal(t, `"a,b"`, tok.Quote("a,b"))
}

func TestTokenizer_CustomQuote(t *testing.T) {
	tok := New(WithQuote('\''))

	tokens, err := tok.Tokenize(`say 'hello world' "x`)
	require.NoError(t, err)
	assert.Equal(t, []string{"say", "hello world", `"x`}, tokens)
}
