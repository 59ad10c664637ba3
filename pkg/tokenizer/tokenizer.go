// Package tokenizer splits one line of interpreter input into tokens.
//
// Tokens are separated by runs of whitespace. A double quote opens a quoted section that
// may contain whitespace; inside it a backslash escapes the quote character and itself.
// Quoted sections can appear anywhere in a token and join the text around them, so
// `a"b c"d` is the single token `ab cd` and `""` is an empty token.
package tokenizer

import (
	"strings"
	"unicode"

	"cmdshell/pkg/shelltypes"
)

const (
	// DefaultQuote opens and closes a quoted section.
	DefaultQuote = '"'
	// DefaultEscape escapes the quote character and itself inside a quoted section.
	DefaultEscape = '\\'
)

// Tokenizer holds the quoting and separator rules. The zero value is not usable; use New.
type Tokenizer struct {
	quote     rune
	escape    rune
	separator func(rune) bool
	joiner    string
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithSeparator splits tokens on r instead of whitespace. Runs of r still collapse.
func WithSeparator(r rune) Option {
	return func(t *Tokenizer) {
		t.separator = func(c rune) bool { return c == r }
		t.joiner = string(r)
	}
}

// WithQuote changes the quote character.
func WithQuote(r rune) Option {
	return func(t *Tokenizer) {
		t.quote = r
	}
}

// New creates a Tokenizer with whitespace separators, double quotes and backslash escapes.
func New(options ...Option) *Tokenizer {
	t := &Tokenizer{
		quote:     DefaultQuote,
		escape:    DefaultEscape,
		separator: unicode.IsSpace,
		joiner:    " ",
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

var defaultTokenizer = New()

// Tokenize splits line using the default rules.
func Tokenize(line string) ([]string, error) {
	return defaultTokenizer.Tokenize(line)
}

// Quote returns token in a form the default rules read back as the same single token.
func Quote(token string) string {
	return defaultTokenizer.Quote(token)
}

// Join quotes each token as needed and joins them with single spaces.
func Join(tokens []string) string {
	return defaultTokenizer.Join(tokens)
}

// Tokenize splits line into tokens. Blank input yields an empty slice and no error.
// An unterminated quote fails with a *shelltypes.ParseError whose Pos is the rune
// offset of the opening quote.
func (t *Tokenizer) Tokenize(line string) ([]string, error) {
	runes := []rune(line)
	tokens := []string{}

	var current strings.Builder
	inToken := false
	inQuote := false
	quoteStart := 0

	for i := 0; i < len(runes); i++ {
		c := runes[i]

		switch {
		case inQuote:
			if c == t.escape && i+1 < len(runes) && (runes[i+1] == t.quote || runes[i+1] == t.escape) {
				current.WriteRune(runes[i+1])
				i++
			} else if c == t.quote {
				inQuote = false
			} else {
				current.WriteRune(c)
			}
		case c == t.quote:
			inQuote = true
			inToken = true
			quoteStart = i
		case t.separator(c):
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(c)
			inToken = true
		}
	}

	if inQuote {
		return nil, &shelltypes.ParseError{Pos: quoteStart, Msg: "unterminated quote"}
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}

// Quote returns token unchanged when it needs no quoting, otherwise wrapped in quotes
// with the quote and escape characters escaped.
func (t *Tokenizer) Quote(token string) string {
	plain := token != "" && strings.IndexFunc(token, func(c rune) bool {
		return c == t.quote || t.separator(c)
	}) < 0
	if plain {
		return token
	}

	var b strings.Builder
	b.WriteRune(t.quote)
	for _, c := range token {
		if c == t.quote || c == t.escape {
			b.WriteRune(t.escape)
		}
		b.WriteRune(c)
	}
	b.WriteRune(t.quote)
	return b.String()
}

// Join quotes each token as needed and joins them with single separators.
func (t *Tokenizer) Join(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = t.Quote(token)
	}
	return strings.Join(quoted, t.joiner)
}
