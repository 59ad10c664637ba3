package interpreter

import (
	"io"

	"github.com/charmbracelet/log"

	"cmdshell/internal/output"
	"cmdshell/pkg/tokenizer"
)

// DefaultPrompt is written before every read.
const DefaultPrompt = ">>> "

// DefaultCommentPrefix marks lines that are skipped without dispatch.
const DefaultCommentPrefix = "#"

type settings struct {
	out             io.Writer
	promptOut       io.Writer
	prompt          string
	stopOnError     bool
	caseInsensitive bool
	withoutHelp     bool
	helpOnUnknown   bool
	exitCommands    []string
	commentPrefix   string
	tokenizer       *tokenizer.Tokenizer
	logger          *log.Logger
	suggestions     int
	mode            output.Mode
	styles          output.StyleProvider
	sessionID       string
}

// Option configures an Interpreter.
type Option func(*settings)

// WithOutput sets the sink for handler output and reported results. Default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.out = w
		}
	}
}

// WithPromptWriter sets where the prompt is written. Default discards it.
func WithPromptWriter(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.promptOut = w
		}
	}
}

// WithPrompt sets the initial prompt. Default is DefaultPrompt.
func WithPrompt(prompt string) Option {
	return func(s *settings) {
		s.prompt = prompt
	}
}

// WithStopOnError ends Run after the first failed line, returning its error.
func WithStopOnError(stop bool) Option {
	return func(s *settings) {
		s.stopOnError = stop
	}
}

// WithCaseInsensitive makes command names match regardless of case.
func WithCaseInsensitive(insensitive bool) Option {
	return func(s *settings) {
		s.caseInsensitive = insensitive
	}
}

// WithoutHelp skips registering the built-in help command.
func WithoutHelp() Option {
	return func(s *settings) {
		s.withoutHelp = true
	}
}

// WithHelpOnUnknown lists the available commands after reporting an unknown command.
func WithHelpOnUnknown() Option {
	return func(s *settings) {
		s.helpOnUnknown = true
	}
}

// WithExitCommands replaces the names that end the loop. Calling it with no names
// disables the exit pseudo-command.
func WithExitCommands(names ...string) Option {
	return func(s *settings) {
		s.exitCommands = append([]string{}, names...)
	}
}

// WithCommentPrefix sets the prefix of lines that are skipped. An empty prefix
// disables comments.
func WithCommentPrefix(prefix string) Option {
	return func(s *settings) {
		s.commentPrefix = prefix
	}
}

// WithTokenizer replaces the default whitespace tokenizer.
func WithTokenizer(t *tokenizer.Tokenizer) Option {
	return func(s *settings) {
		if t != nil {
			s.tokenizer = t
		}
	}
}

// WithSeparator tokenizes on sep instead of whitespace.
func WithSeparator(sep rune) Option {
	return func(s *settings) {
		s.tokenizer = tokenizer.New(tokenizer.WithSeparator(sep))
	}
}

// WithLogger sets the logger used by the interpreter and its registry and dispatcher.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithSuggestions sets how many "did you mean" names accompany unknown commands.
func WithSuggestions(n int) Option {
	return func(s *settings) {
		s.suggestions = n
	}
}

// WithStyle sets the output mode for reported results and help text.
func WithStyle(mode output.Mode) Option {
	return func(s *settings) {
		s.mode = mode
	}
}

// WithStyleProvider replaces the default theme.
func WithStyleProvider(p output.StyleProvider) Option {
	return func(s *settings) {
		s.styles = p
	}
}

// WithSessionID fixes the session id used in log lines. Default is a random UUID.
func WithSessionID(id string) Option {
	return func(s *settings) {
		s.sessionID = id
	}
}
