package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"cmdshell/pkg/registry"
)

// ReadlineSource reads lines with github.com/chzyer/readline. It implements
// interpreter.PromptSetter so the prompt is drawn by the line editor.
type ReadlineSource struct {
	rl *readline.Instance
}

// commandCompleter completes the command name from the registry.
type commandCompleter struct {
	view registry.View
}

// Do implements readline.AutoCompleter for the first word of the line.
func (c *commandCompleter) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])
	for _, r := range prefix {
		if r == ' ' || r == '\t' {
			return nil, 0
		}
	}
	var out [][]rune
	for _, name := range completeCommand(c.view, prefix) {
		out = append(out, []rune(name[len(prefix):]+" "))
	}
	return out, len([]rune(prefix))
}

// NewReadlineSource creates a readline instance with command completion and an
// optional history file.
func NewReadlineSource(view registry.View, opts Options) (*ReadlineSource, error) {
	cfg := &readline.Config{
		HistoryFile:     opts.HistoryFile,
		AutoComplete:    &commandCompleter{view: view},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
	// readline closes its input on Close; os.Stdin is left to readline's own
	// cancelable wrapper.
	if opts.Stdin != nil && opts.Stdin != io.Reader(os.Stdin) {
		cfg.Stdin = io.NopCloser(opts.Stdin)
		if !IsTerminal(opts.Stdin) {
			cfg.FuncIsTerminal = func() bool { return false }
		}
	}
	if opts.Stdout != nil {
		cfg.Stdout = opts.Stdout
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start readline: %w", err)
	}
	return &ReadlineSource{rl: rl}, nil
}

// NextLine reads the next line. Ctrl-C on an empty line ends input like Ctrl-D.
func (s *ReadlineSource) NextLine() (string, error) {
	line, err := s.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		if line == "" {
			return "", io.EOF
		}
		return "", nil
	}
	return line, err
}

// SetPrompt implements interpreter.PromptSetter.
func (s *ReadlineSource) SetPrompt(prompt string) {
	s.rl.SetPrompt(prompt)
}

// Close restores the terminal and flushes history.
func (s *ReadlineSource) Close() error {
	return s.rl.Close()
}
