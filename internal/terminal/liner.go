package terminal

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterh/liner"

	"cmdshell/internal/logger"
	"cmdshell/pkg/registry"
)

// LinerSource reads lines with github.com/peterh/liner. History is loaded from
// and saved to historyFile when one is set.
type LinerSource struct {
	line        *liner.State
	historyFile string

	mu     sync.Mutex
	prompt string
}

// NewLinerSource takes over the terminal. Close must be called to restore it.
func NewLinerSource(view registry.View, historyFile string) *LinerSource {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		if strings.ContainsAny(input, " \t") {
			return nil
		}
		return completeCommand(view, input)
	})

	s := &LinerSource{line: line, historyFile: historyFile}
	s.LoadHistory()
	return s
}

// LoadHistory reads the history file if it exists.
func (s *LinerSource) LoadHistory() {
	if s.historyFile == "" {
		return
	}
	f, err := os.Open(s.historyFile)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()
	if _, err := s.line.ReadHistory(f); err != nil {
		logger.Debug("Failed to read history", "file", s.historyFile, "error", err)
	}
}

// SaveHistory writes the history file with owner-only permissions.
func (s *LinerSource) SaveHistory() error {
	if s.historyFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.historyFile), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(s.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = s.line.WriteHistory(f)
	return err
}

// SetPrompt implements interpreter.PromptSetter.
func (s *LinerSource) SetPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = prompt
}

func (s *LinerSource) currentPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

// NextLine prompts for a line and records non-blank input in history.
// Ctrl-C ends input.
func (s *LinerSource) NextLine() (string, error) {
	input, err := s.line.Prompt(s.currentPrompt())
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		s.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and restores the terminal.
func (s *LinerSource) Close() error {
	saveErr := s.SaveHistory()
	if err := s.line.Close(); err != nil {
		return err
	}
	return saveErr
}
