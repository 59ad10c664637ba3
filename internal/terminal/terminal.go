// Package terminal connects an interpreter to a terminal.
//
// Frontends differ in how lines are edited: readline and liner provide history and
// completion, ishell owns its own loop and feeds raw lines to Execute, and plain
// reads delimited frames from any reader. Auto picks readline when both ends are a
// terminal and plain otherwise.
package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"cmdshell/internal/logger"
	"cmdshell/pkg/interpreter"
	"cmdshell/pkg/registry"
)

// Frontend names.
const (
	FrontendAuto     = "auto"
	FrontendReadline = "readline"
	FrontendLiner    = "liner"
	FrontendIShell   = "ishell"
	FrontendPlain    = "plain"
)

// Options configure a frontend.
type Options struct {
	Frontend      string
	HistoryFile   string
	Stdin         io.Reader
	Stdout        io.Writer
	SourceOptions []interpreter.SourceOption
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsInteractive reports whether both input and output are terminals.
func IsInteractive(in io.Reader, out io.Writer) bool {
	return IsTerminal(in) && IsTerminal(out)
}

// Resolve returns the concrete frontend for opts, expanding auto.
func Resolve(opts Options) string {
	if opts.Frontend != "" && opts.Frontend != FrontendAuto {
		return opts.Frontend
	}
	if IsInteractive(opts.Stdin, opts.Stdout) {
		return FrontendReadline
	}
	return FrontendPlain
}

// Run drives interp with the frontend selected by opts until input ends or the
// session exits.
func Run(ctx context.Context, interp *interpreter.Interpreter, opts Options) error {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	frontend := Resolve(opts)
	logger.Debug("Starting frontend", "frontend", frontend, "session", interp.ID())

	switch frontend {
	case FrontendReadline:
		src, err := NewReadlineSource(interp.Registry(), opts)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()
		return interp.Run(ctx, src)
	case FrontendLiner:
		src := NewLinerSource(interp.Registry(), opts.HistoryFile)
		defer func() { _ = src.Close() }()
		return interp.Run(ctx, src)
	case FrontendIShell:
		return RunIShell(ctx, interp, opts)
	case FrontendPlain:
		return interp.Run(ctx, interpreter.NewReaderSource(opts.Stdin, opts.SourceOptions...))
	default:
		return fmt.Errorf("unknown frontend: %s", frontend)
	}
}

// completeCommand returns the registered names that extend prefix.
func completeCommand(view registry.View, prefix string) []string {
	var matches []string
	for _, name := range view.Names() {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	return matches
}
