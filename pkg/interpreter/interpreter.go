// Package interpreter provides the read-evaluate loop of cmdshell.
//
// An Interpreter owns its command registry. Each line read from a LineSource is
// tokenized, dispatched and reported to the output sink before the next line is
// read:
//
//	interp := interpreter.New(interpreter.WithOutput(os.Stdout))
//	_ = interp.Register("add", params, handler, "adds integers")
//	err := interp.Run(ctx, interpreter.NewReaderSource(os.Stdin))
package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"cmdshell/internal/logger"
	"cmdshell/internal/output"
	"cmdshell/pkg/dispatcher"
	"cmdshell/pkg/registry"
	"cmdshell/pkg/shelltypes"
	"cmdshell/pkg/tokenizer"
)

// Interpreter registers commands and runs the read-evaluate loop.
type Interpreter struct {
	id         string
	registry   *registry.Registry
	dispatcher *dispatcher.Dispatcher
	tokenizer  *tokenizer.Tokenizer
	printer    *output.Printer
	promptOut  io.Writer
	logger     *log.Logger

	stopOnError     bool
	caseInsensitive bool
	helpOnUnknown   bool
	exitCommands    []string
	commentPrefix   string

	mu     sync.RWMutex
	prompt string

	stopped atomic.Bool
	state   atomic.Int32
}

// New creates an interpreter with its own registry. The built-in help command is
// registered unless WithoutHelp is given.
func New(options ...Option) *Interpreter {
	s := settings{
		out:           os.Stdout,
		promptOut:     io.Discard,
		prompt:        DefaultPrompt,
		exitCommands:  []string{"exit"},
		commentPrefix: DefaultCommentPrefix,
		suggestions:   dispatcher.DefaultSuggestions,
		mode:          output.ModeAuto,
	}
	for _, opt := range options {
		opt(&s)
	}
	if s.tokenizer == nil {
		s.tokenizer = tokenizer.New()
	}
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	if s.styles == nil {
		s.styles = output.DefaultTheme()
	}

	var regOptions []registry.Option
	var dispOptions []dispatcher.Option
	if s.caseInsensitive {
		regOptions = append(regOptions, registry.CaseInsensitive())
	}
	if s.logger != nil {
		regOptions = append(regOptions, registry.WithLogger(s.logger))
		dispOptions = append(dispOptions, dispatcher.WithLogger(s.logger))
	} else {
		s.logger = logger.NewStyledLogger("Interpreter")
	}
	dispOptions = append(dispOptions, dispatcher.WithSuggestions(s.suggestions))

	reg := registry.New(regOptions...)
	i := &Interpreter{
		id:              s.sessionID,
		registry:        reg,
		dispatcher:      dispatcher.New(reg, dispOptions...),
		tokenizer:       s.tokenizer,
		printer:         output.NewPrinter(output.WithWriter(s.out), output.WithMode(s.mode), output.WithStyles(s.styles)),
		promptOut:       s.promptOut,
		logger:          s.logger.With("session", s.sessionID),
		stopOnError:     s.stopOnError,
		caseInsensitive: s.caseInsensitive,
		helpOnUnknown:   s.helpOnUnknown,
		exitCommands:    s.exitCommands,
		commentPrefix:   s.commentPrefix,
		prompt:          s.prompt,
	}

	if !s.withoutHelp {
		reg.MustRegister(helpDescriptor(reg, i.printer))
	}
	return i
}

// ID returns the interpreter's session id.
func (i *Interpreter) ID() string {
	return i.id
}

// Register adds a command built from its parts. See RegisterCommand.
func (i *Interpreter) Register(name string, params []shelltypes.ParameterSpec, handler shelltypes.HandlerFunc, help string) error {
	return i.RegisterCommand(&shelltypes.Descriptor{
		Name:    name,
		Params:  params,
		Handler: handler,
		Help:    help,
	})
}

// RegisterCommand adds a copy of d to the interpreter's registry. Names reserved
// for the exit pseudo-command cannot be registered.
func (i *Interpreter) RegisterCommand(d *shelltypes.Descriptor) error {
	if d != nil {
		for _, name := range append([]string{d.Name}, d.Aliases...) {
			if i.isExit(name) {
				return fmt.Errorf("%w: %s is reserved for leaving the interpreter", shelltypes.ErrInvalidDescriptor, name)
			}
		}
	}
	return i.registry.Register(d)
}

// Unregister removes a command and its aliases.
func (i *Interpreter) Unregister(name string) error {
	return i.registry.Unregister(name)
}

// Registry returns a read-only view of the registered commands.
func (i *Interpreter) Registry() registry.View {
	return i.registry
}

// Printer returns the printer results are reported through.
func (i *Interpreter) Printer() *output.Printer {
	return i.printer
}

// Prompt returns the current prompt.
func (i *Interpreter) Prompt() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.prompt
}

// SetPrompt changes the prompt shown before the next read.
func (i *Interpreter) SetPrompt(prompt string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.prompt = prompt
}

// State returns the loop state.
func (i *Interpreter) State() State {
	return State(i.state.Load())
}

func (i *Interpreter) setState(s State) {
	if prev := State(i.state.Swap(int32(s))); prev != s {
		i.logger.Debug("State change", "state", s.String())
	}
}

// Stop asks the loop to end before reading the next line. It is safe to call
// from any goroutine; a handler in progress runs to completion. A Stop that lands
// before Run starts ends that Run before its first read.
func (i *Interpreter) Stop() {
	i.stopped.Store(true)
	i.logger.Debug("Stop requested")
}

// Stopping reports whether Stop was called since the last Run ended. Frontends
// that drive Execute themselves use it in place of Run's check.
func (i *Interpreter) Stopping() bool {
	return i.stopped.Load()
}

func (i *Interpreter) isExit(name string) bool {
	return slices.ContainsFunc(i.exitCommands, func(exit string) bool {
		if i.caseInsensitive {
			return strings.EqualFold(exit, name)
		}
		return exit == name
	})
}

func (i *Interpreter) isSkipped(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	return i.commentPrefix != "" && strings.HasPrefix(trimmed, i.commentPrefix)
}

// Execute processes one line and reports its outcome to the output sink.
// Blank and comment lines are no-ops that return an empty success.
// The exit pseudo-command returns a success with Exit set and nothing reported.
func (i *Interpreter) Execute(ctx context.Context, line string) shelltypes.Result {
	if i.isSkipped(line) {
		return shelltypes.Success("", nil)
	}

	tokens, err := i.tokenizer.Tokenize(line)
	if err != nil {
		result := shelltypes.Failure("", err)
		i.logger.Debug("Tokenize failed", "line", line, "error", err)
		i.report(result)
		return result
	}

	inv, ok := shelltypes.NewInvocation(tokens)
	if !ok {
		return shelltypes.Success("", nil)
	}
	if i.isExit(inv.Name) {
		i.logger.Debug("Exit command", "command", inv.Name)
		result := shelltypes.Success(inv.Name, nil)
		result.Exit = true
		return result
	}

	result := i.dispatcher.Dispatch(ctx, inv, i.printer)
	i.report(result)

	if result.Kind == shelltypes.ResultUnknownCommand && i.helpOnUnknown && i.registry.Has(HelpCommand) {
		i.report(i.dispatcher.Dispatch(ctx, shelltypes.Invocation{Name: HelpCommand}, i.printer))
	}
	return result
}

// Run drives the loop over src until end of input, the exit command, a handler
// returning shelltypes.ErrExit, Stop, or cancellation of ctx. It returns nil on a
// normal end, ctx.Err() on cancellation, the failing result's error in stop-on-error
// mode, and a wrapped source error when reading fails.
func (i *Interpreter) Run(ctx context.Context, src LineSource) error {
	i.setState(StateIdle)
	defer func() {
		i.stopped.Store(false)
		i.setState(StateTerminated)
	}()

	i.logger.Debug("Interpreter loop started")
	for {
		if i.stopped.Load() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		i.showPrompt(src)
		i.setState(StateAwaitingLine)

		line, err := src.NextLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				i.logger.Debug("End of input")
				return nil
			}
			var parseErr *shelltypes.ParseError
			if !errors.As(err, &parseErr) {
				return fmt.Errorf("reading input: %w", err)
			}
			i.setState(StateProcessing)
			result := shelltypes.Failure("", parseErr)
			i.report(result)
			if i.stopOnError {
				return result.Err
			}
			i.setState(StateIdle)
			continue
		}

		i.setState(StateProcessing)
		result := i.Execute(ctx, line)
		if result.Exit {
			return nil
		}
		if i.stopOnError && !result.OK() {
			return result.Err
		}
		i.setState(StateIdle)
	}
}

func (i *Interpreter) showPrompt(src LineSource) {
	prompt := i.Prompt()
	if setter, ok := src.(PromptSetter); ok {
		setter.SetPrompt(prompt)
		return
	}
	_, _ = io.WriteString(i.promptOut, prompt)
}
