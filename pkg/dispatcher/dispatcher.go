// Package dispatcher resolves an invocation against a command registry, binds its
// arguments and runs the handler, producing exactly one shelltypes.Result per call.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"cmdshell/internal/logger"
	"cmdshell/pkg/binder"
	"cmdshell/pkg/shelltypes"
)

// DefaultSuggestions is the number of near-miss names attached to unknown command errors.
const DefaultSuggestions = 3

// Resolver looks up descriptors by name. *registry.Registry implements it.
type Resolver interface {
	Lookup(name string) (*shelltypes.Descriptor, error)
	Suggest(name string, maxResults int) []string
}

// Dispatcher runs invocations against a Resolver.
// It holds no per-call state; a single Dispatcher may serve concurrent calls.
type Dispatcher struct {
	resolver    Resolver
	suggestions int
	logger      *log.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSuggestions sets how many suggestions accompany an unknown command. Zero disables them.
func WithSuggestions(n int) Option {
	return func(d *Dispatcher) {
		if n >= 0 {
			d.suggestions = n
		}
	}
}

// WithLogger sets the dispatcher's logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a dispatcher over resolver.
func New(resolver Resolver, options ...Option) *Dispatcher {
	d := &Dispatcher{
		resolver:    resolver,
		suggestions: DefaultSuggestions,
	}
	for _, opt := range options {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.NewStyledLogger("Dispatcher")
	}
	return d
}

// Dispatch looks up inv.Name, binds inv.Args and invokes the handler with out as its sink.
//
// An unknown name never reaches binding. A binding failure never reaches the handler.
// A handler error or panic is reported as a handler error result; a handler returning
// shelltypes.ErrExit yields a successful result with Exit set.
func (d *Dispatcher) Dispatch(ctx context.Context, inv shelltypes.Invocation, out io.Writer) shelltypes.Result {
	desc, err := d.resolver.Lookup(inv.Name)
	if err != nil {
		var unknown *shelltypes.UnknownCommandError
		if errors.As(err, &unknown) && d.suggestions > 0 {
			unknown.Suggestions = d.resolver.Suggest(inv.Name, d.suggestions)
		}
		d.logger.Debug("Unknown command", "command", inv.Name)
		return shelltypes.Failure(inv.Name, err)
	}

	args, err := binder.Bind(inv.Args, desc.Params)
	if err != nil {
		d.logger.Debug("Argument binding failed", "command", desc.Name, "error", err)
		return shelltypes.Failure(desc.Name, err)
	}

	d.logger.Debug("Dispatching", "command", desc.Name, "args", len(inv.Args))
	value, err := invoke(ctx, desc, args, out)
	if err == nil {
		return shelltypes.Success(desc.Name, value)
	}
	err, exit := classify(desc.Name, err)
	if exit {
		result := shelltypes.Success(desc.Name, value)
		result.Exit = true
		return result
	}
	d.logger.Debug("Handler failed", "command", desc.Name, "error", err)
	return shelltypes.Failure(desc.Name, err)
}

// errHandlerFailed stands in for a handler error that carries no payload.
var errHandlerFailed = errors.New("handler failed")

// classify turns a handler's error into a *shelltypes.HandlerError that is safe to
// render, or reports an exit request. Errors that panic when inspected become
// handler errors describing the panic.
func classify(command string, err error) (out error, exit bool) {
	defer func() {
		if r := recover(); r != nil {
			out = &shelltypes.HandlerError{Command: command, Err: fmt.Errorf("unusable error value: %v", r)}
			exit = false
		}
	}()

	if handlerErr, ok := err.(*shelltypes.HandlerError); ok && handlerErr == nil {
		return &shelltypes.HandlerError{Command: command, Err: errHandlerFailed}, false
	}
	if errors.Is(err, shelltypes.ErrExit) {
		return nil, true
	}
	var handlerErr *shelltypes.HandlerError
	if errors.As(err, &handlerErr) {
		if handlerErr.Err == nil {
			name := command
			if handlerErr.Command != "" {
				name = handlerErr.Command
			}
			return &shelltypes.HandlerError{Command: name, Err: errHandlerFailed}, false
		}
		_ = handlerErr.Error()
		return handlerErr, false
	}
	_ = err.Error()
	return &shelltypes.HandlerError{Command: command, Err: err}, false
}

// invoke runs the handler, converting a panic into an error.
func invoke(ctx context.Context, desc *shelltypes.Descriptor, args shelltypes.Args, out io.Writer) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = &shelltypes.HandlerError{Command: desc.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return desc.Handler(ctx, args, out)
}
