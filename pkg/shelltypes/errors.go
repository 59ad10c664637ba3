package shelltypes

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is. The typed errors below match the
// corresponding sentinel.
var (
	ErrParse             = errors.New("parse error")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrArgument          = errors.New("argument error")
	ErrHandler           = errors.New("handler error")
	ErrDuplicateCommand  = errors.New("duplicate command")
	ErrInvalidDescriptor = errors.New("invalid command descriptor")

	// ErrExit is returned by a handler to ask the interpreter loop to terminate.
	ErrExit = errors.New("exit requested")
)

// ParseError reports malformed input, such as an unterminated quote.
type ParseError struct {
	// Pos is the 0-based rune offset of the offending character.
	Pos int
	Msg string
}

func (e *ParseError) Error() string { return "parse error: " + e.Detail() }

// Detail returns the message without the error kind.
func (e *ParseError) Detail() string {
	if e.Pos < 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// UnknownCommandError reports a command name that is not registered.
type UnknownCommandError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownCommandError) Error() string { return "unknown command: " + e.Detail() }

// Detail returns the command name and any suggestions.
func (e *UnknownCommandError) Detail() string {
	if len(e.Suggestions) == 0 {
		return e.Name
	}
	return fmt.Sprintf("%s (did you mean: %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

// Is matches ErrUnknownCommand.
func (e *UnknownCommandError) Is(target error) bool { return target == ErrUnknownCommand }

// Reason classifies an ArgumentError.
type Reason string

const (
	ReasonMissing      Reason = "missing"
	ReasonTypeMismatch Reason = "type mismatch"
	ReasonOutOfRange   Reason = "out of range"
	ReasonTooMany      Reason = "too many arguments"
)

// ArgumentError reports the first argument token that could not be bound.
type ArgumentError struct {
	// Index is the 0-based position of the argument token, not counting the command name.
	Index  int
	Param  string
	Reason Reason
	Token  string
	Err    error
}

func (e *ArgumentError) Error() string { return "argument " + e.Detail() }

// Detail returns the position, parameter and reason.
func (e *ArgumentError) Detail() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", e.Index)
	if e.Param != "" {
		fmt.Fprintf(&b, " (%s)", e.Param)
	}
	b.WriteString(": ")
	b.WriteString(string(e.Reason))
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// Is matches ErrArgument.
func (e *ArgumentError) Is(target error) bool { return target == ErrArgument }

// HandlerError wraps a failure signalled by a command handler. Err is the handler-defined payload.
type HandlerError struct {
	Command string
	Err     error
}

func (e *HandlerError) Error() string { return "handler error: " + e.Detail() }

// Detail returns the command name and the handler's message. A missing payload
// renders as "handler failed".
func (e *HandlerError) Detail() string {
	msg := "handler failed"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Command == "" {
		return msg
	}
	return e.Command + ": " + msg
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Is matches ErrHandler.
func (e *HandlerError) Is(target error) bool { return target == ErrHandler }

// DuplicateCommandError is returned when registering a name or alias that is already taken.
type DuplicateCommandError struct {
	Name string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("command %s already registered", e.Name)
}

// Is matches ErrDuplicateCommand.
func (e *DuplicateCommandError) Is(target error) bool { return target == ErrDuplicateCommand }
