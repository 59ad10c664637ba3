package shelltypes

import "errors"

// Invocation is a parsed command name plus its remaining argument tokens for one input line.
type Invocation struct {
	Name string
	Args []string
}

// NewInvocation splits tokens into the command name and its arguments.
// It returns false when tokens is empty.
func NewInvocation(tokens []string) (Invocation, bool) {
	if len(tokens) == 0 {
		return Invocation{}, false
	}
	return Invocation{Name: tokens[0], Args: append([]string(nil), tokens[1:]...)}, true
}

// ResultKind tags an ExecutionResult.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultParseError
	ResultUnknownCommand
	ResultArgumentError
	ResultHandlerError
)

// String returns the kind as used in the rendered "error: <kind>: <detail>" line.
func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultParseError:
		return "parse"
	case ResultUnknownCommand:
		return "unknown command"
	case ResultArgumentError:
		return "argument"
	case ResultHandlerError:
		return "handler"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of dispatching one invocation.
type Result struct {
	Kind    ResultKind
	Command string
	// Value is the handler's return value on success; it may be nil.
	Value any
	// Err is one of *ParseError, *UnknownCommandError, *ArgumentError or *HandlerError.
	Err error
	// Exit is set when the handler returned ErrExit.
	Exit bool
}

// Success returns a successful result.
func Success(command string, value any) Result {
	return Result{Kind: ResultSuccess, Command: command, Value: value}
}

// Failure classifies err into the matching result kind.
// Errors outside the taxonomy are wrapped as handler errors.
func Failure(command string, err error) Result {
	r := Result{Command: command, Err: err}
	var (
		parseErr   *ParseError
		unknownErr *UnknownCommandError
		argErr     *ArgumentError
		handlerErr *HandlerError
	)
	switch {
	case errors.As(err, &handlerErr):
		r.Kind = ResultHandlerError
		r.Err = handlerErr
	case errors.As(err, &parseErr):
		r.Kind = ResultParseError
		r.Err = parseErr
	case errors.As(err, &unknownErr):
		r.Kind = ResultUnknownCommand
		r.Err = unknownErr
	case errors.As(err, &argErr):
		r.Kind = ResultArgumentError
		r.Err = argErr
	default:
		r.Kind = ResultHandlerError
		r.Err = &HandlerError{Command: command, Err: err}
	}
	return r
}

// OK reports whether the result is a success.
func (r Result) OK() bool { return r.Kind == ResultSuccess }
