package interpreter

import (
	"errors"
	"fmt"

	"cmdshell/pkg/shelltypes"
)

type detailer interface {
	Detail() string
}

// FormatError renders a failed result as "error: <kind>: <detail>".
func FormatError(r shelltypes.Result) string {
	var d detailer
	detail := ""
	switch {
	case errors.As(r.Err, &d):
		detail = d.Detail()
	case r.Err != nil:
		detail = r.Err.Error()
	}
	return fmt.Sprintf("error: %s: %s", r.Kind, detail)
}

// FormatResult renders r the way the loop reports it. A success with a nil value
// renders as the empty string.
func FormatResult(r shelltypes.Result) string {
	if !r.OK() {
		return FormatError(r)
	}
	if r.Value == nil {
		return ""
	}
	return fmt.Sprint(r.Value)
}

func (i *Interpreter) report(r shelltypes.Result) {
	switch {
	case !r.OK():
		i.printer.Error(FormatError(r))
	case r.Value != nil:
		i.printer.Success(fmt.Sprint(r.Value))
	}
}
