package demo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cmdshell/internal/output"
	"cmdshell/pkg/binder"
	"cmdshell/pkg/shelltypes"
)

// parseTargets are the conversions the parse command tries, in order.
var parseTargets = []shelltypes.ParameterSpec{
	shelltypes.IntParam("value").WithBits(32),
	shelltypes.BoolParam("value"),
	shelltypes.UintParam("value", 8),
	shelltypes.UintParam("value", 32),
	shelltypes.FloatParam("value"),
}

// ParseCommand reports how each argument converts to every argument type.
type ParseCommand struct{}

// Descriptor returns the parse command.
func (c *ParseCommand) Descriptor() *shelltypes.Descriptor {
	return &shelltypes.Descriptor{
		Name: "parse",
		Params: []shelltypes.ParameterSpec{
			shelltypes.StringParam("tokens").AsRest().
				WithDefault(shelltypes.ListValue(shelltypes.TypeString, nil)),
		},
		Handler: c.Execute,
		Help:    "parse arguments to several types",
	}
}

// Execute writes one block per token to out.
func (c *ParseCommand) Execute(_ context.Context, args shelltypes.Args, out io.Writer) (any, error) {
	for _, token := range args.Strings(0) {
		if _, err := fmt.Fprintf(out, "parsing: '%s'\n", token); err != nil {
			return nil, err
		}
		for _, target := range parseTargets {
			if _, err := fmt.Fprintf(out, "  as %s[ %s ]\n", output.PadRight(target.TypeName(), 16), describe(token, target)); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

func describe(token string, target shelltypes.ParameterSpec) string {
	v, err := binder.Coerce(token, target)
	if err != nil {
		var argErr *shelltypes.ArgumentError
		if errors.As(err, &argErr) && argErr.Err != nil {
			return fmt.Sprintf("%s: %v", argErr.Reason, argErr.Err)
		}
		return err.Error()
	}
	return fmt.Sprint(v.Interface())
}
