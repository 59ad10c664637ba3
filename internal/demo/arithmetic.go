package demo

import (
	"context"
	"errors"
	"io"

	"cmdshell/pkg/shelltypes"
)

// ErrDivisionByZero is returned by div when the divisor is zero.
var ErrDivisionByZero = errors.New("division by zero")

// AddCommand sums any number of integers.
type AddCommand struct{}

// Descriptor returns the add command.
func (c *AddCommand) Descriptor() *shelltypes.Descriptor {
	return &shelltypes.Descriptor{
		Name: "add",
		Params: []shelltypes.ParameterSpec{
			shelltypes.IntParam("values").AsRest().
				WithDefault(shelltypes.ListValue(shelltypes.TypeInt, nil)).
				WithDescription("integers to add, decimal or 0x hex"),
		},
		Handler: c.Execute,
		Help:    "adds integers (e.g: 'add 1 -5 0xab')",
	}
}

// Execute returns the sum of the bound integers.
func (c *AddCommand) Execute(_ context.Context, args shelltypes.Args, _ io.Writer) (any, error) {
	var sum int64
	for _, v := range args.List(0) {
		sum += v.Int()
	}
	return sum, nil
}

// DivideCommand divides two numbers.
type DivideCommand struct{}

// Descriptor returns the div command.
func (c *DivideCommand) Descriptor() *shelltypes.Descriptor {
	return &shelltypes.Descriptor{
		Name: "div",
		Params: []shelltypes.ParameterSpec{
			shelltypes.FloatParam("a").WithDescription("dividend"),
			shelltypes.FloatParam("b").WithDescription("divisor"),
		},
		Handler: c.Execute,
		Help:    "divides a by b",
	}
}

// Execute returns a/b, failing on a zero divisor.
func (c *DivideCommand) Execute(_ context.Context, args shelltypes.Args, _ io.Writer) (any, error) {
	b := args.Float(1)
	if b == 0 {
		return nil, ErrDivisionByZero
	}
	return args.Float(0) / b, nil
}
