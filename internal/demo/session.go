package demo

import (
	"context"
	"io"
	"strings"

	"cmdshell/internal/output"
	"cmdshell/pkg/shelltypes"
)

// PromptSetter is satisfied by *interpreter.Interpreter.
type PromptSetter interface {
	SetPrompt(prompt string)
}

// PromptCommand changes the interpreter prompt.
type PromptCommand struct {
	interp PromptSetter
}

// Descriptor returns the ps command.
func (c *PromptCommand) Descriptor() *shelltypes.Descriptor {
	return &shelltypes.Descriptor{
		Name: "ps",
		Params: []shelltypes.ParameterSpec{
			shelltypes.StringParam("prompt").WithDescription("new prompt string"),
		},
		Handler: c.Execute,
		Help:    "change prompt string",
	}
}

// Execute sets the prompt used from the next read on.
func (c *PromptCommand) Execute(_ context.Context, args shelltypes.Args, _ io.Writer) (any, error) {
	c.interp.SetPrompt(args.Text(0))
	return nil, nil
}

// EchoCommand prints its arguments.
type EchoCommand struct{}

// Descriptor returns the echo command.
func (c *EchoCommand) Descriptor() *shelltypes.Descriptor {
	return &shelltypes.Descriptor{
		Name: "echo",
		Params: []shelltypes.ParameterSpec{
			shelltypes.StringParam("words").AsRest().
				WithDefault(shelltypes.ListValue(shelltypes.TypeString, nil)),
		},
		Handler: c.Execute,
		Help:    "prints its arguments separated by spaces",
	}
}

// Execute joins the words with single spaces.
func (c *EchoCommand) Execute(_ context.Context, args shelltypes.Args, _ io.Writer) (any, error) {
	return strings.Join(args.Strings(0), " "), nil
}

// ModeCommand switches the output style of the session.
type ModeCommand struct {
	printer *output.Printer
}

// Descriptor returns the mode command.
func (c *ModeCommand) Descriptor() *shelltypes.Descriptor {
	return &shelltypes.Descriptor{
		Name: "mode",
		Params: []shelltypes.ParameterSpec{
			shelltypes.ChoiceParam("style", output.ModeAuto.String(), output.ModePlain.String(), output.ModeStyled.String()).
				WithDescription("output style"),
		},
		Handler: c.Execute,
		Help:    "switches between plain and styled output",
	}
}

// Execute applies the chosen mode.
func (c *ModeCommand) Execute(_ context.Context, args shelltypes.Args, _ io.Writer) (any, error) {
	mode, err := output.ParseMode(args.Text(0))
	if err != nil {
		return nil, err
	}
	c.printer.SetMode(mode)
	return nil, nil
}
