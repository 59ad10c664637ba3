package interpreter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cmdshell/internal/output"
	"cmdshell/pkg/registry"
	"cmdshell/pkg/shelltypes"
)

// HelpCommand is the name of the built-in help command.
const HelpCommand = "help"

const helpNameWidth = 10

// helpDescriptor builds the help command over a read-only view of the registry it
// is registered in.
func helpDescriptor(view registry.View, printer *output.Printer) *shelltypes.Descriptor {
	return &shelltypes.Descriptor{
		Name: HelpCommand,
		Params: []shelltypes.ParameterSpec{
			shelltypes.StringParam("command").
				WithDefault(shelltypes.StringValue("")).
				WithDescription("command to describe"),
		},
		Help: "this help message",
		Handler: func(_ context.Context, args shelltypes.Args, out io.Writer) (any, error) {
			name := args.Text(0)
			if name == "" {
				return nil, writeCommandList(out, view, printer)
			}
			d, err := view.Lookup(name)
			if err != nil {
				return nil, fmt.Errorf("not a command: %s", name)
			}
			return nil, writeCommandHelp(out, d, printer)
		},
	}
}

func writeCommandList(out io.Writer, view registry.View, printer *output.Printer) error {
	var b strings.Builder
	b.WriteString(printer.Styled(output.SemanticHighlight, "Available commands:"))
	b.WriteByte('\n')
	for d := range view.List() {
		name := printer.Styled(output.SemanticCommand, d.Name)
		b.WriteString(output.PadRight(name, helpNameWidth-1))
		b.WriteByte(' ')
		b.WriteString(d.Help)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func writeCommandHelp(out io.Writer, d *shelltypes.Descriptor, printer *output.Printer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "usage: %s\n", printer.Styled(output.SemanticUsage, d.Usage()))
	if len(d.Aliases) > 0 {
		fmt.Fprintf(&b, "aliases: %s\n", strings.Join(d.Aliases, ", "))
	}
	if d.Help == "" {
		b.WriteString("no help available\n")
	} else {
		b.WriteString(d.Help)
		b.WriteByte('\n')
	}
	for _, p := range d.Params {
		if p.Description == "" {
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", output.PadRight(p.Name, helpNameWidth-1), p.Description)
	}
	_, err := io.WriteString(out, b.String())
	return err
}
