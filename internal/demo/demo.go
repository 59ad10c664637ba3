// Package demo provides the sample command set installed by the cmdshell binary.
//
// Each command is a small type exposing its descriptor, registered on an
// interpreter with Register. Commands that keep state (led) hold it per Set, so
// two interpreters never share LED bits.
package demo

import (
	"fmt"

	"cmdshell/pkg/interpreter"
	"cmdshell/pkg/shelltypes"
)

// Command is a demo command that can describe itself.
type Command interface {
	Descriptor() *shelltypes.Descriptor
}

// Set is the demo command set bound to one interpreter.
type Set struct {
	commands []Command
}

// NewSet builds the demo commands for interp.
func NewSet(interp *interpreter.Interpreter) *Set {
	leds := &LEDBank{}
	return &Set{commands: []Command{
		&AddCommand{},
		&LEDCommand{bank: leds},
		&LEDStatusCommand{bank: leds},
		&ParseCommand{},
		&PromptCommand{interp: interp},
		&EchoCommand{},
		&DivideCommand{},
		&ModeCommand{printer: interp.Printer()},
	}}
}

// Commands returns the commands in registration order.
func (s *Set) Commands() []Command {
	return append([]Command(nil), s.commands...)
}

// Register installs every command of a fresh set on interp.
func Register(interp *interpreter.Interpreter) error {
	for _, cmd := range NewSet(interp).Commands() {
		d := cmd.Descriptor()
		if err := interp.RegisterCommand(d); err != nil {
			return fmt.Errorf("failed to register %s: %w", d.Name, err)
		}
	}
	return nil
}
