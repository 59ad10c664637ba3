package demo

import (
	"context"
	"fmt"
	"io"
	"sync"

	"cmdshell/pkg/shelltypes"
)

// LEDCount is the number of LEDs in a bank.
const LEDCount = 3

// LEDBank holds the on/off state of a row of LEDs.
type LEDBank struct {
	mu   sync.Mutex
	bits uint8
}

// Set switches LED index on or off.
func (b *LEDBank) Set(index uint, on bool) error {
	if index >= LEDCount {
		return fmt.Errorf("no LED %d (have %d)", index, LEDCount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if on {
		b.bits |= 1 << index
	} else {
		b.bits &^= 1 << index
	}
	return nil
}

// String renders the bank with LED 0 rightmost, e.g. "010".
func (b *LEDBank) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fmt.Sprintf("%0*b", LEDCount, b.bits)
}

// LEDCommand sets one LED.
type LEDCommand struct {
	bank *LEDBank
}

// Descriptor returns the led command.
func (c *LEDCommand) Descriptor() *shelltypes.Descriptor {
	return &shelltypes.Descriptor{
		Name: "led",
		Params: []shelltypes.ParameterSpec{
			shelltypes.UintParam("index", 8).WithRange(0, LEDCount-1).WithDescription("LED number"),
			shelltypes.BoolParam("state").WithDescription("on (1) or off (0)"),
		},
		Handler: c.Execute,
		Help:    "usage: led <index> <0|1>",
	}
}

// Execute updates the bank and prints nothing.
func (c *LEDCommand) Execute(_ context.Context, args shelltypes.Args, _ io.Writer) (any, error) {
	return nil, c.bank.Set(uint(args.Uint(0)), args.Bool(1))
}

// LEDStatusCommand prints the bank.
type LEDStatusCommand struct {
	bank *LEDBank
}

// Descriptor returns the leds command.
func (c *LEDStatusCommand) Descriptor() *shelltypes.Descriptor {
	return &shelltypes.Descriptor{
		Name:    "leds",
		Handler: c.Execute,
		Help:    "shows the LED status",
	}
}

// Execute returns the status line.
func (c *LEDStatusCommand) Execute(_ context.Context, _ shelltypes.Args, _ io.Writer) (any, error) {
	return "Led status: " + c.bank.String(), nil
}
