// Package main provides the cmdshell CLI application entry point.
// cmdshell runs an embeddable command interpreter over a terminal, a script or a
// single line, with a small demo command set registered.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	app := NewApp()
	rootCmd := app.CreateRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Failures from the interpreter were already reported on its output.
		if !errors.Is(err, errCommandFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
