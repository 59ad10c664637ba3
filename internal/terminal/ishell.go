package terminal

import (
	"context"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"

	"cmdshell/pkg/interpreter"
)

// RunIShell runs interp inside an ishell loop. ishell's own commands are removed
// and every line is routed through NotFound to Execute. ishell shell-splits each
// line before handing it over, which changes the input grammar:
//   - runs of spaces inside quotes collapse to one
//   - an unterminated quote is reported by ishell and never reaches the interpreter
//   - a trailing backslash continues the line and "<<" starts a heredoc
//
// Use the readline or liner frontend when lines must be read verbatim.
func RunIShell(ctx context.Context, interp *interpreter.Interpreter, opts Options) error {
	cfg := &readline.Config{
		Prompt:      interp.Prompt(),
		HistoryFile: opts.HistoryFile,
		AutoComplete: &commandCompleter{
			view: interp.Registry(),
		},
	}
	sh := ishell.NewWithConfig(cfg)
	sh.DeleteCmd("exit")
	sh.DeleteCmd("help")
	sh.DeleteCmd("clear")

	sh.NotFound(func(c *ishell.Context) {
		if handleIShellLine(ctx, interp, c.RawArgs) {
			c.Stop()
			return
		}
		c.SetPrompt(interp.Prompt())
	})
	sh.EOF(func(c *ishell.Context) {
		c.Stop()
	})
	sh.Interrupt(func(c *ishell.Context, count int, _ string) {
		if count >= 2 {
			c.Stop()
			return
		}
		c.Println("Input Ctrl-c once more to exit")
	})

	sh.Run()
	sh.Close()
	return ctx.Err()
}

// handleIShellLine executes one line and reports whether the session should end.
func handleIShellLine(ctx context.Context, interp *interpreter.Interpreter, rawArgs []string) bool {
	if ctx.Err() != nil {
		return true
	}
	if len(rawArgs) == 0 {
		return false
	}
	result := interp.Execute(ctx, strings.Join(rawArgs, " "))
	return result.Exit || interp.Stopping()
}
