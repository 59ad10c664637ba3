package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cmdshell/internal/demo"
	"cmdshell/internal/docs"
	"cmdshell/internal/golden"
	"cmdshell/internal/logger"
	"cmdshell/internal/output"
	"cmdshell/internal/terminal"
	"cmdshell/internal/version"
	"cmdshell/pkg/interpreter"
)

// defaultGoldenDir is where golden suites live unless --dir is given.
const defaultGoldenDir = "testdata/golden"

func (app *App) newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start interactive shell mode",
		Long: `Start the interactive shell. The frontend is chosen with --frontend;
auto picks readline on a terminal and plain line reading otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runShell(cmd)
		},
	}
}

func (app *App) runShell(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	interp, err := app.newInterpreter(out, out)
	if err != nil {
		return err
	}

	opts := terminal.Options{
		Frontend:      app.Config.Frontend,
		HistoryFile:   app.Config.HistoryFile,
		Stdin:         cmd.InOrStdin(),
		Stdout:        out,
		SourceOptions: app.Config.SourceOptions(),
	}
	frontend := terminal.Resolve(opts)
	logger.Debug("Starting cmdshell", "version", version.GetVersion(), "frontend", frontend)

	if frontend != terminal.FrontendPlain {
		p := app.printer(out)
		p.Info(version.GetFormattedVersion())
		p.Println("Type 'help' for commands or 'exit' to quit.")
	}
	return loopError(terminal.Run(cmd.Context(), interp, opts))
}

func (app *App) newBatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <script>",
		Short: "Execute a script file in batch mode",
		Long: `Execute a script file line by line without prompts.
Use "-" to read the script from standard input. With --stop-on-error the run ends
at the first failed line and the command exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runBatch(cmd, args[0])
		},
	}
}

func (app *App) runBatch(cmd *cobra.Command, scriptPath string) error {
	var script io.Reader = cmd.InOrStdin()
	if scriptPath != "-" {
		if err := validateScriptFile(scriptPath); err != nil {
			return err
		}
		f, err := os.Open(scriptPath)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer func() { _ = f.Close() }()
		// the script file belongs to this run, so read-ahead is safe
		script = bufio.NewReader(f)
	}

	interp, err := app.newInterpreter(cmd.OutOrStdout(), io.Discard)
	if err != nil {
		return err
	}
	logger.Debug("Running script", "script", scriptPath, "session", interp.ID())
	return loopError(interp.Run(cmd.Context(), interpreter.NewReaderSource(script, app.Config.SourceOptions()...)))
}

func validateScriptFile(scriptPath string) error {
	info, err := os.Stat(scriptPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("script file does not exist: %s", scriptPath)
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("script path is a directory: %s", scriptPath)
	}
	return nil
}

func (app *App) runLine(cmd *cobra.Command, line string) error {
	interp, err := app.newInterpreter(cmd.OutOrStdout(), io.Discard)
	if err != nil {
		return err
	}
	result := interp.Execute(cmd.Context(), line)
	if !result.OK() {
		return fmt.Errorf("%w: %w", errCommandFailed, result.Err)
	}
	return nil
}

func (app *App) newDocsCommand() *cobra.Command {
	var format string
	docsCmd := &cobra.Command{
		Use:   "docs",
		Short: "Print the command reference",
		Long: `Print the reference of every registered command as markdown or YAML.
Markdown is rendered for the terminal when the output style allows it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			interp, err := app.newInterpreter(io.Discard, io.Discard)
			if err != nil {
				return err
			}
			return docs.Write(out, app.printer(out), docs.Build(interp.Registry()), format)
		},
	}
	docsCmd.Flags().StringVarP(&format, "format", "f", docs.FormatMarkdown, "Output format (markdown|yaml)")
	return docsCmd
}

func (app *App) newGoldenCommand() *cobra.Command {
	var (
		dir   string
		quiet bool
	)
	goldenCmd := &cobra.Command{
		Use:   "golden",
		Short: "Record and verify golden transcripts",
		Long: `Run the scripts of a golden suite against a fresh interpreter and compare
their output with the recorded transcripts.`,
	}
	goldenCmd.PersistentFlags().StringVar(&dir, "dir", defaultGoldenDir, "Golden suite directory")
	goldenCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Report only through the exit code")

	recordCmd := &cobra.Command{
		Use:   "record [testname...]",
		Short: "Record expected transcripts",
		Long: `Run the named cases, or every case, and save their output as the expected
transcript. Use this after verifying that the new behavior is correct.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := app.goldenRunner(cmd, dir, quiet, args)
			if err != nil {
				return err
			}
			return runner.RecordAll(cmd.Context())
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify [testname...]",
		Short: "Verify transcripts",
		Long: `Run the named cases, or every case, and compare their output with the
expected transcripts. Returns a non-zero exit code if any case fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := app.goldenRunner(cmd, dir, quiet, args)
			if err != nil {
				return err
			}
			_, err = runner.VerifyAll(cmd.Context())
			return err
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff <testname>",
		Short: "Show differences between expected and actual output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := app.goldenRunner(cmd, dir, quiet, nil)
			if err != nil {
				return err
			}
			return runner.Diff(cmd.Context(), args[0])
		},
	}

	goldenCmd.AddCommand(recordCmd, verifyCmd, diffCmd)
	return goldenCmd
}

func (app *App) goldenRunner(cmd *cobra.Command, dir string, quiet bool, names []string) (*golden.Runner, error) {
	suite, err := golden.LoadSuite(dir)
	if err != nil {
		return nil, err
	}
	suite, err = suite.Subset(names...)
	if err != nil {
		return nil, err
	}
	printer := app.printer(cmd.OutOrStdout())
	if quiet {
		printer = output.NewPrinter(output.Silent())
	}
	return golden.NewRunner(suite, newDemoInterpreter, printer), nil
}

// newDemoInterpreter builds golden case interpreters independent of user configuration.
func newDemoInterpreter(options ...interpreter.Option) (*interpreter.Interpreter, error) {
	interp := interpreter.New(options...)
	return interp, demo.Register(interp)
}

func (app *App) newVersionCommand() *cobra.Command {
	var (
		detailed bool
		format   string
	)
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the version of cmdshell, optionally as YAML or JSON.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			switch format {
			case "":
				if detailed {
					_, err := fmt.Fprintln(out, version.GetDetailedVersion())
					return err
				}
				_, err := fmt.Fprintln(out, version.GetFormattedVersion())
				return err
			case "yaml", "json":
				return writeVersionInfo(out, format)
			default:
				return fmt.Errorf("unknown output format %q (expected yaml or json)", format)
			}
		},
	}
	versionCmd.Flags().BoolVar(&detailed, "detailed", false, "Show build and platform details")
	versionCmd.Flags().StringVarP(&format, "output", "o", "", "Structured output format (yaml|json)")
	return versionCmd
}

func writeVersionInfo(w io.Writer, format string) error {
	info, err := version.GetInfo()
	if err != nil {
		return err
	}
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(info); err != nil {
		return err
	}
	return enc.Close()
}
