package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"cmdshell/internal/config"
	"cmdshell/internal/demo"
	"cmdshell/internal/logger"
	"cmdshell/internal/output"
	"cmdshell/internal/testutils"
	"cmdshell/pkg/interpreter"
	"cmdshell/pkg/shelltypes"
)

// errCommandFailed marks failures the interpreter has already reported.
var errCommandFailed = errors.New("command failed")

// flagKeys maps persistent flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":        config.KeyLogLevel,
	"log-file":         config.KeyLogFile,
	"test-mode":        config.KeyTestMode,
	"prompt":           config.KeyPrompt,
	"stop-on-error":    config.KeyStopOnError,
	"case-insensitive": config.KeyCaseInsensitive,
	"comment-prefix":   config.KeyCommentPrefix,
	"max-line-length":  config.KeyMaxLineLength,
	"frontend":         config.KeyFrontend,
	"history-file":     config.KeyHistoryFile,
	"style":            config.KeyStyle,
	"suggestions":      config.KeySuggestions,
}

// App holds the CLI state shared by all subcommands.
type App struct {
	v          *viper.Viper
	Config     *config.Config
	configFile string
	noConfig   bool
	command    string
}

// NewApp creates an App with its own viper instance.
func NewApp() *App {
	return &App{v: viper.New()}
}

// CreateRootCommand builds the command tree.
func (app *App) CreateRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cmdshell",
		Short: "cmdshell - an embeddable command interpreter",
		Long: `cmdshell reads lines, splits them into a command name and arguments,
converts the arguments to the types the command declares and runs it.
Without a subcommand it starts the interactive shell.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.initConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("command") {
				return app.runLine(cmd, app.command)
			}
			return app.runShell(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String("log-file", "", "Write logs to file instead of stderr")
	flags.Bool("test-mode", false, "Run in deterministic test mode")
	flags.String("prompt", interpreter.DefaultPrompt, "Prompt written before each read")
	flags.Bool("stop-on-error", false, "Stop at the first failed line")
	flags.Bool("case-insensitive", false, "Match command names case-insensitively")
	flags.String("comment-prefix", interpreter.DefaultCommentPrefix, "Prefix of lines that are skipped")
	flags.Int("max-line-length", 0, "Reject lines longer than this many bytes (0 for no limit)")
	flags.String("frontend", "auto", "Interactive frontend (auto|readline|liner|ishell|plain)")
	flags.String("history-file", "", "History file for the readline and liner frontends")
	flags.String("style", output.ModeAuto.String(), "Output style (auto|plain|styled)")
	flags.Int("suggestions", 3, "How many similar names to suggest for an unknown command")
	flags.StringVar(&app.configFile, "config", "", "Config file (default: ./.cmdshell.yaml or the user config dir)")
	flags.BoolVar(&app.noConfig, "no-config", false, "Ignore config and .env files")

	rootCmd.Flags().StringVarP(&app.command, "command", "c", "", "Execute one line and exit")

	rootCmd.AddCommand(
		app.newShellCommand(),
		app.newBatchCommand(),
		app.newDocsCommand(),
		app.newGoldenCommand(),
		app.newVersionCommand(),
	)
	return rootCmd
}

// initConfig binds flags, loads the configuration and configures the logger before
// any command runs.
func (app *App) initConfig(cmd *cobra.Command, _ []string) error {
	if err := app.bindFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}

	cfg, paths, err := config.Load(app.v, config.Options{
		ConfigFile: app.configFile,
		SkipFiles:  app.noConfig,
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile, cfg.TestMode); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}

	logger.Debug("Configuration loaded",
		"config_file", paths.ConfigFile,
		"config_env", paths.ConfigEnvLoaded,
		"local_env", paths.LocalEnvLoaded)
	app.Config = cfg
	return nil
}

func (app *App) bindFlags(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := app.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("error binding %s flag: %w", name, err)
		}
	}
	return nil
}

// newInterpreter creates an interpreter from the loaded configuration with the
// demo commands registered.
func (app *App) newInterpreter(out, promptOut io.Writer) (*interpreter.Interpreter, error) {
	options := append(app.Config.InterpreterOptions(),
		interpreter.WithOutput(out),
		interpreter.WithPromptWriter(promptOut),
		interpreter.WithSessionID(testutils.GenerateID(app.Config.TestMode)),
	)
	interp := interpreter.New(options...)
	if err := demo.Register(interp); err != nil {
		return nil, err
	}
	return interp, nil
}

// printer returns a printer for CLI messages written to w.
func (app *App) printer(w io.Writer) *output.Printer {
	options := []output.Option{
		output.WithWriter(w),
		output.WithMode(app.Config.StyleMode()),
		output.WithStyles(output.DefaultTheme()),
	}
	if app.Config.TestMode {
		options = append(options, output.TestMode())
	}
	return output.NewPrinter(options...)
}

// loopError marks run-loop failures as already reported.
func loopError(err error) error {
	for _, kind := range []error{shelltypes.ErrParse, shelltypes.ErrUnknownCommand, shelltypes.ErrArgument, shelltypes.ErrHandler} {
		if errors.Is(err, kind) {
			return fmt.Errorf("%w: %w", errCommandFailed, err)
		}
	}
	return err
}
