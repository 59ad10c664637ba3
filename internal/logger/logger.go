// Package logger provides centralized logging for cmdshell.
// It wraps charmbracelet/log with level configuration from flags or the environment and
// hands out prefixed component loggers for the interpreter packages.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// EnvLogLevel names the environment variable consulted when no level flag is given.
const EnvLogLevel = "CMDSHELL_LOG_LEVEL"

// Logger is the global logger instance used by the cmdshell binary.
var Logger *log.Logger

var (
	outputMu sync.RWMutex
	output   io.Writer = os.Stderr
	logFile  io.Closer
)

// levelBadges are the background colors of the component logger level labels.
var levelBadges = []struct {
	level log.Level
	label string
	color string
}{
	{log.DebugLevel, "DEBUG", "240"},
	{log.InfoLevel, "INFO", "33"},
	{log.WarnLevel, "WARN", "214"},
	{log.ErrorLevel, "ERROR", "196"},
	{log.FatalLevel, "FATAL", "88"},
}

// keyColors highlight the keys the interpreter packages log with.
var keyColors = map[string]string{
	"command": "46",
	"state":   "99",
	"line":    "39",
	"error":   "196",
	"session": "51",
}

func init() {
	Logger = newLogger(os.Stderr, log.InfoLevel)
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.New(w)
	l.SetTimeFormat("")
	l.SetLevel(level)
	return l
}

// Configure sets up the logger from CLI flags and the environment.
// Precedence for the level: flag > CMDSHELL_LOG_LEVEL > info. Test mode never
// logs below info so transcripts stay free of debug noise.
func Configure(logLevel string, logFilePath string, testMode bool) error {
	level := logLevel
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}
	lvl := ParseLevel(level)
	if testMode && lvl < log.InfoLevel {
		lvl = log.InfoLevel
	}

	var w io.Writer = os.Stderr
	var closer io.Closer
	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return err
		}
		w, closer = file, file
	}

	outputMu.Lock()
	if logFile != nil {
		_ = logFile.Close()
	}
	output, logFile = w, closer
	outputMu.Unlock()

	Logger = newLogger(w, lvl)
	return nil
}

// Output returns the writer log records currently go to.
func Output() io.Writer {
	outputMu.RLock()
	defer outputMu.RUnlock()
	return output
}

// ParseLevel converts a level name to a log level. Unknown names map to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// Fatal logs a fatal message with optional key-value pairs and exits.
func Fatal(msg interface{}, keyvals ...interface{}) {
	Logger.Fatal(msg, keyvals...)
}

// NewStyledLogger creates a component logger (e.g. "Interpreter", "Dispatcher") that writes
// to the configured log output with colored level badges and the global logger's level.
func NewStyledLogger(prefix string) *log.Logger {
	styles := log.DefaultStyles()
	for _, badge := range levelBadges {
		styles.Levels[badge.level] = lipgloss.NewStyle().
			SetString(badge.label).
			Padding(0, 1, 0, 1).
			Background(lipgloss.Color(badge.color)).
			Foreground(lipgloss.Color("15"))
	}
	for key, color := range keyColors {
		styles.Keys[key] = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	styles.Values["state"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(keyColors["state"]))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(keyColors["error"]))

	componentLogger := log.NewWithOptions(Output(), log.Options{
		Prefix: prefix + " ",
	})
	componentLogger.SetStyles(styles)
	componentLogger.SetLevel(Logger.GetLevel())
	return componentLogger
}
