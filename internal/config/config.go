// Package config loads cmdshell settings from flags, the environment, .env files
// and an optional config file.
//
// Priority (highest to lowest): bound flags > CMDSHELL_* environment variables >
// local .env > config .env > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"cmdshell/internal/output"
	"cmdshell/pkg/interpreter"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "CMDSHELL"

// Configuration keys.
const (
	KeyPrompt          = "prompt"
	KeyStopOnError     = "stop_on_error"
	KeyCaseInsensitive = "case_insensitive"
	KeyCommentPrefix   = "comment_prefix"
	KeyMaxLineLength   = "max_line_length"
	KeyFrontend        = "frontend"
	KeyHistoryFile     = "history_file"
	KeyStyle           = "style"
	KeyLogLevel        = "log_level"
	KeyLogFile         = "log_file"
	KeyTestMode        = "test_mode"
	KeySuggestions     = "suggestions"
)

// Frontends accepted by the frontend key.
var Frontends = []string{"auto", "readline", "liner", "ishell", "plain"}

// Config holds the resolved settings.
type Config struct {
	Prompt          string `mapstructure:"prompt" yaml:"prompt"`
	StopOnError     bool   `mapstructure:"stop_on_error" yaml:"stop_on_error"`
	CaseInsensitive bool   `mapstructure:"case_insensitive" yaml:"case_insensitive"`
	CommentPrefix   string `mapstructure:"comment_prefix" yaml:"comment_prefix"`
	MaxLineLength   int    `mapstructure:"max_line_length" yaml:"max_line_length"`
	Frontend        string `mapstructure:"frontend" yaml:"frontend"`
	HistoryFile     string `mapstructure:"history_file" yaml:"history_file"`
	Style           string `mapstructure:"style" yaml:"style"`
	LogLevel        string `mapstructure:"log_level" yaml:"log_level"`
	LogFile         string `mapstructure:"log_file" yaml:"log_file"`
	TestMode        bool   `mapstructure:"test_mode" yaml:"test_mode"`
	Suggestions     int    `mapstructure:"suggestions" yaml:"suggestions"`
}

// Paths records where configuration was looked up and what was loaded.
type Paths struct {
	ConfigDir       string // Configuration directory path
	ConfigFile      string // Config file that was read, if any
	ConfigEnvPath   string // Config .env file path
	ConfigEnvLoaded bool   // Whether config .env was loaded
	LocalEnvPath    string // Local .env file path
	LocalEnvLoaded  bool   // Whether local .env was loaded
}

// Options control where Load looks for files. Empty fields use the defaults.
type Options struct {
	ConfigFile string // Explicit config file; a missing file is an error
	ConfigDir  string // Defaults to $XDG_CONFIG_HOME/cmdshell
	WorkDir    string // Defaults to the working directory
	SkipFiles  bool   // Ignore config files and .env files
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPrompt, interpreter.DefaultPrompt)
	v.SetDefault(KeyStopOnError, false)
	v.SetDefault(KeyCaseInsensitive, false)
	v.SetDefault(KeyCommentPrefix, interpreter.DefaultCommentPrefix)
	v.SetDefault(KeyMaxLineLength, 0)
	v.SetDefault(KeyFrontend, "auto")
	v.SetDefault(KeyHistoryFile, "")
	v.SetDefault(KeyStyle, output.ModeAuto.String())
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTestMode, false)
	v.SetDefault(KeySuggestions, 3)
}

// DefaultConfigDir returns the cmdshell directory under the user config dir.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "cmdshell"), nil
}

// Load resolves the configuration into v and decodes it. Flags must be bound to v
// before calling Load.
func Load(v *viper.Viper, opts Options) (*Config, *Paths, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	paths := &Paths{}
	if !opts.SkipFiles {
		if err := loadFiles(v, opts, paths); err != nil {
			return nil, paths, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, paths, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, paths, err
	}
	return cfg, paths, nil
}

func loadFiles(v *viper.Viper, opts Options, paths *Paths) error {
	configDir := opts.ConfigDir
	if configDir == "" {
		if dir, err := DefaultConfigDir(); err == nil {
			configDir = dir
		}
	}
	workDir := opts.WorkDir
	if workDir == "" {
		if dir, err := os.Getwd(); err == nil {
			workDir = dir
		}
	}
	paths.ConfigDir = configDir

	if err := readConfigFile(v, opts.ConfigFile, configDir, workDir, paths); err != nil {
		return err
	}

	if configDir != "" {
		paths.ConfigEnvPath = filepath.Join(configDir, ".env")
		loaded, err := mergeDotEnv(v, paths.ConfigEnvPath)
		if err != nil {
			return err
		}
		paths.ConfigEnvLoaded = loaded
	}
	if workDir != "" {
		paths.LocalEnvPath = filepath.Join(workDir, ".env")
		loaded, err := mergeDotEnv(v, paths.LocalEnvPath)
		if err != nil {
			return err
		}
		paths.LocalEnvLoaded = loaded
	}
	return nil
}

func readConfigFile(v *viper.Viper, explicit, configDir, workDir string, paths *Paths) error {
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", explicit, err)
		}
		paths.ConfigFile = explicit
		return nil
	}

	candidates := []string{}
	if workDir != "" {
		candidates = append(candidates, filepath.Join(workDir, ".cmdshell.yaml"))
	}
	if configDir != "" {
		candidates = append(candidates,
			filepath.Join(configDir, "config.yaml"),
			filepath.Join(configDir, "config.toml"))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		v.SetConfigFile(candidate)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", candidate, err)
		}
		paths.ConfigFile = candidate
		return nil
	}
	return nil
}

// mergeDotEnv merges the CMDSHELL_* entries of a .env file into v above the config
// file layer. A missing file is not an error.
func mergeDotEnv(v *viper.Viper, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read .env file %s: %w", path, err)
	}

	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return false, fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}

	values := make(map[string]any)
	for key, value := range envMap {
		name, ok := strings.CutPrefix(key, EnvPrefix+"_")
		if !ok || name == "" {
			continue
		}
		values[strings.ToLower(name)] = value
	}
	if len(values) == 0 {
		return true, nil
	}
	if err := v.MergeConfigMap(values); err != nil {
		return false, fmt.Errorf("failed to merge .env file %s: %w", path, err)
	}
	return true, nil
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	if !slices.Contains(Frontends, c.Frontend) {
		return fmt.Errorf("invalid frontend %q (expected one of %s)", c.Frontend, strings.Join(Frontends, ", "))
	}
	if _, err := output.ParseMode(c.Style); err != nil {
		return err
	}
	if c.MaxLineLength < 0 {
		return fmt.Errorf("invalid max_line_length %d", c.MaxLineLength)
	}
	if c.Suggestions < 0 {
		return fmt.Errorf("invalid suggestions %d", c.Suggestions)
	}
	return nil
}

// StyleMode returns the parsed style setting.
func (c *Config) StyleMode() output.Mode {
	mode, err := output.ParseMode(c.Style)
	if err != nil {
		return output.ModeAuto
	}
	return mode
}

// InterpreterOptions translates the settings into interpreter options.
func (c *Config) InterpreterOptions() []interpreter.Option {
	opts := []interpreter.Option{
		interpreter.WithPrompt(c.Prompt),
		interpreter.WithStopOnError(c.StopOnError),
		interpreter.WithCaseInsensitive(c.CaseInsensitive),
		interpreter.WithCommentPrefix(c.CommentPrefix),
		interpreter.WithSuggestions(c.Suggestions),
		interpreter.WithStyle(c.StyleMode()),
	}
	if c.TestMode {
		opts = append(opts, interpreter.WithStyle(output.ModePlain))
	}
	return opts
}

// SourceOptions translates the settings into reader source options.
func (c *Config) SourceOptions() []interpreter.SourceOption {
	if c.MaxLineLength > 0 {
		return []interpreter.SourceOption{interpreter.WithMaxLineLength(c.MaxLineLength)}
	}
	return nil
}
