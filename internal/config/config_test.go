package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdshell/internal/output"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func isolated(t *testing.T) Options {
	t.Helper()
	return Options{ConfigDir: t.TempDir(), WorkDir: t.TempDir()}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, paths, err := Load(viper.New(), isolated(t))
	require.NoError(t, err)

	assert.Equal(t, ">>> ", cfg.Prompt)
	assert.Equal(t, "#", cfg.CommentPrefix)
	assert.Equal(t, "auto", cfg.Frontend)
	assert.Equal(t, "auto", cfg.Style)
	assert.Equal(t, 3, cfg.Suggestions)
	assert.False(t, cfg.StopOnError)
	assert.Empty(t, paths.ConfigFile)
	assert.False(t, paths.ConfigEnvLoaded)
	assert.False(t, paths.LocalEnvLoaded)
}

func TestLoad_Precedence(t *testing.T) {
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.ConfigDir, "config.yaml"), "prompt: \"file> \"\nsuggestions: 1\nstyle: styled\nfrontend: liner\n")
	writeFile(t, filepath.Join(opts.ConfigDir, ".env"), "CMDSHELL_PROMPT=\"configenv> \"\nCMDSHELL_SUGGESTIONS=2\nOTHER=ignored\n")
	writeFile(t, filepath.Join(opts.WorkDir, ".env"), "CMDSHELL_PROMPT=\"local> \"\n")
	t.Setenv("CMDSHELL_STOP_ON_ERROR", "true")

	cfg, paths, err := Load(viper.New(), opts)
	require.NoError(t, err)

	assert.Equal(t, "local> ", cfg.Prompt, "local .env overrides config .env")
	assert.Equal(t, 2, cfg.Suggestions, "config .env overrides config file")
	assert.Equal(t, "styled", cfg.Style)
	assert.Equal(t, "liner", cfg.Frontend)
	assert.True(t, cfg.StopOnError, "environment overrides files")
	assert.Equal(t, filepath.Join(opts.ConfigDir, "config.yaml"), paths.ConfigFile)
	assert.True(t, paths.ConfigEnvLoaded)
	assert.True(t, paths.LocalEnvLoaded)
}

func TestLoad_FlagsWin(t *testing.T) {
	t.Setenv("CMDSHELL_PROMPT", "env> ")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("prompt", "", "")
	require.NoError(t, flags.Parse([]string{"--prompt", "flag> "}))

	v := viper.New()
	require.NoError(t, v.BindPFlag(KeyPrompt, flags.Lookup("prompt")))

	cfg, _, err := Load(v, isolated(t))
	require.NoError(t, err)
	assert.Equal(t, "flag> ", cfg.Prompt)
}

func TestLoad_LocalConfigFile(t *testing.T) {
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.WorkDir, ".cmdshell.yaml"), "case_insensitive: true\n")
	writeFile(t, filepath.Join(opts.ConfigDir, "config.yaml"), "case_insensitive: false\n")

	cfg, paths, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.True(t, cfg.CaseInsensitive)
	assert.Equal(t, filepath.Join(opts.WorkDir, ".cmdshell.yaml"), paths.ConfigFile)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	opts := isolated(t)
	file := filepath.Join(t.TempDir(), "shell.toml")
	writeFile(t, file, "max_line_length = 64\ncomment_prefix = \"//\"\n")
	opts.ConfigFile = file

	cfg, _, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxLineLength)
	assert.Equal(t, "//", cfg.CommentPrefix)

	opts.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, _, err = Load(viper.New(), opts)
	assert.Error(t, err)
}

func TestLoad_SkipFiles(t *testing.T) {
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.WorkDir, ".env"), "CMDSHELL_PROMPT=ignored\n")
	opts.SkipFiles = true

	cfg, paths, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, ">>> ", cfg.Prompt)
	assert.Empty(t, paths.LocalEnvPath)
}

func TestLoad_InvalidDotEnv(t *testing.T) {
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.WorkDir, ".env"), "CMDSHELL_PROMPT=\"unterminated\n")

	_, _, err := Load(viper.New(), opts)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Frontend: "auto", Style: "plain"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown frontend", mutate: func(c *Config) { c.Frontend = "gui" }, wantErr: true},
		{name: "unknown style", mutate: func(c *Config) { c.Style = "neon" }, wantErr: true},
		{name: "negative line length", mutate: func(c *Config) { c.MaxLineLength = -1 }, wantErr: true},
		{name: "negative suggestions", mutate: func(c *Config) { c.Suggestions = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := Config{Style: "styled", MaxLineLength: 16}
	assert.Equal(t, output.ModeStyled, cfg.StyleMode())
	assert.Len(t, cfg.SourceOptions(), 1)
	assert.Len(t, cfg.InterpreterOptions(), 6)

	cfg.TestMode = true
	cfg.MaxLineLength = 0
	assert.Len(t, cfg.InterpreterOptions(), 7)
	assert.Empty(t, cfg.SourceOptions())

	assert.Equal(t, output.ModeAuto, (&Config{Style: "bogus"}).StyleMode())
}
