package output

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed themes/default.yaml
var defaultThemeData []byte

// ThemeFile is the YAML layout of a theme.
type ThemeFile struct {
	Name   string                 `yaml:"name"`
	Styles map[string]StyleConfig `yaml:"styles"`
}

// StyleConfig describes one semantic style. Colors are either a plain color string
// or a map with light and dark keys.
type StyleConfig struct {
	Foreground    interface{} `yaml:"foreground,omitempty"`
	Background    interface{} `yaml:"background,omitempty"`
	Bold          *bool       `yaml:"bold,omitempty"`
	Italic        *bool       `yaml:"italic,omitempty"`
	Underline     *bool       `yaml:"underline,omitempty"`
	Strikethrough *bool       `yaml:"strikethrough,omitempty"`
}

// Theme maps semantic types to lipgloss styles and implements StyleProvider.
type Theme struct {
	Name   string
	styles map[SemanticType]lipgloss.Style
}

// DefaultTheme returns the embedded default theme.
func DefaultTheme() *Theme {
	theme, err := LoadTheme(defaultThemeData)
	if err != nil {
		// the embedded file is fixed at build time
		panic(fmt.Sprintf("invalid embedded theme: %v", err))
	}
	return theme
}

// LoadTheme parses a theme from YAML data.
func LoadTheme(data []byte) (*Theme, error) {
	var file ThemeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	theme := &Theme{
		Name:   file.Name,
		styles: make(map[SemanticType]lipgloss.Style, len(file.Styles)),
	}
	for semantic, config := range file.Styles {
		style, err := createStyle(config)
		if err != nil {
			return nil, fmt.Errorf("style %s: %w", semantic, err)
		}
		theme.styles[SemanticType(semantic)] = style
	}
	return theme, nil
}

// GetStyle implements StyleProvider.GetStyle. Unknown semantics get an unstyled style.
func (t *Theme) GetStyle(semantic SemanticType) TextStyle {
	if style, ok := t.styles[semantic]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// IsAvailable implements StyleProvider.IsAvailable.
func (t *Theme) IsAvailable() bool {
	return t != nil
}

// createStyle converts a StyleConfig to a lipgloss.Style.
func createStyle(config StyleConfig) (lipgloss.Style, error) {
	style := lipgloss.NewStyle()

	if config.Foreground != nil {
		color, err := parseColor(config.Foreground)
		if err != nil {
			return style, err
		}
		style = style.Foreground(color)
	}
	if config.Background != nil {
		color, err := parseColor(config.Background)
		if err != nil {
			return style, err
		}
		style = style.Background(color)
	}

	if config.Bold != nil && *config.Bold {
		style = style.Bold(true)
	}
	if config.Italic != nil && *config.Italic {
		style = style.Italic(true)
	}
	if config.Underline != nil && *config.Underline {
		style = style.Underline(true)
	}
	if config.Strikethrough != nil && *config.Strikethrough {
		style = style.Strikethrough(true)
	}

	return style, nil
}

// parseColor parses a color value that can be a string or a light/dark map.
func parseColor(value interface{}) (lipgloss.TerminalColor, error) {
	switch v := value.(type) {
	case string:
		return lipgloss.Color(v), nil
	case map[string]interface{}:
		light, hasLight := v["light"].(string)
		dark, hasDark := v["dark"].(string)
		if hasLight && hasDark {
			return lipgloss.AdaptiveColor{Light: light, Dark: dark}, nil
		}
		return nil, fmt.Errorf("adaptive color needs light and dark keys")
	default:
		return nil, fmt.Errorf("unsupported color value %v", value)
	}
}
