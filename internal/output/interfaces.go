// Package output provides the console output system for cmdshell.
// A Printer writes plain or themed text to any io.Writer; styling is supplied through
// the StyleProvider interface so the interpreter core never depends on a terminal.
package output

import "fmt"

// StyleProvider supplies styles for semantic output types.
type StyleProvider interface {
	// GetStyle returns a TextStyle for the given semantic type.
	GetStyle(semantic SemanticType) TextStyle

	// IsAvailable reports whether the provider can style text.
	IsAvailable() bool
}

// TextStyle renders text. lipgloss.Style satisfies it.
type TextStyle interface {
	Render(strs ...string) string
}

// Mode defines the output modes a printer can operate in.
type Mode int

const (
	// ModeAuto styles output only when the writer supports color.
	ModeAuto Mode = iota

	// ModeStyled forces styled output.
	ModeStyled

	// ModePlain forces plain text output.
	ModePlain
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStyled:
		return "styled"
	case ModePlain:
		return "plain"
	default:
		return "auto"
	}
}

// ParseMode converts a configuration value (auto, plain, styled) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "auto":
		return ModeAuto, nil
	case "plain":
		return ModePlain, nil
	case "styled":
		return ModeStyled, nil
	default:
		return ModeAuto, fmt.Errorf("unknown output style %q (use auto, plain or styled)", s)
	}
}

// SemanticType defines the semantic meaning of output for consistent styling.
type SemanticType string

const (
	// SemanticPlain represents text without semantic meaning.
	SemanticPlain SemanticType = "plain"
	// SemanticInfo represents informational text.
	SemanticInfo SemanticType = "info"
	// SemanticSuccess represents command results.
	SemanticSuccess SemanticType = "success"
	// SemanticWarning represents warnings.
	SemanticWarning SemanticType = "warning"
	// SemanticError represents reported errors.
	SemanticError SemanticType = "error"
	// SemanticCommand represents command names.
	SemanticCommand SemanticType = "command"
	// SemanticUsage represents usage lines.
	SemanticUsage SemanticType = "usage"
	// SemanticHighlight represents emphasized text such as headings.
	SemanticHighlight SemanticType = "highlight"
)
