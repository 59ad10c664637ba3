package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Printer is the output handler for interpreter results, help text and CLI messages.
// It implements io.Writer so command handlers can write through it directly.
type Printer struct {
	styleProvider StyleProvider
	writer        io.Writer
	mode          Mode
	forcePlain    bool
	silent        bool

	// Thread safety for concurrent output
	mu sync.Mutex
}

// NewPrinter creates a new Printer with the given options.
// By default, it writes to os.Stdout with automatic mode detection.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer: os.Stdout,
		mode:   ModeAuto,
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Write passes b through to the underlying writer unchanged.
func (p *Printer) Write(b []byte) (int, error) {
	if p.silent {
		return len(b), nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writer.Write(b)
}

// Print outputs text without any semantic styling.
func (p *Printer) Print(text string) {
	p.output(SemanticPlain, text, false)
}

// Printf outputs formatted text without any semantic styling.
func (p *Printer) Printf(format string, args ...interface{}) {
	p.output(SemanticPlain, fmt.Sprintf(format, args...), false)
}

// Println outputs text followed by a newline unless it already ends with one.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Info outputs informational text.
func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text, true)
}

// Success outputs a result line.
func (p *Printer) Success(text string) {
	p.output(SemanticSuccess, text, true)
}

// Warning outputs warning text.
func (p *Printer) Warning(text string) {
	p.output(SemanticWarning, text, true)
}

// Error outputs an error line.
func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

// Styled returns text rendered for semantic without writing it.
// Plain printers return text unchanged.
func (p *Printer) Styled(semantic SemanticType, text string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.stylable() {
		return text
	}
	return p.styleProvider.GetStyle(semantic).Render(text)
}

// Markdown writes md rendered with glamour when styling is active, raw otherwise.
func (p *Printer) Markdown(md string) {
	p.mu.Lock()
	styled := p.stylable()
	p.mu.Unlock()

	text := md
	if styled {
		if rendered, err := RenderMarkdown(md, 80); err == nil {
			text = rendered
		}
	}
	p.output(SemanticPlain, text, true)
}

// output is the core output method that handles all rendering logic.
func (p *Printer) output(semantic SemanticType, text string, addNewline bool) {
	if p.silent {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	finalText := text
	if p.stylable() && semantic != SemanticPlain {
		finalText = p.styleProvider.GetStyle(semantic).Render(text)
	}

	if addNewline && !strings.HasSuffix(finalText, "\n") {
		finalText += "\n"
	}

	_, _ = fmt.Fprint(p.writer, finalText) // Ignore write errors for output operations
}

// stylable reports whether styles apply. Callers hold p.mu.
func (p *Printer) stylable() bool {
	if p.forcePlain || p.styleProvider == nil || !p.styleProvider.IsAvailable() {
		return false
	}
	switch p.mode {
	case ModeStyled:
		return true
	case ModeAuto:
		return SupportsColor(p.writer)
	default:
		return false
	}
}

// SetMode changes the output mode. It has no effect on printers forced to plain text.
func (p *Printer) SetMode(mode Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
}

// Mode returns the configured output mode.
func (p *Printer) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// IsStylable returns true if the printer currently applies styles.
func (p *Printer) IsStylable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stylable()
}

// String returns a string representation for debugging.
func (p *Printer) String() string {
	hasStyles := "no"
	if p.IsStylable() {
		hasStyles = "yes"
	}
	return fmt.Sprintf("Printer{mode: %v, styles: %s, writer: %T}", p.Mode(), hasStyles, p.writer)
}
