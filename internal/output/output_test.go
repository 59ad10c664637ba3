package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinterBasicOutput(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), TestMode())

	printer.Print("hello")
	printer.Println(" world")
	printer.Printf("number: %d", 42)

	assert.Equal(t, "hello world\nnumber: 42", buffer.String())
}

func TestPrinterPrintlnDoesNotDoubleNewline(t *testing.T) {
	out := CaptureOutput(func(p *Printer) {
		p.Println("line\n")
		p.Println("")
	})
	assert.Equal(t, "line\n\n", out)
}

func TestPrinterSemanticOutputPlain(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), TestMode(), WithStyles(DefaultTheme()))

	printer.Info("information")
	printer.Success("5")
	printer.Warning("careful")
	printer.Error("error: parse: unterminated quote at position 4")

	assert.Equal(t, []string{
		"information",
		"5",
		"careful",
		"error: parse: unterminated quote at position 4",
	}, buffer.Lines())
}

func TestPrinterWithTagStyles(t *testing.T) {
	out := CaptureOutput(func(p *Printer) {
		p.Info("test message")
		p.Error("bad")
		p.Print("raw")
	}, WithStyles(TagStyles{}), WithMode(ModeStyled))

	assert.Contains(t, out, "[info]test message[/info]\n")
	assert.Contains(t, out, "[error]bad[/error]\n")
	assert.True(t, strings.HasSuffix(out, "raw"), "plain text must not be styled")
}

func TestPrinterModes(t *testing.T) {
	provider := TagStyles{}

	tests := []struct {
		name     string
		options  []Option
		stylable bool
	}{
		{name: "auto on a buffer", options: []Option{WithStyles(provider)}, stylable: false},
		{name: "styled", options: []Option{WithStyles(provider), WithMode(ModeStyled)}, stylable: true},
		{name: "plain", options: []Option{WithStyles(provider), WithMode(ModePlain)}, stylable: false},
		{name: "styled without provider", options: []Option{WithMode(ModeStyled)}, stylable: false},
		{name: "test mode wins", options: []Option{WithStyles(provider), TestMode(), WithMode(ModeStyled)}, stylable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrinter(append([]Option{WithWriter(&bytes.Buffer{})}, tt.options...)...)
			assert.Equal(t, tt.stylable, p.IsStylable())
		})
	}
}

func TestPrinterUnavailableProviderIgnored(t *testing.T) {
	provider := TagStyles{Disabled: true}

	p := NewPrinter(WithWriter(&bytes.Buffer{}), WithStyles(provider), WithMode(ModeStyled))
	assert.False(t, p.IsStylable())
}

func TestPrinterStyled(t *testing.T) {
	styled := NewPrinter(WithWriter(&bytes.Buffer{}), WithStyles(TagStyles{}), WithMode(ModeStyled))
	plain := NewPrinter(WithWriter(&bytes.Buffer{}), TestMode())

	assert.Equal(t, "[command]add[/command]", styled.Styled(SemanticCommand, "add"))
	assert.Equal(t, "add", plain.Styled(SemanticCommand, "add"))
}

func TestPrinterWriteIsPassThrough(t *testing.T) {
	buffer := NewCaptureBuffer()
	p := NewPrinter(WithWriter(buffer), WithStyles(TagStyles{}), WithMode(ModeStyled))

	n, err := p.Write([]byte("never gonna-"))
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, "never gonna-", buffer.String())
}

func TestPrinterSilent(t *testing.T) {
	buffer := NewCaptureBuffer()
	p := NewPrinter(WithWriter(buffer), Silent())

	p.Println("hidden")
	_, err := p.Write([]byte("also hidden"))
	require.NoError(t, err)
	assert.Empty(t, buffer.String())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{input: "", expected: ModeAuto},
		{input: "auto", expected: ModeAuto},
		{input: "plain", expected: ModePlain},
		{input: "styled", expected: ModeStyled},
		{input: "json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}

	assert.Equal(t, "styled", ModeStyled.String())
	assert.Equal(t, "plain", ModePlain.String())
	assert.Equal(t, "auto", ModeAuto.String())
}

func TestResolveMode(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	assert.Equal(t, ModePlain, ResolveMode(ModeAuto, &buf))
	assert.Equal(t, ModeStyled, ResolveMode(ModeStyled, &buf))
	assert.False(t, SupportsColor(&buf))
}

func TestLoadTheme(t *testing.T) {
	theme := DefaultTheme()
	require.NotNil(t, theme)
	assert.Equal(t, "default", theme.Name)
	assert.True(t, theme.IsAvailable())

	style, ok := theme.GetStyle(SemanticError).(lipgloss.Style)
	require.True(t, ok)
	assert.True(t, style.GetBold())

	_, ok = theme.GetStyle(SemanticType("unknown")).(lipgloss.Style)
	assert.True(t, ok)
}

func TestLoadThemeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "invalid yaml", data: "styles: [unclosed"},
		{name: "half adaptive color", data: "styles:\n  error:\n    foreground: {light: \"1\"}\n"},
		{name: "numeric color list", data: "styles:\n  error:\n    foreground: [1, 2]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTheme([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "add       ", PadRight("add", 10))
	assert.Equal(t, "verylongname", PadRight("verylongname", 10))

	styled := "\x1b[1madd\x1b[0m"
	padded := PadRight(styled, 10)
	assert.Equal(t, "add       ", Strip(padded))
	assert.True(t, strings.HasPrefix(padded, styled))
}

func TestCaptureBufferLines(t *testing.T) {
	buffer := NewCaptureBuffer()
	assert.Equal(t, []string{}, buffer.Lines())

	_, _ = buffer.Write([]byte("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, buffer.Lines())

	_, _ = buffer.Write([]byte("\n"))
	assert.Equal(t, []string{"a", "b", ""}, buffer.Lines())
}
