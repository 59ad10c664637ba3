package output

import (
	"bytes"
	"strings"
	"sync"
)

// CaptureBuffer collects printer output in memory. Golden runs use it as the
// interpreter sink; writes may come from handler goroutines, so it is locked.
type CaptureBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewCaptureBuffer returns an empty capture buffer.
func NewCaptureBuffer() *CaptureBuffer {
	return &CaptureBuffer{}
}

func (c *CaptureBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *CaptureBuffer) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Reset discards everything captured so far.
func (c *CaptureBuffer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Reset()
}

// Lines splits the captured text on newlines, ignoring one trailing newline.
func (c *CaptureBuffer) Lines() []string {
	text := strings.TrimSuffix(c.String(), "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}

// CaptureOutput runs fn with a printer writing to memory and returns what it
// printed. Without options the printer is in test mode.
func CaptureOutput(fn func(*Printer), options ...Option) string {
	if len(options) == 0 {
		options = []Option{TestMode()}
	}
	buffer := NewCaptureBuffer()
	fn(NewPrinter(append(options, WithWriter(buffer))...))
	return buffer.String()
}

// TagStyles is a StyleProvider that marks styled text with its semantic type,
// "[error]text[/error]", so tests can assert on styling without ANSI codes.
type TagStyles struct {
	Disabled bool
}

// GetStyle implements StyleProvider.
func (t TagStyles) GetStyle(semantic SemanticType) TextStyle {
	return tagStyle(semantic)
}

// IsAvailable implements StyleProvider.
func (t TagStyles) IsAvailable() bool {
	return !t.Disabled
}

type tagStyle SemanticType

func (s tagStyle) Render(strs ...string) string {
	return "[" + string(s) + "]" + strings.Join(strs, " ") + "[/" + string(s) + "]"
}
