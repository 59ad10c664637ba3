package testutils

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"cmdshell/internal/output"
	"cmdshell/pkg/interpreter"
	"cmdshell/pkg/shelltypes"
)

// Harness wires an interpreter to in-memory sinks.
type Harness struct {
	Interp  *interpreter.Interpreter
	Out     *output.CaptureBuffer
	Prompts *output.CaptureBuffer
}

// NewHarness creates an interpreter with plain output, a discarded logger and a
// deterministic session id. Extra options are applied last.
func NewHarness(options ...interpreter.Option) *Harness {
	h := &Harness{
		Out:     output.NewCaptureBuffer(),
		Prompts: output.NewCaptureBuffer(),
	}
	base := []interpreter.Option{
		interpreter.WithOutput(h.Out),
		interpreter.WithPromptWriter(h.Prompts),
		interpreter.WithStyle(output.ModePlain),
		interpreter.WithLogger(log.New(io.Discard)),
		interpreter.WithSessionID(GenerateID(true)),
	}
	h.Interp = interpreter.New(append(base, options...)...)
	return h
}

// Run feeds lines to the loop.
func (h *Harness) Run(lines ...string) error {
	return h.Interp.Run(context.Background(), interpreter.NewSliceSource(lines...))
}

// Exec processes one line.
func (h *Harness) Exec(line string) shelltypes.Result {
	return h.Interp.Execute(context.Background(), line)
}

// Output returns everything written to the output sink and clears it.
func (h *Harness) Output() string {
	out := h.Out.String()
	h.Out.Reset()
	return out
}

// CreateTempDir creates a temporary directory holding files and returns its path.
func CreateTempDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to create file %s: %v", name, err)
		}
	}
	return dir
}
