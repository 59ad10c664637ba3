package golden

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdshell/internal/demo"
	"cmdshell/internal/output"
	"cmdshell/internal/testutils"
	"cmdshell/pkg/interpreter"
)

func demoFactory(options ...interpreter.Option) (*interpreter.Interpreter, error) {
	options = append([]interpreter.Option{interpreter.WithLogger(log.New(io.Discard))}, options...)
	interp := interpreter.New(options...)
	return interp, demo.Register(interp)
}

func newRunner(t *testing.T, files map[string]string) (*Runner, *Suite, *output.CaptureBuffer) {
	t.Helper()
	dir := testutils.CreateTempDir(t, files)
	suite, err := LoadSuite(dir)
	require.NoError(t, err)
	report := output.NewCaptureBuffer()
	return NewRunner(suite, demoFactory, output.NewPrinter(output.WithWriter(report), output.TestMode())), suite, report
}

func TestLoadSuite_Discovery(t *testing.T) {
	dir := testutils.CreateTempDir(t, map[string]string{
		"b.cmd":      "add 1\n",
		"a.cmd":      "add 2\n",
		"a.expected": "2\n",
		"notes.txt":  "ignored",
	})

	suite, err := LoadSuite(dir)
	require.NoError(t, err)
	require.Len(t, suite.Cases, 2)
	assert.Equal(t, "a", suite.Cases[0].Name)
	assert.Equal(t, "b.cmd", suite.Cases[1].ScriptFile())
	assert.Equal(t, "b.expected", suite.Cases[1].ExpectedFile())

	_, err = suite.Find("missing")
	assert.Error(t, err)

	sub, err := suite.Subset("b")
	require.NoError(t, err)
	require.Len(t, sub.Cases, 1)
	assert.Equal(t, "b", sub.Cases[0].Name)
	assert.Equal(t, suite.Dir, sub.Dir)

	same, err := suite.Subset()
	require.NoError(t, err)
	assert.Same(t, suite, same)

	_, err = suite.Subset("a", "missing")
	assert.Error(t, err)
}

func TestLoadSuite_Manifest(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		wantErr  bool
		cases    int
	}{
		{name: "valid", manifest: "cases:\n  - name: math\n    script: arithmetic.cmd\n  - name: leds\n", cases: 2},
		{name: "missing name", manifest: "cases:\n  - script: x.cmd\n", wantErr: true},
		{name: "duplicate", manifest: "cases:\n  - name: a\n  - name: a\n", wantErr: true},
		{name: "invalid yaml", manifest: "cases: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutils.CreateTempDir(t, map[string]string{ManifestFile: tt.manifest})
			suite, err := LoadSuite(dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, suite.Cases, tt.cases)
			assert.Equal(t, "arithmetic.cmd", suite.Cases[0].ScriptFile())
		})
	}
}

func TestRunner_RecordAndVerify(t *testing.T) {
	runner, suite, report := newRunner(t, map[string]string{
		"math.cmd": "add 1 2\n# comment\ndiv 1 0\nleds\n",
	})
	ctx := context.Background()

	require.NoError(t, runner.Record(ctx, "math"))
	data, err := os.ReadFile(suite.Path("math.expected"))
	require.NoError(t, err)
	assert.Equal(t, "3\nerror: handler: div: division by zero\nLed status: 000\n", string(data))
	assert.Contains(t, report.String(), "Recorded math")

	outcome := runner.Verify(ctx, "math")
	require.NoError(t, outcome.Err)
	assert.True(t, outcome.Passed)

	require.NoError(t, os.WriteFile(suite.Path("math.expected"), []byte("4\n"), 0o644))
	outcome = runner.Verify(ctx, "math")
	require.NoError(t, outcome.Err)
	assert.False(t, outcome.Passed)
	assert.Equal(t, "4", outcome.Expected)
}

func TestRunner_StopOnError(t *testing.T) {
	runner, _, _ := newRunner(t, map[string]string{
		ManifestFile: "cases:\n  - name: strict\n    stop_on_error: true\n",
		"strict.cmd": "add 1\nbogus\nadd 2\n",
	})

	c, err := runner.suite.Find("strict")
	require.NoError(t, err)
	transcript, err := runner.Transcript(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "1\nerror: unknown command: bogus", transcript)
}

func TestRunner_DeterministicSession(t *testing.T) {
	runner, _, _ := newRunner(t, map[string]string{"a.cmd": "echo hi\n"})
	c, err := runner.suite.Find("a")
	require.NoError(t, err)

	first, err := runner.Transcript(context.Background(), c)
	require.NoError(t, err)
	second, err := runner.Transcript(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunner_VerifyAll(t *testing.T) {
	runner, _, report := newRunner(t, map[string]string{
		ManifestFile:    "cases:\n  - name: pass\n  - name: fail\n  - name: future\n    requires: \">= 99.0.0\"\n  - name: missing\n",
		"pass.cmd":      "echo ok\n",
		"pass.expected": "ok\n",
		"fail.cmd":      "echo no\n",
		"fail.expected": "yes\n",
		"future.cmd":    "echo later\n",
		"missing.cmd":   "echo x\n",
	})

	outcomes, err := runner.VerifyAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, "tests failed: fail, missing", err.Error())
	require.Len(t, outcomes, 4)
	assert.True(t, outcomes[0].Passed)
	assert.False(t, outcomes[1].Passed)
	assert.True(t, outcomes[2].Skipped)
	assert.Error(t, outcomes[3].Err)

	assert.Equal(t, []string{
		"PASS pass",
		"FAIL fail: output doesn't match expected",
		"SKIP future",
		"FAIL missing: failed to read expected file: open " + filepath.Join(runner.suite.Dir, "missing.expected") + ": no such file or directory",
		"Results: 1 passed, 2 failed",
	}, report.Lines())
}

func TestRunner_RecordAll(t *testing.T) {
	runner, suite, _ := newRunner(t, map[string]string{
		ManifestFile: "cases:\n  - name: a\n  - name: b\n    requires: \"< 0.0.1\"\n",
		"a.cmd":      "echo a\n",
		"b.cmd":      "echo b\n",
	})

	require.NoError(t, runner.RecordAll(context.Background()))
	_, err := os.Stat(suite.Path("a.expected"))
	assert.NoError(t, err)
	_, err = os.Stat(suite.Path("b.expected"))
	assert.True(t, os.IsNotExist(err), "disabled cases are not recorded")
}

func TestRunner_Diff(t *testing.T) {
	runner, _, report := newRunner(t, map[string]string{
		"a.cmd":      "echo hello world\n",
		"a.expected": "hello there\n",
	})

	require.NoError(t, runner.Diff(context.Background(), "a"))
	out := report.String()
	assert.Contains(t, out, "=== Test: a ===")
	assert.Contains(t, out, "--- Expected ---\n   1| hello there\n")
	assert.Contains(t, out, "--- Actual ---\n   1| hello world\n")
	assert.Contains(t, out, "--- Diff ---")
	assert.Contains(t, out, `- "`)
	assert.Contains(t, out, `+ "`)

	assert.Error(t, runner.Diff(context.Background(), "nope"))
}

func TestRepositorySuite(t *testing.T) {
	suite, err := LoadSuite(filepath.Join("..", "..", "testdata", "golden"))
	require.NoError(t, err)
	require.NotEmpty(t, suite.Cases)

	runner := NewRunner(suite, demoFactory, output.NewPrinter(output.WithWriter(io.Discard), output.TestMode()))
	outcomes, err := runner.VerifyAll(context.Background())
	for _, o := range outcomes {
		if !o.Passed && !o.Skipped {
			t.Logf("%s expected:\n%s\nactual:\n%s", o.Name, o.Expected, o.Actual)
		}
	}
	require.NoError(t, err)
}

func TestWriteDiff_NoDifferences(t *testing.T) {
	out := output.CaptureOutput(func(p *output.Printer) {
		WriteDiff(p, "same", "x", "x")
	})
	assert.Equal(t, "=== Test: same ===\nNo differences found - test passes!\n", out)
}

func TestDiffLines(t *testing.T) {
	assert.Equal(t, []string{`  "abc"`, `- "d"`, `+ "e"`}, DiffLines("abcd", "abce"))
	assert.Empty(t, DiffLines("", ""))
}

func TestNormalizer(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, "error: bad", n.Clean("\x1b[1;31merror: bad\x1b[0m\r\n\n"))
	assert.Equal(t, "keep  ", n.Clean("keep  \n"))
	assert.Equal(t, "session <uuid>", n.Normalize("session 00000001-0000-4000-8000-000000000001"))
	assert.Equal(t, "at <memory_address>", n.Normalize("at 0xc000012345"))

	assert.True(t, n.Equal("a\nsession <uuid>", "a\nsession 7d444840-9dc0-11d1-b245-5ffdce74fad2"))
	assert.False(t, n.Equal("a", "a\nb"))
	assert.False(t, n.Equal("a", "b"))

	n.AddPattern("number", regexp.MustCompile(`\d+`))
	assert.Equal(t, "took <number>ms", n.Normalize("took 15ms"))
}
