package golden

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cmdshell/internal/output"
	"cmdshell/internal/testutils"
	"cmdshell/pkg/interpreter"
	"cmdshell/pkg/shelltypes"
)

// Factory builds the interpreter a case runs against. It must pass options through
// to interpreter.New; they carry the capture sink and deterministic settings.
type Factory func(options ...interpreter.Option) (*interpreter.Interpreter, error)

// Outcome is the result of verifying one case.
type Outcome struct {
	Name     string
	Passed   bool
	Skipped  bool
	Expected string
	Actual   string
	Err      error
}

// Runner records, verifies and diffs the cases of a suite.
type Runner struct {
	suite      *Suite
	factory    Factory
	normalizer *Normalizer
	printer    *output.Printer
}

// NewRunner creates a runner reporting through printer.
func NewRunner(suite *Suite, factory Factory, printer *output.Printer) *Runner {
	return &Runner{
		suite:      suite,
		factory:    factory,
		normalizer: NewNormalizer(),
		printer:    printer,
	}
}

// Transcript runs a case and returns its normalized output.
func (r *Runner) Transcript(ctx context.Context, c Case) (string, error) {
	script, err := os.ReadFile(r.suite.Path(c.ScriptFile()))
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}

	testutils.ResetTestCounters()
	capture := output.NewCaptureBuffer()
	interp, err := r.factory(
		interpreter.WithOutput(capture),
		interpreter.WithPromptWriter(io.Discard),
		interpreter.WithStyle(output.ModePlain),
		interpreter.WithSessionID(testutils.GenerateID(true)),
		interpreter.WithStopOnError(c.StopOnError),
		interpreter.WithCaseInsensitive(c.CaseInsensitive),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := interp.Run(ctx, interpreter.NewReaderSource(bytes.NewReader(script))); err != nil && !isReported(err) {
		return "", fmt.Errorf("script failed: %w", err)
	}
	return r.normalizer.Normalize(capture.String()), nil
}

// isReported reports whether err is a run-loop failure already written to the
// transcript, as returned in stop-on-error mode.
func isReported(err error) bool {
	for _, target := range []error{shelltypes.ErrParse, shelltypes.ErrUnknownCommand, shelltypes.ErrArgument, shelltypes.ErrHandler} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Record runs the named case and writes its expected file.
func (r *Runner) Record(ctx context.Context, name string) error {
	c, err := r.suite.Find(name)
	if err != nil {
		return err
	}
	transcript, err := r.Transcript(ctx, c)
	if err != nil {
		return err
	}

	expectedPath := r.suite.Path(c.ExpectedFile())
	if err := os.WriteFile(expectedPath, []byte(transcript+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write expected file: %w", err)
	}
	r.printer.Info(fmt.Sprintf("Recorded %s", name))
	return nil
}

// RecordAll records every enabled case.
func (r *Runner) RecordAll(ctx context.Context) error {
	for _, c := range r.suite.Cases {
		if ok, err := r.suite.Enabled(c); err != nil || !ok {
			if err != nil {
				return err
			}
			continue
		}
		if err := r.Record(ctx, c.Name); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
	}
	return nil
}

// Verify runs the named case and compares it with its expected file.
func (r *Runner) Verify(ctx context.Context, name string) Outcome {
	c, err := r.suite.Find(name)
	if err != nil {
		return Outcome{Name: name, Err: err}
	}
	return r.verifyCase(ctx, c)
}

func (r *Runner) verifyCase(ctx context.Context, c Case) Outcome {
	outcome := Outcome{Name: c.Name}

	enabled, err := r.suite.Enabled(c)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	if !enabled {
		outcome.Skipped = true
		return outcome
	}

	expected, err := os.ReadFile(r.suite.Path(c.ExpectedFile()))
	if err != nil {
		outcome.Err = fmt.Errorf("failed to read expected file: %w", err)
		return outcome
	}
	outcome.Expected = strings.TrimRight(string(expected), "\n")

	outcome.Actual, outcome.Err = r.Transcript(ctx, c)
	if outcome.Err == nil {
		outcome.Passed = r.normalizer.Equal(outcome.Expected, outcome.Actual)
	}
	return outcome
}

// VerifyAll verifies every case, reports PASS/FAIL lines and returns an error
// naming the failures.
func (r *Runner) VerifyAll(ctx context.Context) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(r.suite.Cases))
	var failed []string
	passed := 0

	for _, c := range r.suite.Cases {
		o := r.verifyCase(ctx, c)
		outcomes = append(outcomes, o)
		switch {
		case o.Skipped:
			r.printer.Warning(fmt.Sprintf("SKIP %s", o.Name))
		case o.Err != nil:
			failed = append(failed, o.Name)
			r.printer.Error(fmt.Sprintf("FAIL %s: %v", o.Name, o.Err))
		case !o.Passed:
			failed = append(failed, o.Name)
			r.printer.Error(fmt.Sprintf("FAIL %s: output doesn't match expected", o.Name))
		default:
			passed++
			r.printer.Success(fmt.Sprintf("PASS %s", o.Name))
		}
	}

	r.printer.Info(fmt.Sprintf("Results: %d passed, %d failed", passed, len(failed)))
	if len(failed) > 0 {
		return outcomes, fmt.Errorf("tests failed: %s", strings.Join(failed, ", "))
	}
	return outcomes, nil
}

// Diff verifies the named case and writes a detailed comparison.
func (r *Runner) Diff(ctx context.Context, name string) error {
	o := r.Verify(ctx, name)
	if o.Err != nil {
		return o.Err
	}
	if o.Skipped {
		r.printer.Warning(fmt.Sprintf("%s is skipped for version constraints", name))
		return nil
	}
	WriteDiff(r.printer, name, o.Expected, o.Actual)
	return nil
}
