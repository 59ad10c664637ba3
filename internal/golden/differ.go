package golden

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"cmdshell/internal/output"
)

// maxEqualRun is how much of an unchanged run is shown before it is elided.
const maxEqualRun = 50

// WriteDiff shows expected and actual transcripts with line numbers followed by a
// character diff.
func WriteDiff(printer *output.Printer, name, expected, actual string) {
	printer.Info(fmt.Sprintf("=== Test: %s ===", name))

	if expected == actual {
		printer.Success("No differences found - test passes!")
		return
	}

	printer.Println("\n--- Expected ---")
	writeNumberedLines(printer, expected)

	printer.Println("\n--- Actual ---")
	writeNumberedLines(printer, actual)

	printer.Println("\n--- Diff ---")
	for _, line := range DiffLines(expected, actual) {
		switch {
		case strings.HasPrefix(line, "-"):
			printer.Error(line)
		case strings.HasPrefix(line, "+"):
			printer.Success(line)
		default:
			printer.Println(line)
		}
	}
}

// DiffLines returns one line per diff chunk: "- " for deletions, "+ " for
// insertions and "  " for unchanged text, each quoted.
func DiffLines(expected, actual string) []string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	lines := make([]string, 0, len(diffs))
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			lines = append(lines, fmt.Sprintf("- %q", diff.Text))
		case diffmatchpatch.DiffInsert:
			lines = append(lines, fmt.Sprintf("+ %q", diff.Text))
		case diffmatchpatch.DiffEqual:
			if len(diff.Text) > maxEqualRun {
				lines = append(lines, fmt.Sprintf("  %q...", diff.Text[:maxEqualRun-3]))
			} else {
				lines = append(lines, fmt.Sprintf("  %q", diff.Text))
			}
		}
	}
	return lines
}

func writeNumberedLines(printer *output.Printer, content string) {
	for i, line := range strings.Split(content, "\n") {
		printer.Println(fmt.Sprintf("%4d| %s", i+1, line))
	}
}
