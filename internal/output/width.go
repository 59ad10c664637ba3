package output

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// PadRight pads s with spaces to width display cells, ignoring ANSI sequences.
// Strings already at least width wide are returned unchanged.
func PadRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Strip removes ANSI escape sequences from s.
func Strip(s string) string {
	return ansi.Strip(s)
}
