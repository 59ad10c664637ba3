package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders md for a terminal with glamour, wrapping at width.
// Auto style detection is tried first, then the dark style.
func RenderMarkdown(md string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithEnvironmentConfig(),
	)
	if err != nil {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n") + "\n", nil
}
