package golden

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// pattern replaces dynamic content with a <name> placeholder.
type pattern struct {
	name string
	re   *regexp.Regexp
}

// Normalizer turns raw transcripts into comparable text.
type Normalizer struct {
	patterns []pattern
}

// NewNormalizer returns a normalizer with the built-in patterns.
func NewNormalizer() *Normalizer {
	return &Normalizer{patterns: []pattern{
		{name: "uuid", re: regexp.MustCompile(`\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)},
		{name: "memory_address", re: regexp.MustCompile(`0x[a-fA-F0-9]{8,16}\b`)},
	}}
}

// AddPattern registers an extra placeholder pattern.
func (n *Normalizer) AddPattern(name string, re *regexp.Regexp) {
	n.patterns = append(n.patterns, pattern{name: name, re: re})
}

// Clean strips ANSI sequences, carriage returns and trailing newlines. Trailing
// spaces inside lines are kept.
func (n *Normalizer) Clean(output string) string {
	cleaned := ansi.Strip(output)
	cleaned = strings.ReplaceAll(cleaned, "\r\n", "\n")
	return strings.TrimRight(cleaned, "\n")
}

// Normalize cleans output and replaces dynamic content with placeholders.
func (n *Normalizer) Normalize(output string) string {
	normalized := n.Clean(output)
	for _, p := range n.patterns {
		normalized = p.re.ReplaceAllString(normalized, "<"+p.name+">")
	}
	return normalized
}

// Equal compares an expected transcript with a normalized actual one line by line.
// Expected lines may themselves contain placeholders.
func (n *Normalizer) Equal(expected, actual string) bool {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")
	if len(expectedLines) != len(actualLines) {
		return false
	}
	for i, line := range expectedLines {
		if line == actualLines[i] {
			continue
		}
		if n.Normalize(line) != n.Normalize(actualLines[i]) {
			return false
		}
	}
	return true
}
