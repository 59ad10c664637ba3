package registry

import (
	"sort"
	"strings"
)

// levenshtein calculates the edit distance between two strings
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

type suggestion struct {
	name     string
	distance int
}

// maxDistance scales the accepted edit distance with the input length:
// one edit up to 3 runes, two up to 8, three beyond.
func maxDistance(name string) int {
	switch n := len([]rune(name)); {
	case n <= 3:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// Suggest returns up to maxResults registered names close to name, nearest first.
// Names sharing name as a prefix are always considered close.
func (r *Registry) Suggest(name string, maxResults int) []string {
	if maxResults <= 0 || name == "" {
		return nil
	}

	needle := strings.ToLower(name)
	limit := maxDistance(needle)
	var suggestions []suggestion
	for _, candidate := range r.Names() {
		lower := strings.ToLower(candidate)
		d := levenshtein(needle, lower)
		if strings.HasPrefix(lower, needle) {
			d = min(d, 1)
		}
		if d <= limit && d < max(len(needle), len(lower)) {
			suggestions = append(suggestions, suggestion{name: candidate, distance: d})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].distance != suggestions[j].distance {
			return suggestions[i].distance < suggestions[j].distance
		}
		return suggestions[i].name < suggestions[j].name
	})

	out := make([]string, 0, maxResults)
	for _, s := range suggestions {
		if len(out) == maxResults {
			break
		}
		out = append(out, s.name)
	}
	return out
}
