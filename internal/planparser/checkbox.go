// Package planparser extracts labeled checkboxes and embedded durations
// from the free-text plan.md the scheduler renders and the user edits.
package planparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// checkboxPattern matches a line-start bullet checkbox:
// optional whitespace, "-" or "*", whitespace, "[x|X| ]", whitespace, label.
var checkboxPattern = regexp.MustCompile(`^\s*[-*]\s\[([ xX])\]\s+(.*)$`)

// durationSuffix matches a trailing "<n>h" / "<n>m" / "<n.n>h" duration,
// case-insensitive, at the end of a label.
var durationSuffix = regexp.MustCompile(`(?i)\s*(\d+(?:\.\d+)?)(h|m)\s*$`)

// ExtractCheckboxes returns one Checkbox per matching line of text, keyed
// by its zero-based line position so duplicate labels stay distinguishable.
func ExtractCheckboxes(text string) []Checkbox {
	lines := strings.Split(text, "\n")
	var out []Checkbox
	for i, line := range lines {
		m := checkboxPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		checked := m[1] == "x" || m[1] == "X"
		out = append(out, Checkbox{
			Key:     fmt.Sprintf("line-%d", i),
			Label:   strings.TrimSpace(m[2]),
			Checked: checked,
		})
	}
	return out
}

// Checkbox is the parser's derived output. It has the same fields as
// internal/entities.PlanCheckbox but is a separate type; nothing converts
// between the two.
type Checkbox struct {
	Key     string
	Label   string
	Checked bool
}

// DurationMinutes returns the minutes implied by a label's trailing "<n>h"
// or "<n>m" suffix, or 0 if the label carries none.
func DurationMinutes(label string) int {
	m := durationSuffix.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(m[2]) {
	case "h":
		return int(n * 60)
	case "m":
		return int(n)
	default:
		return 0
	}
}

// TitlePrefix strips a label's trailing duration suffix and, if a colon
// remains, keeps only the part before the first colon.
func TitlePrefix(label string) string {
	stripped := durationSuffix.ReplaceAllString(label, "")
	stripped = strings.TrimSpace(stripped)
	if idx := strings.Index(stripped, ":"); idx >= 0 {
		stripped = strings.TrimSpace(stripped[:idx])
	}
	return stripped
}
