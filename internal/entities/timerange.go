package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeRange is a pair of HH:MM clock times within a single day, stored as
// minutes since midnight so range arithmetic never touches a Time zone.
type TimeRange struct {
	StartMin int
	EndMin   int
}

// separators accepted between the two clock times of a serialized range.
var rangeSeparators = []string{"-", "–", "—"}

// ParseTimeRange parses "HH:MM-HH:MM" (also accepting en/em dash separators).
func ParseTimeRange(s string) (TimeRange, error) {
	s = strings.TrimSpace(s)
	var left, right string
	found := false
	for _, sep := range rangeSeparators {
		if idx := strings.Index(s, sep); idx >= 0 {
			left, right = s[:idx], s[idx+len(sep):]
			found = true
			break
		}
	}
	if !found {
		return TimeRange{}, fmt.Errorf("time range %q: missing separator", s)
	}
	start, err := parseClockMinutes(strings.TrimSpace(left))
	if err != nil {
		return TimeRange{}, fmt.Errorf("time range %q: %w", s, err)
	}
	end, err := parseClockMinutes(strings.TrimSpace(right))
	if err != nil {
		return TimeRange{}, fmt.Errorf("time range %q: %w", s, err)
	}
	return TimeRange{StartMin: start, EndMin: end}, nil
}

// parseClockMinutes parses "HH:MM" into minutes since midnight.
func parseClockMinutes(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return h*60 + m, nil
}

func formatClockMinutes(mins int) string {
	h := mins / 60
	m := mins % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// String renders the canonical "HH:MM-HH:MM" form, always using a plain
// hyphen regardless of the separator the original text used.
func (r TimeRange) String() string {
	return fmt.Sprintf("%s-%s", formatClockMinutes(r.StartMin), formatClockMinutes(r.EndMin))
}

// MarshalYAML renders the range as its canonical string form.
func (r TimeRange) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// UnmarshalYAML accepts the "HH:MM-HH:MM" string form.
func (r *TimeRange) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseTimeRange(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// DurationMinutes returns the range's length in minutes.
func (r TimeRange) DurationMinutes() int {
	return r.EndMin - r.StartMin
}

// Overlaps reports whether r and other share any minute.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.StartMin < other.EndMin && other.StartMin < r.EndMin
}

// Subtract removes other from r, returning 0, 1, or 2 remaining ranges.
func (r TimeRange) Subtract(other TimeRange) []TimeRange {
	if !r.Overlaps(other) {
		return []TimeRange{r}
	}
	var out []TimeRange
	if other.StartMin > r.StartMin {
		out = append(out, TimeRange{StartMin: r.StartMin, EndMin: min(other.StartMin, r.EndMin)})
	}
	if other.EndMin < r.EndMin {
		out = append(out, TimeRange{StartMin: max(other.EndMin, r.StartMin), EndMin: r.EndMin})
	}
	return out
}

// WithBuffer expands the range by n minutes on each side, used to apply
// commute buffers around a fixed event.
func (r TimeRange) WithBuffer(n int) TimeRange {
	return TimeRange{StartMin: r.StartMin - n, EndMin: r.EndMin + n}
}
