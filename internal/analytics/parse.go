package analytics

import (
	"regexp"
	"strings"

	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/planparser"
)

// stem strips a label's trailing duration suffix and post-colon detail, the
// same normalization the task store uses to match a checkin label to a
// task title.
func stem(label string) string {
	return strings.ToLower(planparser.TitlePrefix(label))
}

var sectionHeader = regexp.MustCompile(`(?m)^## (\d{4}-\d{2}-\d{2})\s*$`)
var bulletItem = regexp.MustCompile(`^-\s+(.*)$`)

// ParseReflections splits reflections.md into one ReflectionRecord per
// "## YYYY-MM-DD" section, the analytics engine's sole text input besides
// state history. It must parse exactly what reflections.BuildEntry writes.
func ParseReflections(text string) []entities.ReflectionRecord {
	locs := sectionHeader.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	records := make([]entities.ReflectionRecord, 0, len(locs))
	for i, loc := range locs {
		day := text[loc[2]:loc[3]]
		start := loc[1]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		records = append(records, parseSection(day, text[start:end]))
	}
	return records
}

func parseSection(day, body string) entities.ReflectionRecord {
	rec := entities.ReflectionRecord{Day: day, Notes: map[string]string{}}
	lines := strings.Split(body, "\n")

	var currentHeading string
	var reflectionLines []string

	for _, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "**Rating:**"):
			rec.Rating = entities.Rating(strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "**Rating:**"))))
			currentHeading = ""
			continue
		case strings.HasPrefix(trimmed, "**Mode:**"):
			rec.Mode = entities.CheckinMode(strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "**Mode:**"))))
			currentHeading = ""
			continue
		case trimmed == "**Done**":
			currentHeading = "done"
			continue
		case trimmed == "**Notes**":
			currentHeading = "notes"
			continue
		case trimmed == "**Reflection**":
			currentHeading = "reflection"
			continue
		case trimmed == "**Auto-summary**":
			currentHeading = "summary"
			continue
		}

		switch currentHeading {
		case "done":
			if m := bulletItem.FindStringSubmatch(trimmed); m != nil && m[1] != "(none)" {
				rec.Done = append(rec.Done, m[1])
			}
		case "notes":
			if m := bulletItem.FindStringSubmatch(trimmed); m != nil && m[1] != "(none)" {
				if idx := strings.Index(m[1], ":"); idx >= 0 {
					label := strings.TrimSpace(m[1][:idx])
					comment := strings.TrimSpace(m[1][idx+1:])
					rec.Notes[label] = comment
				}
			}
		case "reflection":
			if trimmed != "" && trimmed != "- (none)" {
				reflectionLines = append(reflectionLines, trimmed)
			}
		}
	}
	rec.Reflection = strings.TrimSpace(strings.Join(reflectionLines, "\n"))
	return rec
}

// AllItems returns the union of a record's Done items and Notes labels
// whose stem does not already appear among Done, per §4.7.
func AllItems(rec entities.ReflectionRecord) []string {
	seen := make(map[string]bool, len(rec.Done))
	out := make([]string, 0, len(rec.Done)+len(rec.Notes))
	for _, d := range rec.Done {
		seen[stem(d)] = true
		out = append(out, d)
	}
	for label := range rec.Notes {
		if !seen[stem(label)] {
			out = append(out, label)
			seen[stem(label)] = true
		}
	}
	return out
}
