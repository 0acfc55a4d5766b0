// Package reflections maintains reflections.md, the rolling
// append-newest-first markdown journal that doubles as the analytics
// engine's sole text input — its format is a stable contract the analytics
// parser depends on.
package reflections

import (
	"fmt"
	"strings"

	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/workspace"
)

// Header is the literal text every reflections.md begins with.
const Header = "# Reflections (rolling)\n\nAppend newest entries at the top.\n\n---\n\n"

// marker is the separator after which new entries are inserted.
const marker = "---\n\n"

// Log reads and appends to reflections.md.
type Log struct {
	ws workspace.Workspace
}

// New returns a Log bound to ws.
func New(ws workspace.Workspace) *Log {
	return &Log{ws: ws}
}

// Read returns the current file contents (empty string if it does not
// exist yet).
func (l *Log) Read() (string, error) {
	return fileio.ReadText(l.ws.ReflectionsPath())
}

// EntryInput is everything BuildEntry needs to render one day's section.
type EntryInput struct {
	Day        string
	Timestamp  string // ISO minute timestamp
	Rating     entities.Rating
	Mode       entities.CheckinMode
	Done       []string
	Notes      map[string]string // label -> comment, only non-empty comments
	Reflection string
	Summary    string
}

// BuildEntry renders one day's section using the verbatim template from the
// reflection-log contract.
func BuildEntry(in EntryInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", in.Day)
	fmt.Fprintf(&b, "- Time: %s\n\n", in.Timestamp)
	fmt.Fprintf(&b, "**Rating:** %s\n\n", strings.ToUpper(string(in.Rating)))
	fmt.Fprintf(&b, "**Mode:** %s\n\n", strings.ToUpper(string(in.Mode)))

	b.WriteString("**Done**\n")
	if len(in.Done) == 0 {
		b.WriteString("- (none)\n")
	} else {
		for _, label := range in.Done {
			fmt.Fprintf(&b, "- %s\n", label)
		}
	}
	b.WriteString("\n**Notes**\n")
	if len(in.Notes) == 0 {
		b.WriteString("- (none)\n")
	} else {
		for _, label := range in.Done {
			if comment, ok := in.Notes[label]; ok && comment != "" {
				fmt.Fprintf(&b, "- %s: %s\n", label, comment)
			}
		}
	}
	b.WriteString("\n**Reflection**\n")
	if strings.TrimSpace(in.Reflection) == "" {
		b.WriteString("- (none)\n")
	} else {
		fmt.Fprintf(&b, "%s\n", in.Reflection)
	}
	b.WriteString("\n**Auto-summary**\n")
	fmt.Fprintf(&b, "- %s\n", in.Summary)
	return b.String()
}

// Prepend inserts entry after the file's first "---\n\n" separator, or at
// the very top if no marker is present (including when the file is empty,
// in which case the canonical Header is written first).
func (l *Log) Prepend(entry string) error {
	current, err := l.Read()
	if err != nil {
		return err
	}
	var next string
	if current == "" {
		next = Header + entry + "\n"
	} else if idx := strings.Index(current, marker); idx >= 0 {
		insertAt := idx + len(marker)
		next = current[:insertAt] + entry + "\n" + current[insertAt:]
	} else {
		next = entry + "\n" + current
	}
	return fileio.WriteText(l.ws.ReflectionsPath(), next)
}
