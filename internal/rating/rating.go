// Package rating implements the deterministic day-grading rules: the
// good/fair/bad rating, streak eligibility, and the one-line prose summary.
package rating

import (
	"fmt"
	"strings"

	"github.com/dayplan/planner/internal/entities"
)

// Rate grades a day from its raw checkin counts. It is a pure function of
// its four inputs, per the testable-properties determinism requirement.
func Rate(done, total int, reflection string, anyTimed bool) entities.Rating {
	half := total / 2
	if half < 1 {
		half = 1
	}
	if done >= half || done >= 2 || (anyTimed && done >= 1) {
		return entities.RatingGood
	}
	if done >= 1 || len(strings.TrimSpace(reflection)) >= 30 {
		return entities.RatingFair
	}
	return entities.RatingBad
}

// StreakCounts reports whether a day counts toward the streak: at least one
// item done, or a substantive reflection, or the plan itself was edited
// since the previous finalization.
func StreakCounts(done int, reflection string, planChanged bool) bool {
	return done >= 1 || len(strings.TrimSpace(reflection)) >= 30 || planChanged
}

// ratingPrefix is the canonical bracketed tag prepended to a summary.
func ratingPrefix(r entities.Rating) string {
	switch r {
	case entities.RatingGood:
		return "[Good]"
	case entities.RatingFair:
		return "[Fair]"
	default:
		return "[Bad]"
	}
}

// closingAdvice is the fixed per-rating closing clause.
func closingAdvice(r entities.Rating) string {
	switch r {
	case entities.RatingGood:
		return "keep the momentum going tomorrow."
	case entities.RatingFair:
		return "a modest day counts — aim to build on it tomorrow."
	default:
		return "tomorrow is a fresh start; consider what got in the way today."
	}
}

// Summarize renders a single-sentence English summary of the day.
func Summarize(day string, r entities.Rating, doneItems []string, minutes int, reflection string) string {
	var doneDesc string
	switch len(doneItems) {
	case 0:
		doneDesc = "no items completed"
	case 1:
		doneDesc = fmt.Sprintf("completed %q", doneItems[0])
	default:
		doneDesc = fmt.Sprintf("completed %d items", len(doneItems))
	}

	minutesDesc := ""
	if minutes > 0 {
		minutesDesc = fmt.Sprintf(" (%d minutes tracked)", minutes)
	}

	reflectionDesc := ""
	if strings.TrimSpace(reflection) != "" {
		reflectionDesc = " with a reflection logged"
	}

	return fmt.Sprintf("%s %s: %s%s%s — %s",
		ratingPrefix(r), day, doneDesc, minutesDesc, reflectionDesc, closingAdvice(r))
}
