package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/reflections"
)

func TestParseReflectionsRoundTripsOwnWriter(t *testing.T) {
	entry := reflections.BuildEntry(reflections.EntryInput{
		Day:        "2026-07-31",
		Timestamp:  "2026-07-31T08:00",
		Rating:     entities.RatingGood,
		Mode:       entities.ModeCommit,
		Done:       []string{"Deadline paper: write 2h", "Daily maintenance 20m"},
		Notes:      map[string]string{"Daily maintenance 20m": "felt good"},
		Reflection: "productive day",
		Summary:    "[Good] solid progress",
	})
	text := reflections.Header + entry

	records := ParseReflections(text)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "2026-07-31", rec.Day)
	assert.Equal(t, entities.RatingGood, rec.Rating)
	assert.Equal(t, entities.ModeCommit, rec.Mode)
	assert.ElementsMatch(t, []string{"Deadline paper: write 2h", "Daily maintenance 20m"}, rec.Done)
	assert.Equal(t, "felt good", rec.Notes["Daily maintenance 20m"])
	assert.Equal(t, "productive day", rec.Reflection)
}

func TestParseReflectionsNoneMarkers(t *testing.T) {
	entry := reflections.BuildEntry(reflections.EntryInput{Day: "2026-07-30", Rating: entities.RatingBad})
	records := ParseReflections(reflections.Header + entry)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Done)
	assert.Empty(t, records[0].Reflection)
}

func TestComputeCompletionByWeekday(t *testing.T) {
	records := []entities.ReflectionRecord{
		{Day: "2026-07-27", Done: []string{"a"}, Notes: map[string]string{}}, // Monday
		{Day: "2026-07-28", Done: []string{}, Notes: map[string]string{"b": "x"}},
	}
	summary := Compute(records, nil)
	assert.Contains(t, summary.CompletionByWeekday, "mon")
	assert.Equal(t, 1.0, summary.CompletionByWeekday["mon"])
	assert.Equal(t, 2, summary.TotalDaysTracked)
}

func TestComputeRecoverySuccessRate(t *testing.T) {
	records := []entities.ReflectionRecord{
		{Day: "2026-07-27", Mode: entities.ModeRecovery, Rating: entities.RatingFair},
		{Day: "2026-07-28", Mode: entities.ModeRecovery, Rating: entities.RatingBad},
	}
	summary := Compute(records, nil)
	assert.Equal(t, 0.5, summary.RecoverySuccessRate)
}

func TestComputeStreakHistory(t *testing.T) {
	history := []entities.HistoryEntry{
		{Day: "2026-07-27", StreakCounted: true},
		{Day: "2026-07-28", StreakCounted: true},
		{Day: "2026-07-29", StreakCounted: false},
		{Day: "2026-07-30", StreakCounted: true},
	}
	summary := Compute(nil, history)
	require.Len(t, summary.StreakHistory, 2)
	assert.Equal(t, entities.StreakRun{Start: "2026-07-27", End: "2026-07-28", Length: 2}, summary.StreakHistory[0])
	assert.Equal(t, entities.StreakRun{Start: "2026-07-30", End: "2026-07-30", Length: 1}, summary.StreakHistory[1])
}
