package agentcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplan/planner/internal/entities"
)

func TestBuildDifficultyAdjustmentSuggestion(t *testing.T) {
	summary := entities.DefaultAnalyticsSummary()
	summary.Rolling7DayAvg = 0.3
	ctx := Build(entities.State{}, summary, nil, time.Now())

	require.NotEmpty(t, ctx.Suggestions)
	assert.Equal(t, "difficulty_adjustment", ctx.Suggestions[0].Kind)
}

func TestBuildTopUrgentTasksCapsAtFive(t *testing.T) {
	var ts []entities.Task
	for i := 0; i < 8; i++ {
		ts = append(ts, entities.Task{ID: string(rune('a' + i)), Title: "t", Type: entities.TypeOpenEnded, Priority: i + 1})
	}
	ctx := Build(entities.State{}, entities.DefaultAnalyticsSummary(), ts, time.Now())
	assert.Len(t, ctx.UrgentTasks, 5)
}

func TestBuildRecoverySuggestion(t *testing.T) {
	summary := entities.DefaultAnalyticsSummary()
	summary.RecoverySuccessRate = 0.8
	state := entities.State{LastRating: entities.RatingBad}
	ctx := Build(state, summary, nil, time.Now())

	found := false
	for _, s := range ctx.Suggestions {
		if s.Kind == "recovery_suggestion" {
			found = true
		}
	}
	assert.True(t, found)
}
