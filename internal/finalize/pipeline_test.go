package finalize

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/hooks"
	"github.com/dayplan/planner/internal/statestore"
	"github.com/dayplan/planner/internal/tasks"
	"github.com/dayplan/planner/internal/workspace"
)

func testWorkspace(t *testing.T) workspace.Workspace {
	t.Helper()
	t.Setenv(workspace.RootEnvVar, t.TempDir())
	ws, err := workspace.New("UTC")
	require.NoError(t, err)
	require.NoError(t, ws.EnsureDirs())
	return ws
}

func TestRunNoDraftForToday(t *testing.T) {
	ws := testWorkspace(t)
	store := tasks.New(ws, nil)
	p := New(ws, store, hooks.New(ws, nil), nil)

	now := time.Date(2026, 7, 31, 20, 0, 0, 0, time.UTC)
	result, err := p.Run(context.Background(), now)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "no-draft-for-today", result.Reason)
}

func TestRunGoodDayRatesAndArchivesCompletion(t *testing.T) {
	ws := testWorkspace(t)
	store := tasks.New(ws, nil)
	rem := decimal.NewFromFloat(0.4)
	_, err := store.Create(entities.Task{ID: "write-paper", Title: "Write paper", Type: entities.TypeDeadlineProject, RemainingHours: &rem})
	require.NoError(t, err)

	now := time.Date(2026, 7, 31, 20, 0, 0, 0, time.UTC)
	today := now.Format("2006-01-02")

	draft := entities.CheckinDraft{
		Day:  today,
		Mode: entities.ModeCommit,
		Items: map[string]entities.CheckinItem{
			"write-paper": {Label: "Write paper (30m)", Done: true},
		},
		Reflection: "Made good progress today on the paper draft.",
	}
	require.NoError(t, fileio.WriteJSON(ws.CheckinDraftPath(), draft))
	require.NoError(t, fileio.WriteText(ws.PlanPath(), "# Plan\n\n- [ ] Write paper (30m)\n"))

	p := New(ws, store, hooks.New(ws, nil), nil)
	result, err := p.Run(context.Background(), now)
	require.NoError(t, err)
	require.True(t, result.OK)
	assert.Equal(t, entities.RatingGood, result.Rating)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, 1, result.TaskUpdates)

	state, err := statestore.Load(ws)
	require.NoError(t, err)
	assert.Equal(t, today, state.LastFinalizedDate)
	require.Len(t, state.History, 1)

	tf, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tf.Tasks)
	require.Len(t, tf.Archived, 1)
	assert.Equal(t, entities.StatusComplete, tf.Archived[0].Status)

	text, err := fileio.ReadText(ws.ReflectionsPath())
	require.NoError(t, err)
	assert.Contains(t, text, "## "+today)
	assert.Contains(t, text, "GOOD")

	var clearedDraft entities.CheckinDraft
	require.NoError(t, fileio.ReadJSON(ws.CheckinDraftPath(), &clearedDraft))
	assert.Empty(t, clearedDraft.Items)
}

func TestRunIsIdempotentForSameDay(t *testing.T) {
	ws := testWorkspace(t)
	store := tasks.New(ws, nil)
	now := time.Date(2026, 7, 31, 20, 0, 0, 0, time.UTC)
	today := now.Format("2006-01-02")

	draft := entities.CheckinDraft{
		Day:   today,
		Mode:  entities.ModeCommit,
		Items: map[string]entities.CheckinItem{"x": {Label: "Some task", Done: true}},
	}
	require.NoError(t, fileio.WriteJSON(ws.CheckinDraftPath(), draft))

	p := New(ws, store, hooks.New(ws, nil), nil)
	first, err := p.Run(context.Background(), now)
	require.NoError(t, err)
	require.True(t, first.OK)
	assert.False(t, first.AlreadyFinalized)

	// Re-run without a fresh draft for today; already finalized.
	second, err := p.Run(context.Background(), now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, second.AlreadyFinalized)
	assert.Equal(t, first.Rating, second.Rating)
}
