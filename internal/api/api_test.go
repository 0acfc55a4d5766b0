package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplan/planner/internal/entities"
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

func TestSaveCheckinDraftRejectsNonToday(t *testing.T) {
	e := New(testWorkspace(t), nil)
	now := time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC)
	_, err := e.SaveCheckinDraft("2026-07-30", entities.ModeCommit, nil, "", now)
	assert.Error(t, err)
}

func TestSaveCheckinDraftAndGet(t *testing.T) {
	e := New(testWorkspace(t), nil)
	now := time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC)
	today := now.Format("2006-01-02")

	items := map[string]entities.CheckinItem{"t1": {Label: "Write paper", Done: true}}
	_, err := e.SaveCheckinDraft(today, entities.ModeCommit, items, "good day", now)
	require.NoError(t, err)

	draft, err := e.GetCheckinDraft(now)
	require.NoError(t, err)
	assert.Equal(t, today, draft.Day)
	assert.True(t, draft.Items["t1"].Done)
}

func TestCreateListAndGeneratePlan(t *testing.T) {
	ws := testWorkspace(t)
	e := New(ws, nil)
	now := time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC)

	_, err := e.CreateTask(entities.Task{Title: "Write paper", Type: entities.TypeOpenEnded, Priority: 3})
	require.NoError(t, err)

	listed, err := e.ListTasks(now)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	sched, err := e.GeneratePlan(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, now.Format("2006-01-02"), sched.Date)
}

func TestFocusStartStopThroughEngine(t *testing.T) {
	ws := testWorkspace(t)
	e := New(ws, nil)
	now := time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC)

	task, err := e.CreateTask(entities.Task{Title: "Deep work", Type: entities.TypeOpenEnded, Priority: 1})
	require.NoError(t, err)

	_, err = e.FocusStart(context.Background(), task.ID, task.Title, 25, now)
	require.NoError(t, err)

	current, err := e.FocusCurrent()
	require.NoError(t, err)
	require.NotNil(t, current)

	session, err := e.FocusStop(context.Background(), true, "done", now.Add(25*time.Minute))
	require.NoError(t, err)
	assert.True(t, session.Completed)
}
