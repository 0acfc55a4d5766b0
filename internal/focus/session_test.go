package focus

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplan/planner/internal/entities"
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

func TestFocusStartStopAppliesProgress(t *testing.T) {
	ws := testWorkspace(t)
	store := tasks.New(ws, nil)
	rem := decimal.NewFromFloat(10)
	_, err := store.Create(entities.Task{ID: "deadline-paper", Title: "Deadline paper", Type: entities.TypeDeadlineProject, RemainingHours: &rem})
	require.NoError(t, err)

	mgr := New(ws, store, nil)
	now := time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC)

	_, err = mgr.Start("deadline-paper", "write", 25, now)
	require.NoError(t, err)

	_, err = mgr.Start("deadline-paper", "write", 25, now)
	assert.Error(t, err)

	later := now.Add(25 * time.Minute)
	session, err := mgr.Stop(true, "", later)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, session.ElapsedMinutes, 0.1)

	tf, err := store.Load()
	require.NoError(t, err)
	f, _ := tf.Tasks[0].RemainingHours.Float64()
	assert.InDelta(t, 10-25.0/60, f, 0.01)
}

func TestFocusInterruptNoopWhenIdle(t *testing.T) {
	ws := testWorkspace(t)
	mgr := New(ws, tasks.New(ws, nil), nil)
	session, err := mgr.Interrupt()
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestFocusStopWithoutActiveIsConflict(t *testing.T) {
	ws := testWorkspace(t)
	mgr := New(ws, tasks.New(ws, nil), nil)
	_, err := mgr.Stop(true, "", time.Now())
	assert.Error(t, err)
}
