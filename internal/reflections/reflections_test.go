package reflections

import (
	"strings"
	"testing"

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

func TestBuildEntryNoneMarkers(t *testing.T) {
	entry := BuildEntry(EntryInput{
		Day:    "2026-07-31",
		Rating: entities.RatingFair,
		Mode:   entities.ModeCommit,
	})
	assert.Contains(t, entry, "## 2026-07-31")
	assert.Contains(t, entry, "**Rating:** FAIR")
	assert.Contains(t, entry, "**Done**\n- (none)")
	assert.Contains(t, entry, "**Notes**\n- (none)")
	assert.Contains(t, entry, "**Reflection**\n- (none)")
}

func TestPrependCreatesHeaderWhenEmpty(t *testing.T) {
	ws := testWorkspace(t)
	log := New(ws)
	require.NoError(t, log.Prepend(BuildEntry(EntryInput{Day: "2026-07-31", Rating: entities.RatingGood})))

	content, err := log.Read()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(content, Header))
	assert.Contains(t, content, "## 2026-07-31")
}

func TestPrependInsertsNewestFirst(t *testing.T) {
	ws := testWorkspace(t)
	log := New(ws)
	require.NoError(t, log.Prepend(BuildEntry(EntryInput{Day: "2026-07-30", Rating: entities.RatingGood})))
	require.NoError(t, log.Prepend(BuildEntry(EntryInput{Day: "2026-07-31", Rating: entities.RatingFair})))

	content, err := log.Read()
	require.NoError(t, err)
	firstIdx := strings.Index(content, "## 2026-07-31")
	secondIdx := strings.Index(content, "## 2026-07-30")
	require.NotEqual(t, -1, firstIdx)
	require.NotEqual(t, -1, secondIdx)
	assert.Less(t, firstIdx, secondIdx)
}
