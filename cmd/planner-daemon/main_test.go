package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplan/planner/internal/api"
	"github.com/dayplan/planner/internal/appconfig"
	"github.com/dayplan/planner/internal/entities"
	"github.com/dayplan/planner/internal/fileio"
	"github.com/dayplan/planner/internal/workspace"
	"github.com/dayplan/planner/pkg/logger"
)

func testDaemon(t *testing.T) *daemonTask {
	t.Helper()
	t.Setenv(workspace.RootEnvVar, t.TempDir())
	ws, err := workspace.New("UTC")
	require.NoError(t, err)
	require.NoError(t, ws.EnsureDirs())
	return newDaemon(api.New(ws, logger.Nop()), ws, appconfig.Default(), logger.Nop())
}

func TestDeliveryCronUsesProfileTime(t *testing.T) {
	d := testDaemon(t)
	profile := entities.DefaultProfile()
	profile.DailyPlanDeliveryTime = "07:15"
	require.NoError(t, fileio.WriteYAML(d.ws.ProfilePath(), profile))

	assert.Equal(t, "15 7 * * *", d.deliveryCron())
}

func TestDeliveryCronFallsBackOnBadTime(t *testing.T) {
	d := testDaemon(t)
	profile := entities.DefaultProfile()
	profile.DailyPlanDeliveryTime = "not-a-time"
	require.NoError(t, fileio.WriteYAML(d.ws.ProfilePath(), profile))

	assert.Equal(t, "30 6 * * *", d.deliveryCron())
}

func TestResolveWorkspaceHonorsProfileTimezone(t *testing.T) {
	t.Setenv(workspace.RootEnvVar, t.TempDir())

	probe, err := workspace.New("")
	require.NoError(t, err)
	require.NoError(t, probe.EnsureDirs())
	profile := entities.DefaultProfile()
	profile.Timezone = "America/New_York"
	require.NoError(t, fileio.WriteYAML(probe.ProfilePath(), profile))

	ws, err := resolveWorkspace()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", ws.Location.String())
}
