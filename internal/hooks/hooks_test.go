package hooks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestDispatchRunsConfiguredHook(t *testing.T) {
	ws := testWorkspace(t)
	hooksYAML := "post_finalize:\n  - command: \"cat > /dev/null && echo ok\"\n"
	require.NoError(t, os.WriteFile(ws.HooksPath(), []byte(hooksYAML), 0o644))

	d := New(ws, nil)
	results := d.Dispatch(context.Background(), PostFinalize, map[string]interface{}{"day": "2026-07-31"})
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].ExitCode)
	assert.Contains(t, results[0].Stdout, "ok")
	assert.NotEmpty(t, results[0].InvocationID)
}

func TestDispatchNoHooksConfigured(t *testing.T) {
	ws := testWorkspace(t)
	d := New(ws, nil)
	results := d.Dispatch(context.Background(), PostFinalize, nil)
	assert.Nil(t, results)
}

func TestDispatchCapturesFailure(t *testing.T) {
	ws := testWorkspace(t)
	hooksYAML := "pre_finalize:\n  - command: \"exit 3\"\n"
	require.NoError(t, os.WriteFile(ws.HooksPath(), []byte(hooksYAML), 0o644))

	d := New(ws, nil)
	results := d.Dispatch(context.Background(), PreFinalize, nil)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].ExitCode)
}

func TestDispatchTimeout(t *testing.T) {
	ws := testWorkspace(t)
	hooksYAML := "pre_finalize:\n  - command: \"sleep 5\"\n    timeout: 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(ws.Root, "planner", "hooks.yaml"), []byte(hooksYAML), 0o644))

	d := New(ws, nil)
	results := d.Dispatch(context.Background(), PreFinalize, nil)
	require.Len(t, results, 1)
	assert.Equal(t, -1, results[0].ExitCode)
	assert.NotEmpty(t, results[0].Error)
}
