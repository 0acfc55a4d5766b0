package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.General.LogLevel)
	assert.Equal(t, "127.0.0.1:8787", cfg.Serve.Bind)
}

func TestLoadAppliesOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[general]\nlog_level = \"debug\"\n\n[daemon]\ngenerate_cron = \"30 6 * * *\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.General.LogLevel)
	assert.Equal(t, "30 6 * * *", cfg.Daemon.GenerateCron)
	assert.Equal(t, "0 22 * * *", cfg.Daemon.FinalizeCron)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general]\nlog_level = \"verbose\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
