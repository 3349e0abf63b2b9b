package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("FRIGATE_API_URL", "http://frigate:5000")
	t.Setenv("SOURCE_PATH", "/media/frigate/exports")
	t.Setenv("DEST_PATH", "/mnt/archive/exports")
	t.Setenv("EXPORT_RETENTION_DAYS", "30")
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://frigate:5000", cfg.FrigateAPIURL)
	assert.Equal(t, "/media/frigate/exports", cfg.SourcePath)
	assert.Equal(t, "/mnt/archive/exports", cfg.DestPath)
	assert.Equal(t, 30, cfg.ExportRetentionDays)

	assert.Equal(t, 1, cfg.ExportDaysAgo)
	assert.Equal(t, "Asia/Shanghai", cfg.Timezone)
	assert.Equal(t, 30*time.Second, cfg.PollInterval())
	assert.Equal(t, 2*time.Hour, cfg.MaxWait())
	assert.Equal(t, []string{"tplink_ipc44aw"}, cfg.FallbackCameras)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingRequiredKeys(t *testing.T) {
	for _, key := range []string{"FRIGATE_API_URL", "SOURCE_PATH", "DEST_PATH", "EXPORT_RETENTION_DAYS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FRIGATE_API_URL")
	assert.Contains(t, err.Error(), "SOURCE_PATH")
	assert.Contains(t, err.Error(), "DEST_PATH")
}

func TestLoadRejectsNonPositiveRetention(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EXPORT_RETENTION_DAYS", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXPORT_RETENTION_DAYS")
}

func TestLoadRejectsNonPositivePollInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL_SECONDS", "-5")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoadFileOverridesEnvironment(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "archiver.yaml")
	data := `api_url: http://frigate.lan:5000
dest_path: /backup/exports
export_retention_days: 14
poll_interval_seconds: 10
timezone: Europe/Berlin
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://frigate.lan:5000", cfg.FrigateAPIURL)
	assert.Equal(t, "/backup/exports", cfg.DestPath)
	assert.Equal(t, 14, cfg.ExportRetentionDays)
	assert.Equal(t, 10*time.Second, cfg.PollInterval())
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)

	// Keys the file leaves out keep their environment values.
	assert.Equal(t, "/media/frigate/exports", cfg.SourcePath)
}

func TestLoadFileMissing(t *testing.T) {
	setRequiredEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFileMalformed(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	loc, fellBack := cfg.Location()
	assert.True(t, fellBack)
	assert.Equal(t, time.UTC, loc)

	cfg.Timezone = "Asia/Shanghai"
	loc, fellBack = cfg.Location()
	assert.False(t, fellBack)
	assert.Equal(t, "Asia/Shanghai", loc.String())
}
