package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tutoraid.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, DriverJSON, cfg.Storage.Driver)
	assert.Equal(t, "data/students.json", cfg.Storage.StudentsPath)
	assert.Equal(t, "data/lessons.json", cfg.Storage.LessonsPath)
	assert.Equal(t, "tutoraid:views", cfg.Events.Channel)
	assert.Equal(t, 15*time.Second, cfg.Events.Heartbeat)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Events.RedisEnabled)
}

func TestLoadReadsFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("SSE_HEARTBEAT", "")

	path := writeEnvFile(t, "PORT=9090\nSTORAGE_DRIVER=SQLite\nALLOWED_ORIGINS=http://a.test, http://b.test\nSSE_HEARTBEAT=nonsense\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.Events.Heartbeat)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("LESSONS_FILE_PATH", "/tmp/custom-lessons.json")
	t.Setenv("ENABLE_REDIS_EVENTS", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-lessons.json", cfg.Storage.LessonsPath)
	assert.True(t, cfg.Events.RedisEnabled)
}

func TestLoadCorruptFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	path := writeEnvFile(t, "PORT=9090\nthis line is not an assignment\n")
	cfg, err := Load(path)
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DriverJSON, cfg.Storage.Driver)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , ,b "))
}
