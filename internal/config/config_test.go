package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_MatchesDomainLimits(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, domain.DefaultLimits(), cfg.Limits)
	assert.Equal(t, "strata:events:", cfg.EventChannelPrefix)
	assert.Empty(t, cfg.RedisURL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STRATA_DB", "/tmp/strata-test.db")
	t.Setenv("STRATA_USER", "alice")
	t.Setenv("STRATA_ADMINS", " root, ops ,,")
	t.Setenv("STRATA_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STRATA_LOG_LEVEL", "debug")
	t.Setenv("STRATA_LOG_USE_CASES", "true")
	t.Setenv("STRATA_TASK_TITLE_MAX", "80")
	t.Setenv("STRATA_USECASE_NOTES_MAX", "250")
	t.Setenv("STRATA_TASK_RELATIONS_MAX", "5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/strata-test.db", cfg.DBPath)
	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, []string{"root", "ops"}, cfg.Admins)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, 80, cfg.Limits.Task.TitleMax)
	assert.Equal(t, 250, cfg.Limits.UseCase.NotesMax)
	assert.Equal(t, 5, cfg.Limits.TaskRelationsMax)
	assert.Equal(t, 100, cfg.Limits.Project.TitleMax, "untouched entities keep defaults")

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_InvalidNumberKeepsDefault(t *testing.T) {
	t.Setenv("STRATA_PROJECT_TITLE_MIN", "three")
	t.Setenv("STRATA_LOG_USE_CASES", "maybe")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Limits.Project.TitleMin)
	assert.False(t, cfg.LogUseCases)
}

func TestLoad_ReadsDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STRATA_EVENT_CHANNEL_PREFIX=dotenv:\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STRATA_EVENT_CHANNEL_PREFIX") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dotenv:", cfg.EventChannelPrefix)
}

func TestLoad_RejectsInvalidLimits(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"min above max", "STRATA_MODULE_TITLE_MIN", "150"},
		{"zero max", "STRATA_TASK_DESCRIPTION_MAX", "0"},
		{"negative relation cap", "STRATA_TASK_RELATIONS_MAX", "-1"},
		{"zero notes", "STRATA_TASK_NOTES_MAX", "0"},
		{"bad log level", "STRATA_LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
