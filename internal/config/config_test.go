package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DSN", "postgres://localhost/buddy")
	t.Setenv("TELEGRAM_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8081", cfg.OpsAddr)
	assert.Equal(t, 4, cfg.Generation.WeeksAhead)
	assert.Equal(t, 24*time.Hour, cfg.Generation.Interval)

	settings := cfg.Settings()
	assert.Equal(t, 60, settings.DefaultSessionDuration)
	assert.Equal(t, "16:00", settings.DefaultSessionTime)
	assert.Equal(t, "08:00", settings.WorkingHoursStart)
	assert.Equal(t, "22:00", settings.WorkingHoursEnd)
	assert.Equal(t, 30, settings.ClosenessThreshold)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DSN", "postgres://localhost/buddy")
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("ENV", "production")
	t.Setenv("CLOSENESS_THRESHOLD_MINUTES", "15")
	t.Setenv("WORKING_HOURS_START", "09:30")
	t.Setenv("GENERATION_INTERVAL", "6h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 15, cfg.Schedule.ClosenessThreshold)
	assert.Equal(t, "09:30", cfg.Schedule.WorkingHoursStart)
	assert.Equal(t, 6*time.Hour, cfg.Generation.Interval)
}

func TestLoadFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "DB_DSN=postgres://file/buddy\nTELEGRAM_TOKEN=file-token\nDEFAULT_SESSION_DURATION=45\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Chdir(dir)

	// t.Setenv вернёт окружение после godotenv
	t.Setenv("DB_DSN", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("DEFAULT_SESSION_DURATION", "")
	os.Unsetenv("DB_DSN")
	os.Unsetenv("TELEGRAM_TOKEN")
	os.Unsetenv("DEFAULT_SESSION_DURATION")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://file/buddy", cfg.DBDSN)
	assert.Equal(t, "file-token", cfg.TelegramToken)
	assert.Equal(t, 45, cfg.Schedule.DefaultSessionDuration)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing dsn", map[string]string{"DB_DSN": ""}},
		{"missing token", map[string]string{"TELEGRAM_TOKEN": ""}},
		{"bad default time", map[string]string{"DEFAULT_SESSION_TIME": "4pm"}},
		{"inverted hours", map[string]string{"WORKING_HOURS_START": "20:00", "WORKING_HOURS_END": "08:00"}},
		{"zero duration", map[string]string{"DEFAULT_SESSION_DURATION": "0"}},
		{"negative threshold", map[string]string{"CLOSENESS_THRESHOLD_MINUTES": "-5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("DB_DSN", "postgres://localhost/buddy")
			t.Setenv("TELEGRAM_TOKEN", "token")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Hour, parseDuration("", time.Hour))
	assert.Equal(t, time.Hour, parseDuration("nonsense", time.Hour))
	assert.Equal(t, time.Hour, parseDuration("-5m", time.Hour))
	assert.Equal(t, 30*time.Minute, parseDuration("30m", time.Hour))
}
