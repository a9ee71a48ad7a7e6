package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test. godotenv never
// overrides a variable that is present, even when empty.
func unsetEnv(t *testing.T, keys ...string) {
	for _, key := range keys {
		prev, had := os.LookupEnv(key)
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}
}

func setRequired(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "empty.env"))
	require.NoError(t, os.WriteFile(os.Getenv("ENV_FILE"), nil, 0o600))
	t.Setenv("DB_DATABASE", "caredonate.db")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, time.Sunday, cfg.VisitRestDay)
	assert.Equal(t, 3, cfg.VisitDailyCapacity)
	assert.Equal(t, 30, cfg.VisitWindowDays)
	assert.Empty(t, cfg.RedisAddr)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("TIMEZONE", "Africa/Nairobi")
	t.Setenv("VISIT_REST_DAY", "Monday")
	t.Setenv("VISIT_DAILY_CAPACITY", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "Africa/Nairobi", cfg.Location.String())
	assert.Equal(t, time.Monday, cfg.VisitRestDay)
	assert.Equal(t, 5, cfg.VisitDailyCapacity)
}

func TestLoadFromEnvFile(t *testing.T) {
	setRequired(t)
	unsetEnv(t, "PORT", "APP_ENV")
	require.NoError(t, os.WriteFile(os.Getenv("ENV_FILE"), []byte("PORT=4100\nAPP_ENV=production\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4100", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadRejectsBadSettings(t *testing.T) {
	cases := map[string][2]string{
		"short secret":  {"JWT_SECRET", "short"},
		"no database":   {"DB_DATABASE", ""},
		"bad timezone":  {"TIMEZONE", "Mars/Olympus"},
		"bad rest day":  {"VISIT_REST_DAY", "Funday"},
		"zero capacity": {"VISIT_DAILY_CAPACITY", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFailsOnMissingExplicitEnvFile(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load()
	assert.Error(t, err)
}
