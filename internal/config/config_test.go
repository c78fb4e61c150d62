package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 120*time.Second, cfg.JWT.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, time.Hour, cfg.JWT.EmailTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "/", cfg.CookiePath)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoadFromEnv_AccessMustBeShorterThanRefresh(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_ACCESS_TTL", "48h")
	t.Setenv("JWT_REFRESH_TTL", "24h")

	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "JWT_ACCESS_TTL must be shorter")
}

func TestLoadFromEnv_InvalidDuration(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_EMAIL_TTL", "soon")

	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "invalid JWT_EMAIL_TTL")
}

func TestLoadFromEnv_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "JWT_ACCESS_SECRET")

	t.Setenv("JWT_ACCESS_SECRET", "a-real-access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "a-real-refresh-secret")
	t.Setenv("JWT_EMAIL_SECRET", "a-real-email-secret")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.CookieSecure, "production defaults to secure cookies")
	assert.True(t, cfg.IsProduction())

	t.Setenv("COOKIE_SECURE", "false")
	_, err = LoadFromEnv()
	assert.ErrorContains(t, err, "COOKIE_SECURE")
}

func TestLoadFromEnv_SMTPNeedsFromAddress(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("EMAIL_FROM_ADDRESS", "")

	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "EMAIL_FROM_ADDRESS")
}

func TestLoad_ReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("HTTP_ADDR=:9999\nLOG_LEVEL=debug\n"), 0o600))

	t.Setenv("APP_ENV", "dev")
	t.Setenv("LOG_LEVEL", "warn")
	// t.Setenv restores the previous value; HTTP_ADDR must start unset for godotenv to fill it
	t.Setenv("HTTP_ADDR", "")
	require.NoError(t, os.Unsetenv("HTTP_ADDR"))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "warn", cfg.LogLevel)
}
