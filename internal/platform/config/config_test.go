package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "CREDENTIALS_FILE", "SAMPLE_DATA_FILE", "IDLE_TIMEOUT",
		"MAX_UPLOAD_BYTES", "SESSION_SWEEP_CRON", "LOG_LEVEL", "COOKIE_SECURE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "hashed_credentials.yml", cfg.CredentialsFile)
	assert.Equal(t, "sample_ohlcv_data.csv", cfg.SampleDataFile)
	assert.Equal(t, 600*time.Second, cfg.IdleTimeout)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "0 */5 * * * *", cfg.SessionSweepCron)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CREDENTIALS_FILE", "/etc/dashboard/creds.yml")
	t.Setenv("SAMPLE_DATA_FILE", "/data/sample.csv")
	t.Setenv("IDLE_TIMEOUT", "15m")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("SESSION_SWEEP_CRON", "@every 1m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, Config{
		Port:             "9090",
		CredentialsFile:  "/etc/dashboard/creds.yml",
		SampleDataFile:   "/data/sample.csv",
		IdleTimeout:      15 * time.Minute,
		MaxUploadBytes:   1024,
		SessionSweepCron: "@every 1m",
		LogLevel:         "debug",
		CookieSecure:     true,
	}, cfg)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"idle timeout not a duration", "IDLE_TIMEOUT", "ten minutes"},
		{"idle timeout negative", "IDLE_TIMEOUT", "-1s"},
		{"upload size not a number", "MAX_UPLOAD_BYTES", "big"},
		{"upload size zero", "MAX_UPLOAD_BYTES", "0"},
		{"cookie secure not a bool", "COOKIE_SECURE", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()

			assert.ErrorContains(t, err, tt.key)
		})
	}
}
