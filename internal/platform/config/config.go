// Package config はプロセス設定（環境変数）と認証情報ファイルを読み込みます。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultPort             = "8080"
	DefaultCredentialsFile  = "hashed_credentials.yml"
	DefaultSampleDataFile   = "sample_ohlcv_data.csv"
	DefaultIdleTimeout      = 600 * time.Second
	DefaultMaxUploadBytes   = 32 << 20
	DefaultSessionSweepCron = "0 */5 * * * *"
	DefaultLogLevel         = "info"
)

// Config holds process-level settings loaded from environment variables.
// Redis and database settings are loaded by their own packages.
type Config struct {
	Port             string        // HTTP listen port
	CredentialsFile  string        // Path to the hashed credentials YAML file
	SampleDataFile   string        // Path to the bundled sample CSV
	IdleTimeout      time.Duration // Inactivity limit before forced logout
	MaxUploadBytes   int64         // Maximum accepted CSV upload size
	SessionSweepCron string        // Cron spec (with seconds) for the expired-row sweeper
	LogLevel         string        // debug, info, warn or error
	CookieSecure     bool          // Set the Secure attribute on the session cookie
}

// LoadConfig loads configuration from environment variables, applying defaults
// for unset values. Malformed values are reported as errors.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:             getenv("PORT", DefaultPort),
		CredentialsFile:  getenv("CREDENTIALS_FILE", DefaultCredentialsFile),
		SampleDataFile:   getenv("SAMPLE_DATA_FILE", DefaultSampleDataFile),
		IdleTimeout:      DefaultIdleTimeout,
		MaxUploadBytes:   DefaultMaxUploadBytes,
		SessionSweepCron: getenv("SESSION_SWEEP_CRON", DefaultSessionSweepCron),
		LogLevel:         getenv("LOG_LEVEL", DefaultLogLevel),
	}

	if v := os.Getenv("IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid IDLE_TIMEOUT %q", v)
		}
		cfg.IdleTimeout = d
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q", v)
		}
		cfg.MaxUploadBytes = n
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid COOKIE_SECURE %q", v)
		}
		cfg.CookieSecure = b
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
