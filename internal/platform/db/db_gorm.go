// Package db はGORMによるデータベース接続を提供します。
package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultSQLiteDSN = "ohlcv_dashboard.db"
	retryInterval    = 3 * time.Second
	connectTimeout   = 60 * time.Second
)

// Config はデータベース接続設定を保持します。
type Config struct {
	Driver string // sqlite or postgres
	DSN    string // Driver-specific data source name
}

// LoadConfigFromEnv は環境変数（DB_DRIVER, DB_DSN）からデータベース設定を読み込みます。
// DB_DRIVERが未設定の場合はsqliteを使用します。
func LoadConfigFromEnv() Config {
	cfg := Config{
		Driver: os.Getenv("DB_DRIVER"),
		DSN:    os.Getenv("DB_DSN"),
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.DSN == "" && cfg.Driver == DriverSQLite {
		cfg.DSN = defaultSQLiteDSN
	}
	return cfg
}

// Dialector は設定されたドライバーに対応するGORMダイアレクタを返します。
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for driver %q", cfg.Driver)
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// ConnectWithRetry はタイムアウトまでリトライしながらDB接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB はデータベースに接続し、渡されたモデルのマイグレーションを実行します。
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	opener := func(string) (*gorm.DB, error) {
		return gorm.Open(dialector, &gorm.Config{})
	}
	db, err := ConnectWithRetry(cfg.DSN, connectTimeout, opener)
	if err != nil {
		return nil, err
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}
