package main

import (
	"context"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ohlcv_dashboard/internal/platform/http/handler"
)

// healthChecks は /healthz で確認する依存サービスを返します。
func healthChecks(db *gorm.DB, rdb *redisv9.Client) map[string]handler.Check {
	checks := map[string]handler.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
