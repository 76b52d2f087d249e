// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "ohlcv_dashboard/internal/feature/auth/adapters"
	"ohlcv_dashboard/internal/feature/auth/usecase"
	"ohlcv_dashboard/internal/platform/session"
)

// NewSessionRepository creates the store for dashboard login sessions, keyed
// by the session id carried in the signed cookie.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to SQL.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, "session")
	}
	return authadapters.NewSessionSQL(db)
}
