package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "ohlcv_dashboard/internal/feature/auth/adapters"
	ohlcvadapters "ohlcv_dashboard/internal/feature/ohlcv/adapters"
	"ohlcv_dashboard/internal/platform/cache"
)

// NewUploadStore creates the per-session upload store persisted in SQL.
// If Redis is available, reads are cached there for ttl.
func NewUploadStore(rdb *redis.Client, db *gorm.DB, ttl time.Duration) *cache.CachingUploadStore {
	return cache.NewCachingUploadStore(rdb, ttl, ohlcvadapters.NewUploadSQL(db), "uploads")
}

// Models returns the GORM models to migrate at startup.
func Models() []any {
	return []any{
		&authadapters.SessionModel{},
		&ohlcvadapters.UploadModel{},
	}
}
