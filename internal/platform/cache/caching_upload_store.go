// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"ohlcv_dashboard/internal/feature/ohlcv/domain/entity"
	"ohlcv_dashboard/internal/feature/ohlcv/usecase"
)

// DefaultTTL はキャッシュエントリの既定の有効期間です。
const DefaultTTL = 10 * time.Minute

// UploadRepository is the source-of-truth store wrapped by CachingUploadStore.
type UploadRepository interface {
	usecase.UploadStore
	// DeleteOlderThan removes uploads stored before cutoff and returns their session IDs.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}

// CachingUploadStore decorates an UploadStore with Redis caching.
// The inner store stays the source of truth; Redis only holds copies
// of recently read uploads so repeated renders skip the database.
type CachingUploadStore struct {
	inner     UploadRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// Compile-time check to ensure CachingUploadStore implements UploadStore.
var _ usecase.UploadStore = (*CachingUploadStore)(nil)

// NewCachingUploadStore decorates an UploadStore with Redis caching.
// If ttl is 0, it defaults to DefaultTTL. If namespace is empty, it uses "uploads".
func NewCachingUploadStore(rdb *redis.Client, ttl time.Duration, inner UploadRepository, namespace string) *CachingUploadStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "uploads"
	}
	return &CachingUploadStore{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Put stores the upload and invalidates the cached copy.
func (c *CachingUploadStore) Put(ctx context.Context, upload *entity.Upload) error {
	if err := c.inner.Put(ctx, upload); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, c.cacheKey(upload.SessionID)).Err() // Best effort
	return nil
}

// Get retrieves an upload, checking cache first then falling back to the inner store.
func (c *CachingUploadStore) Get(ctx context.Context, sessionID string) (*entity.Upload, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Get(ctx, sessionID)
	}

	key := c.cacheKey(sessionID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Upload
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to inner store
	out, err := c.inner.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Delete removes the upload from the inner store and the cache.
func (c *CachingUploadStore) Delete(ctx context.Context, sessionID string) error {
	if err := c.inner.Delete(ctx, sessionID); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, c.cacheKey(sessionID)).Err()
	return nil
}

// DeleteOlderThan sweeps stale uploads from the inner store and evicts their
// cached copies. Returns the number of deleted uploads.
func (c *CachingUploadStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ids, err := c.inner.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if c.rdb != nil && len(ids) > 0 {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = c.cacheKey(id)
		}
		_ = c.rdb.Del(ctx, keys...).Err() // Best effort
	}
	return int64(len(ids)), nil
}

// cacheKey generates a cache key for a session's upload.
func (c *CachingUploadStore) cacheKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(sessionID))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
