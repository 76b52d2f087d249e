// Package session provides the Redis-backed session repository.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ohlcv_dashboard/internal/feature/auth/domain/entity"
	"ohlcv_dashboard/internal/feature/auth/usecase"
)

// SessionRedis implements usecase.SessionRepository using Redis.
// Keys expire together with the session cookie.
type SessionRedis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// Compile-time check to ensure SessionRedis implements SessionRepository.
var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a new SessionRedis instance.
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	return &SessionRedis{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// sessionKey returns the Redis key for a session.
func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

// Create persists a new session to Redis.
func (r *SessionRedis) Create(ctx context.Context, session *entity.Session) error {
	data, ttl, err := r.encode(session)
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, r.sessionKey(session.ID), data, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	return nil
}

// FindByID retrieves a session by its ID.
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Update overwrites an existing session, keeping its expiry aligned with ExpiresAt.
func (r *SessionRedis) Update(ctx context.Context, session *entity.Session) error {
	data, ttl, err := r.encode(session)
	if err != nil {
		return err
	}
	ok, err := r.client.SetXX(ctx, r.sessionKey(session.ID), data, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return usecase.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired removes expired sessions (handled by Redis TTL).
func (r *SessionRedis) DeleteExpired(ctx context.Context) (int64, error) {
	// Redis handles expiration automatically via TTL
	return 0, nil
}

func (r *SessionRedis) encode(session *entity.Session) ([]byte, time.Duration, error) {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil, 0, fmt.Errorf("session already expired")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal session: %w", err)
	}
	return data, ttl, nil
}
