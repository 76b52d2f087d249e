package usecase

import (
	"context"

	"ohlcv_dashboard/internal/feature/auth/domain/entity"
)

// SessionRepository abstracts the persistence layer for session entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SessionRepository interface {
	// Create persists a new session to the storage.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its ID.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Update overwrites the status and last activity of an existing session.
	Update(ctx context.Context, session *entity.Session) error

	// DeleteExpired removes all sessions whose cookie has expired.
	// Returns the number of deleted sessions.
	DeleteExpired(ctx context.Context) (int64, error)
}

// CredentialRepository looks up accounts of the credentials file.
type CredentialRepository interface {
	// FindByUsername returns ErrUserNotFound if the username is unknown.
	FindByUsername(ctx context.Context, username string) (*entity.Credential, error)
}
