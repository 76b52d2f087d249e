// Package adapters provides repository implementations for the auth feature.
package adapters

import (
	"context"

	"ohlcv_dashboard/internal/feature/auth/domain/entity"
	"ohlcv_dashboard/internal/feature/auth/usecase"
	"ohlcv_dashboard/internal/platform/config"
)

// credentialStore serves credential lookups from the loaded credentials file.
// The file is read once at startup and never written by the server.
type credentialStore struct {
	users map[string]config.UserEntry
}

// Compile-time check to ensure credentialStore implements CredentialRepository.
var _ usecase.CredentialRepository = (*credentialStore)(nil)

// NewCredentialStore creates a new instance of credentialStore.
func NewCredentialStore(f *config.CredentialsFile) *credentialStore {
	users := make(map[string]config.UserEntry, len(f.Credentials.Usernames))
	for username, u := range f.Credentials.Usernames {
		users[username] = u
	}
	return &credentialStore{users: users}
}

// FindByUsername retrieves the credential record of a user.
func (s *credentialStore) FindByUsername(ctx context.Context, username string) (*entity.Credential, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	return &entity.Credential{
		Username:     username,
		DisplayName:  u.Name,
		PasswordHash: u.Password,
	}, nil
}
