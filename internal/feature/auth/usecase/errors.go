// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a username is absent from the credentials file.
	ErrUserNotFound = errors.New("user not found")

	// ErrAuthenticationFailed is returned when the username or password is wrong.
	ErrAuthenticationFailed = errors.New("username/password is incorrect")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a session was logged out for inactivity.
	ErrSessionExpired = errors.New("session timed out due to inactivity")
)
