// Package entity defines the domain entities for the auth feature.
package entity

// Credential is one account of the credentials file.
type Credential struct {
	// Username is the login name. It is unique across the file.
	Username string

	// DisplayName is shown in the dashboard after login.
	DisplayName string

	// PasswordHash is the bcrypt hash of the password.
	// This should never store plaintext passwords.
	PasswordHash string
}
