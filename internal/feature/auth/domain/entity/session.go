package entity

import "time"

// Status is the state of a session in the login state machine.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticated   Status = "authenticated"
	StatusExpired         Status = "expired"
)

// Session represents one browser session and its idle timer.
// It is referenced by the ID carried in the signed session cookie.
type Session struct {
	ID           string    `json:"id"`            // 64-character hex string
	Username     string    `json:"username"`      // Authenticated user
	DisplayName  string    `json:"display_name"`  // Name shown in the dashboard
	Status       Status    `json:"status"`        // Login state
	LastActivity time.Time `json:"last_activity"` // Time of the latest observed interaction
	CreatedAt    time.Time `json:"created_at"`    // Session creation time
	ExpiresAt    time.Time `json:"expires_at"`    // Cookie expiration time
}

// IsAuthenticated returns true if the user is currently logged in.
func (s *Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// IsExpiredAt returns true if the session cookie has passed its expiration time.
func (s *Session) IsExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IdleFor returns how long the session has gone without interaction.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastActivity)
}
