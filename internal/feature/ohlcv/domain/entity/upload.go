package entity

import "time"

// Upload is a CSV file uploaded by a user, kept for the lifetime of their session.
// The raw bytes are stored so that every request re-parses the same input.
type Upload struct {
	SessionID  string    `json:"session_id"`
	Filename   string    `json:"filename"`
	Data       []byte    `json:"data"`
	UploadedAt time.Time `json:"uploaded_at"`
}
