package adapters

import (
	"time"

	"ohlcv_dashboard/internal/feature/auth/domain/entity"
)

// SessionModel is the GORM model for the sessions table.
type SessionModel struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Username     string    `gorm:"size:255;not null"`
	DisplayName  string    `gorm:"size:255"`
	Status       string    `gorm:"size:32;not null"`
	LastActivity time.Time `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	ExpiresAt    time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// ToEntity converts the GORM model to a domain entity.
func (m *SessionModel) ToEntity() *entity.Session {
	return &entity.Session{
		ID:           m.ID,
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		Status:       entity.Status(m.Status),
		LastActivity: m.LastActivity,
		CreatedAt:    m.CreatedAt,
		ExpiresAt:    m.ExpiresAt,
	}
}

// SessionModelFromEntity converts a domain entity to a GORM model.
func SessionModelFromEntity(s *entity.Session) *SessionModel {
	return &SessionModel{
		ID:           s.ID,
		Username:     s.Username,
		DisplayName:  s.DisplayName,
		Status:       string(s.Status),
		LastActivity: s.LastActivity,
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
	}
}
