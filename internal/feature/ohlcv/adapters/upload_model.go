package adapters

import (
	"time"

	"ohlcv_dashboard/internal/feature/ohlcv/domain/entity"
)

// UploadModel is the GORM model for the uploads table.
type UploadModel struct {
	SessionID  string    `gorm:"primaryKey;size:64"`
	Filename   string    `gorm:"size:255"`
	Data       []byte    `gorm:"not null"`
	UploadedAt time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (UploadModel) TableName() string {
	return "uploads"
}

// ToEntity converts the GORM model to a domain entity.
func (m *UploadModel) ToEntity() *entity.Upload {
	return &entity.Upload{
		SessionID:  m.SessionID,
		Filename:   m.Filename,
		Data:       m.Data,
		UploadedAt: m.UploadedAt,
	}
}

// UploadModelFromEntity converts a domain entity to a GORM model.
func UploadModelFromEntity(u *entity.Upload) *UploadModel {
	return &UploadModel{
		SessionID:  u.SessionID,
		Filename:   u.Filename,
		Data:       u.Data,
		UploadedAt: u.UploadedAt,
	}
}
