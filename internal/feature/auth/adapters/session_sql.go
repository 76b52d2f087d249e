package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"ohlcv_dashboard/internal/feature/auth/domain/entity"
	"ohlcv_dashboard/internal/feature/auth/usecase"
)

// sessionSQL is a GORM implementation of the SessionRepository interface.
// It is used when Redis is not available.
type sessionSQL struct {
	db *gorm.DB
}

// Compile-time check to ensure sessionSQL implements SessionRepository.
var _ usecase.SessionRepository = (*sessionSQL)(nil)

// NewSessionSQL creates a new instance of sessionSQL.
func NewSessionSQL(db *gorm.DB) *sessionSQL {
	return &sessionSQL{db: db}
}

// Create persists a new session to the database.
func (r *sessionSQL) Create(ctx context.Context, session *entity.Session) error {
	model := SessionModelFromEntity(session)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID retrieves a session by its ID.
func (r *sessionSQL) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// Update saves the mutable fields of an existing session.
func (r *sessionSQL) Update(ctx context.Context, session *entity.Session) error {
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ?", session.ID).
		Updates(map[string]any{
			"status":        string(session.Status),
			"last_activity": session.LastActivity,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired removes all sessions whose cookie has expired.
func (r *sessionSQL) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&SessionModel{})
	return result.RowsAffected, result.Error
}
