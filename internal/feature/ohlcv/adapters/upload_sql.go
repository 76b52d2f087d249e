package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ohlcv_dashboard/internal/feature/ohlcv/domain/entity"
	"ohlcv_dashboard/internal/feature/ohlcv/usecase"
)

// uploadSQL is a GORM implementation of the UploadStore interface.
// It is used when Redis is not available.
type uploadSQL struct {
	db *gorm.DB
}

// Compile-time check to ensure uploadSQL implements UploadStore.
var _ usecase.UploadStore = (*uploadSQL)(nil)

// NewUploadSQL creates a new instance of uploadSQL.
func NewUploadSQL(db *gorm.DB) *uploadSQL {
	return &uploadSQL{db: db}
}

// Put inserts the upload or replaces the existing one for the same session.
func (r *uploadSQL) Put(ctx context.Context, u *entity.Upload) error {
	model := UploadModelFromEntity(u)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"filename", "data", "uploaded_at"}),
	}).Create(model).Error
}

// Get retrieves the upload of a session.
func (r *uploadSQL) Get(ctx context.Context, sessionID string) (*entity.Upload, error) {
	var model UploadModel
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUploadNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// Delete removes the upload of a session.
func (r *uploadSQL) Delete(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Delete(&UploadModel{}, "session_id = ?", sessionID).Error
}

// DeleteOlderThan removes uploads stored before the cutoff.
// Returns the session IDs of the deleted uploads.
func (r *uploadSQL) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&UploadModel{}).
			Where("uploaded_at < ?", cutoff).
			Pluck("session_id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Where("session_id IN ?", ids).Delete(&UploadModel{}).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
