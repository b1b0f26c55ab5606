package repository

import (
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
	"gorm.io/gorm"
)

type PendingEventRepository struct {
	db *gorm.DB
}

func NewPendingEventRepository(db *gorm.DB) *PendingEventRepository {
	return &PendingEventRepository{db: db}
}

func (r *PendingEventRepository) Enqueue(userID uint, eventID string, payload string, priority int) error {
	pending := &models.PendingEvent{
		UserID:   userID,
		EventID:  eventID,
		Payload:  payload,
		Priority: priority,
		Attempts: 0,
	}
	return r.db.Create(pending).Error
}

func (r *PendingEventRepository) GetPendingForUser(userID uint, limit int) ([]models.PendingEvent, error) {
	var pending []models.PendingEvent
	err := r.db.Where("user_id = ?", userID).
		Order("priority DESC, created_at ASC").
		Limit(limit).
		Find(&pending).Error
	return pending, err
}

func (r *PendingEventRepository) GetRetryable(limit int) ([]models.PendingEvent, error) {
	var pending []models.PendingEvent
	now := time.Now()
	err := r.db.Where("next_retry IS NOT NULL AND next_retry <= ?", now).
		Order("priority DESC, next_retry ASC").
		Limit(limit).
		Find(&pending).Error
	return pending, err
}

func (r *PendingEventRepository) MarkAttempted(id uint, attempts int, nextRetry *time.Time) error {
	now := time.Now()
	updates := map[string]interface{}{
		"attempts":     attempts,
		"last_attempt": now,
		"next_retry":   nextRetry,
	}
	return r.db.Model(&models.PendingEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (r *PendingEventRepository) Delete(id uint) error {
	return r.db.Delete(&models.PendingEvent{}, id).Error
}

func (r *PendingEventRepository) DeleteBatch(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&models.PendingEvent{}, ids).Error
}

func (r *PendingEventRepository) CountPendingForUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PendingEvent{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PendingEventRepository) CleanupOld(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	return r.db.Where("created_at < ?", cutoff).Delete(&models.PendingEvent{}).Error
}
