package repository

import (
	"github.com/Symmetry7/KIITstudy/internal/models"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(session *models.StudySession) error {
	return r.db.Create(session).Error
}

func (r *SessionRepository) ListByGroup(groupID uint, limit int) ([]models.StudySession, error) {
	var sessions []models.StudySession
	err := r.db.Where("group_id = ?", groupID).
		Order("ended_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) ListByUser(userID uint, limit int) ([]models.StudySession, error) {
	var sessions []models.StudySession
	err := r.db.Where("user_id = ?", userID).
		Order("ended_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
