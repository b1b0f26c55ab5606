package repository

import (
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
	"gorm.io/gorm"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Create(item *models.ScheduleItem) error {
	return r.db.Create(item).Error
}

func (r *ScheduleRepository) FindByID(id uint) (*models.ScheduleItem, error) {
	var item models.ScheduleItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ScheduleRepository) ListByUser(userID uint) ([]models.ScheduleItem, error) {
	var items []models.ScheduleItem
	err := r.db.Where("user_id = ?", userID).
		Order("starts_at ASC").
		Find(&items).Error
	return items, err
}

func (r *ScheduleRepository) ListByUserRange(userID uint, from, to time.Time) ([]models.ScheduleItem, error) {
	var items []models.ScheduleItem
	err := r.db.Where("user_id = ? AND starts_at >= ? AND starts_at < ?", userID, from, to).
		Order("starts_at ASC").
		Find(&items).Error
	return items, err
}

func (r *ScheduleRepository) ListUpcoming(from, to time.Time) ([]models.ScheduleItem, error) {
	var items []models.ScheduleItem
	err := r.db.Where("status = ? AND reminder_minutes > 0 AND starts_at > ? AND starts_at < ?",
		models.ScheduleScheduled, from, to).
		Order("starts_at ASC").
		Find(&items).Error
	return items, err
}

func (r *ScheduleRepository) Update(item *models.ScheduleItem) error {
	return r.db.Save(item).Error
}

func (r *ScheduleRepository) Delete(id uint) error {
	return r.db.Delete(&models.ScheduleItem{}, id).Error
}
