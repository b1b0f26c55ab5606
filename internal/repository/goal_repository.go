package repository

import (
	"github.com/Symmetry7/KIITstudy/internal/models"
	"gorm.io/gorm"
)

type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(goal *models.Goal) error {
	return r.db.Create(goal).Error
}

func (r *GoalRepository) FindByID(id uint) (*models.Goal, error) {
	var goal models.Goal
	if err := r.db.Preload("Milestones").First(&goal, id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *GoalRepository) ListByUser(userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Preload("Milestones").
		Find(&goals).Error
	return goals, err
}

func (r *GoalRepository) Update(goal *models.Goal) error {
	return r.db.Save(goal).Error
}

func (r *GoalRepository) Delete(id uint) error {
	return r.db.Select("Milestones").Delete(&models.Goal{ID: id}).Error
}

func (r *GoalRepository) CreateMilestone(m *models.Milestone) error {
	return r.db.Create(m).Error
}

func (r *GoalRepository) UpdateMilestone(m *models.Milestone) error {
	return r.db.Save(m).Error
}
