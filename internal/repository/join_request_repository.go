package repository

import (
	"github.com/Symmetry7/KIITstudy/internal/models"
	"gorm.io/gorm"
)

type JoinRequestRepository struct {
	db *gorm.DB
}

func NewJoinRequestRepository(db *gorm.DB) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

func (r *JoinRequestRepository) Create(req *models.JoinRequest) error {
	return r.db.Create(req).Error
}

func (r *JoinRequestRepository) FindByID(id uint) (*models.JoinRequest, error) {
	var req models.JoinRequest
	if err := r.db.Preload("User").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *JoinRequestRepository) FindByGroupAndUser(groupID, userID uint) (*models.JoinRequest, error) {
	var req models.JoinRequest
	err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *JoinRequestRepository) ListByGroup(groupID uint) ([]models.JoinRequest, error) {
	var reqs []models.JoinRequest
	err := r.db.Where("group_id = ?", groupID).
		Order("requested_at ASC").
		Preload("User").
		Find(&reqs).Error
	return reqs, err
}

func (r *JoinRequestRepository) Delete(id uint) error {
	return r.db.Delete(&models.JoinRequest{}, id).Error
}
