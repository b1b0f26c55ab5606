package repository

import (
	"github.com/Symmetry7/KIITstudy/internal/models"
	"gorm.io/gorm"
)

type FriendRequestRepository struct {
	db *gorm.DB
}

func NewFriendRequestRepository(db *gorm.DB) *FriendRequestRepository {
	return &FriendRequestRepository{db: db}
}

func (r *FriendRequestRepository) Create(req *models.FriendRequest) error {
	return r.db.Create(req).Error
}

func (r *FriendRequestRepository) FindByID(id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.Preload("FromUser").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *FriendRequestRepository) FindBetween(fromUserID, toUserID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *FriendRequestRepository) ListPendingFor(userID uint) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.Where("to_user_id = ? AND status = ?", userID, models.FriendPending).
		Order("created_at DESC").
		Preload("FromUser").
		Find(&reqs).Error
	return reqs, err
}

func (r *FriendRequestRepository) UpdateStatus(id uint, status models.FriendRequestStatus) error {
	return r.db.Model(&models.FriendRequest{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *FriendRequestRepository) CreateFriendship(userID, friendID uint) error {
	// Both directions, so friendship checks are a single lookup.
	rows := []models.Friendship{
		{UserID: userID, FriendID: friendID},
		{UserID: friendID, FriendID: userID},
	}
	return r.db.Create(&rows).Error
}

func (r *FriendRequestRepository) AreFriends(userID, friendID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}
