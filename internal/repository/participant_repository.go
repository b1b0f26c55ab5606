package repository

import (
	"github.com/Symmetry7/KIITstudy/internal/models"
	"gorm.io/gorm"
)

type ParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) Add(groupID, userID uint, role models.GroupRole) error {
	member := models.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		Role:    role,
	}
	return r.db.Create(&member).Error
}

func (r *ParticipantRepository) Remove(groupID, userID uint) error {
	return r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{}).Error
}

func (r *ParticipantRepository) Get(groupID, userID uint) (*models.GroupMember, error) {
	var member models.GroupMember
	err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Preload("User").
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *ParticipantRepository) List(groupID uint) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := r.db.Where("group_id = ?", groupID).
		Order("joined_at ASC").
		Preload("User").
		Find(&members).Error
	return members, err
}

func (r *ParticipantRepository) Count(groupID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

func (r *ParticipantRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ParticipantRepository) Role(groupID, userID uint) (models.GroupRole, error) {
	var member models.GroupMember
	if err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error; err != nil {
		return "", err
	}
	return member.Role, nil
}

func (r *ParticipantRepository) SetRole(groupID, userID uint, role models.GroupRole) error {
	return r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("role", role).Error
}

// AddStudyMinutes is the only writer of study_time. The increment is
// done in SQL so concurrent commits never lose minutes, and the value
// can only grow.
func (r *ParticipantRepository) AddStudyMinutes(groupID, userID uint, minutes int) error {
	return r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Updates(map[string]interface{}{
			"study_time":  gorm.Expr("study_time + ?", minutes),
			"is_studying": false,
		}).Error
}

func (r *ParticipantRepository) SetStudying(groupID, userID uint, studying bool) error {
	return r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("is_studying", studying).Error
}

func (r *ParticipantRepository) LongestTenured(groupID uint) (*models.GroupMember, error) {
	var member models.GroupMember
	err := r.db.Where("group_id = ?", groupID).
		Order("joined_at ASC, user_id ASC").
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *ParticipantRepository) UserIDs(groupID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids).Error
	return ids, err
}
