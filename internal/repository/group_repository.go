package repository

import (
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

func (r *GroupRepository) FindByID(id uint) (*models.Group, error) {
	var group models.Group
	err := r.db.Preload("Participants.User").
		Preload("JoinRequests.User").
		Preload("Admin").
		First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) Delete(id uint) error {
	return r.db.Select("Participants", "JoinRequests").Delete(&models.Group{ID: id}).Error
}

// ListActive returns groups with at least one member currently
// studying, most recently active first.
func (r *GroupRepository) ListActive(limit int) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Distinct("groups.*").
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.is_studying = true").
		Order("groups.last_active DESC").
		Limit(limit).
		Preload("Participants.User").
		Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) SearchGroups(query string, limit int) ([]models.Group, error) {
	var groups []models.Group
	q := "%" + query + "%"
	err := r.db.Where("is_private = false AND (LOWER(name) LIKE LOWER(?) OR LOWER(subject) LIKE LOWER(?))", q, q).
		Order("last_active DESC").
		Limit(limit).
		Preload("Participants").
		Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) GetUserGroups(userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.last_active DESC").
		Preload("Participants.User").
		Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) UpdateLastActive(groupID uint, at time.Time) error {
	return r.db.Model(&models.Group{}).Where("id = ?", groupID).
		Update("last_active", at).Error
}

func (r *GroupRepository) UpdateAdmin(groupID, userID uint) error {
	return r.db.Model(&models.Group{}).Where("id = ?", groupID).
		Update("admin_id", userID).Error
}

func (r *GroupRepository) AddSessionStats(groupID uint, minutes int) error {
	return r.db.Model(&models.Group{}).Where("id = ?", groupID).Updates(map[string]interface{}{
		"total_sessions":      gorm.Expr("total_sessions + 1"),
		"total_study_minutes": gorm.Expr("total_study_minutes + ?", minutes),
	}).Error
}
