package repository

import (
	"github.com/Symmetry7/KIITstudy/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.Preload("Sender").First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Where("client_id = ? AND sender_id = ?", clientID, senderID).
		Preload("Sender").
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) FindGroupMessages(groupID uint, cursor uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	query := r.db.Where("group_id = ?", groupID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id DESC").
		Limit(limit).
		Preload("Sender").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) FindGroupMessagesSince(groupID uint, sinceID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("group_id = ? AND id > ?", groupID, sinceID).
		Order("id ASC").
		Limit(limit).
		Preload("Sender").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) FindConversation(userID1, userID2 uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where(
		"group_id IS NULL AND ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))",
		userID1, userID2, userID2, userID1,
	).
		Order("id DESC").
		Limit(limit).
		Preload("Sender").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) LatestGroupMessageID(groupID uint) (uint, error) {
	var id uint
	err := r.db.Model(&models.Message{}).
		Where("group_id = ?", groupID).
		Select("COALESCE(MAX(id), 0)").
		Scan(&id).Error
	return id, err
}
