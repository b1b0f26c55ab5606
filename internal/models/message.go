package models

import (
	"time"

	"gorm.io/gorm"
)

type MessageType string

const (
	TextMessage   MessageType = "text"
	SystemMessage MessageType = "system"
)

// Message is an entry in a group's chat feed or a direct conversation
// between friends. Messages are immutable once created and ordered by
// auto-increment ID within a feed.
type Message struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// ClientID deduplicates retried sends from the same author.
	ClientID string `gorm:"type:varchar(36);uniqueIndex:idx_client_sender" json:"client_id"`

	// SenderID is nil for system messages (lifecycle narration).
	SenderID *uint `gorm:"uniqueIndex:idx_client_sender;index" json:"sender_id"`
	Sender   *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	GroupID     *uint `gorm:"index" json:"group_id"`     // nil for direct messages
	RecipientID *uint `gorm:"index" json:"recipient_id"` // nil for group messages

	Content     string      `gorm:"type:text;not null" json:"content"`
	MessageType MessageType `gorm:"type:varchar(20);default:'text'" json:"message_type"`
}

type MessageResponse struct {
	ID          uint          `json:"id"`
	ClientID    string        `json:"client_id,omitempty"`
	SenderID    *uint         `json:"sender_id"`
	Sender      *UserResponse `json:"sender,omitempty"`
	GroupID     *uint         `json:"group_id"`
	RecipientID *uint         `json:"recipient_id"`
	Content     string        `json:"content"`
	MessageType MessageType   `json:"message_type"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (m *Message) ToResponse() MessageResponse {
	resp := MessageResponse{
		ID:          m.ID,
		ClientID:    m.ClientID,
		SenderID:    m.SenderID,
		GroupID:     m.GroupID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		MessageType: m.MessageType,
		CreatedAt:   m.CreatedAt,
	}
	if m.Sender != nil {
		sender := m.Sender.ToResponse()
		resp.Sender = &sender
	}
	return resp
}
