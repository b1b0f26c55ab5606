package models

import (
	"time"

	"gorm.io/gorm"
)

// PendingEvent is a websocket event queued for a user who was offline
// when it was emitted (chat messages, membership changes, session
// lifecycle). Delivery is best-effort with bounded retries.
type PendingEvent struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"not null;index:idx_pending_user_priority" json:"user_id"`

	// EventID is the uuid assigned when the event was emitted; it lets
	// clients deduplicate replays.
	EventID string `gorm:"type:varchar(36);not null" json:"event_id"`

	Attempts    int        `gorm:"default:0" json:"attempts"`
	LastAttempt *time.Time `json:"last_attempt"`
	NextRetry   *time.Time `gorm:"index" json:"next_retry"`

	// System and session events outrank plain chat on flush.
	Priority int `gorm:"default:0;index:idx_pending_user_priority" json:"priority"`

	// Serialized event envelope, stored so delivery needs no joins.
	Payload string `gorm:"type:text" json:"payload"`
}
