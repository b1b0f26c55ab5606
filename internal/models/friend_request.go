package models

import (
	"time"

	"gorm.io/gorm"
)

type FriendRequestStatus string

const (
	FriendPending  FriendRequestStatus = "pending"
	FriendAccepted FriendRequestStatus = "accepted"
	FriendRejected FriendRequestStatus = "rejected"
)

type FriendRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FromUserID uint                `gorm:"not null;uniqueIndex:idx_friend_from_to" json:"from_user_id"`
	ToUserID   uint                `gorm:"not null;uniqueIndex:idx_friend_from_to;index" json:"to_user_id"`
	Status     FriendRequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	FromUser User `gorm:"foreignKey:FromUserID" json:"from_user"`
	ToUser   User `gorm:"foreignKey:ToUserID" json:"-"`
}

// Friendship rows are written in both directions when a request is
// accepted, so lookups are a single equality filter.
type Friendship struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	FriendID  uint      `gorm:"primaryKey" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}
