package models

import (
	"time"
)

// JoinRequest is a pending membership request for a group that requires
// admin approval. Approving promotes it to a GroupMember; rejecting
// discards it. Either way the row is deleted.
type JoinRequest struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	GroupID     uint      `gorm:"not null;uniqueIndex:idx_join_group_user" json:"group_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_join_group_user" json:"user_id"`
	RequestedAt time.Time `gorm:"autoCreateTime" json:"requested_at"`

	User  User  `gorm:"foreignKey:UserID" json:"user"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}
