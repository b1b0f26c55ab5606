package models

import (
	"time"

	"gorm.io/gorm"
)

type GroupRole string

const (
	RoleAdmin  GroupRole = "admin"
	RoleMember GroupRole = "member"
)

type Group struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Subject     string `gorm:"size:100;not null" json:"subject"`
	Description string `gorm:"size:255;not null" json:"description"`

	// AdminID always references a current member; admin succession on
	// departure is handled in the group service.
	AdminID uint `gorm:"not null;index" json:"admin_id"`
	Admin   User `gorm:"foreignKey:AdminID" json:"admin"`

	// Settings
	IsPrivate       bool `gorm:"not null;default:false" json:"is_private"`
	RequireApproval bool `gorm:"not null;default:false" json:"require_approval"`
	MaxParticipants int  `gorm:"not null;default:10" json:"max_participants"`
	AllowChat       bool `gorm:"not null;default:true" json:"allow_chat"`

	// Stats, updated when a study session is committed.
	TotalSessions     int `gorm:"not null;default:0" json:"total_sessions"`
	TotalStudyMinutes int `gorm:"not null;default:0" json:"total_study_minutes"`

	LastActive time.Time `gorm:"index" json:"last_active"`

	Participants []GroupMember `gorm:"foreignKey:GroupID" json:"participants"`
	JoinRequests []JoinRequest `gorm:"foreignKey:GroupID" json:"join_requests,omitempty"`
}

type GroupMember struct {
	GroupID uint      `gorm:"primaryKey" json:"group_id"`
	UserID  uint      `gorm:"primaryKey" json:"user_id"`
	Role    GroupRole `gorm:"type:varchar(20);default:'member'" json:"role"`

	// StudyTime is the member's committed study minutes in this group.
	// It is monotonically non-decreasing; IsStudying is live presence
	// only and never feeds the accounting.
	StudyTime  int       `gorm:"not null;default:0" json:"study_time"`
	IsStudying bool      `gorm:"not null;default:false" json:"is_studying"`
	JoinedAt   time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User  User  `gorm:"foreignKey:UserID" json:"user"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

type GroupResponse struct {
	ID                uint          `json:"id"`
	Name              string        `json:"name"`
	Subject           string        `json:"subject"`
	Description       string        `json:"description"`
	AdminID           uint          `json:"admin_id"`
	IsPrivate         bool          `json:"is_private"`
	RequireApproval   bool          `json:"require_approval"`
	MaxParticipants   int           `json:"max_participants"`
	AllowChat         bool          `json:"allow_chat"`
	TotalSessions     int           `json:"total_sessions"`
	TotalStudyHours   int           `json:"total_study_hours"`
	ParticipantCount  int           `json:"participant_count"`
	Participants      []GroupMember `json:"participants,omitempty"`
	PendingRequests   int           `json:"pending_requests"`
	LastActive        time.Time     `json:"last_active"`
	CreatedAt         time.Time     `json:"created_at"`
}

func (g *Group) ToResponse() GroupResponse {
	return GroupResponse{
		ID:               g.ID,
		Name:             g.Name,
		Subject:          g.Subject,
		Description:      g.Description,
		AdminID:          g.AdminID,
		IsPrivate:        g.IsPrivate,
		RequireApproval:  g.RequireApproval,
		MaxParticipants:  g.MaxParticipants,
		AllowChat:        g.AllowChat,
		TotalSessions:    g.TotalSessions,
		TotalStudyHours:  g.TotalStudyMinutes / 60,
		ParticipantCount: len(g.Participants),
		Participants:     g.Participants,
		PendingRequests:  len(g.JoinRequests),
		LastActive:       g.LastActive,
		CreatedAt:        g.CreatedAt,
	}
}
